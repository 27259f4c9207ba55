package main

import (
	"fmt"
	"log"
	"os"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	relayddb "github.com/SundaeSwap-finance/sundae-post-relay/relay-ddb"
	"github.com/SundaeSwap-finance/sundae-post-relay/watcher"
	"github.com/SundaeSwap-finance/sundae-post-relay/watcher/cursordao"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var service = relaycli.NewService("rss-watcher")

func main() {
	flags := append(relaycli.CommonFlags, relaycli.ConsoleFlag(true))
	flags = append(flags, watcher.WatcherFlags...)
	flags = append(flags, relayddb.DDBFlags...)

	app := relaycli.App(service, action, flags...)
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func action(_ *cli.Context) error {
	opts := watcher.WatcherOpts
	logger := relaycli.Logger(service)
	metrics := relaycli.BuildMetrics(service)

	runner, err := buildRunner(logger, metrics)
	if err != nil {
		return err
	}

	logger.Info().
		Str("feed", opts.FeedURL).
		Str("relay", opts.RelayURL).
		Bool("ddb_cursor", opts.CursorTable != "").
		Msg("watcher configured")

	return watcher.NewHandler(service, logger, runner, metrics, opts.PollInterval).Start()
}

func buildRunner(logger zerolog.Logger, metrics relaycli.Metrics) (*watcher.Runner, error) {
	opts := watcher.WatcherOpts
	if opts.FeedURL == "" {
		return nil, fmt.Errorf("--feed-url (FEED_URL) is required")
	}
	if opts.Account == "" {
		return nil, fmt.Errorf("--account (ACCOUNT) is required")
	}

	cursor, err := buildCursor()
	if err != nil {
		return nil, err
	}

	return watcher.NewRunner(watcher.Config{
		Feed:           watcher.NewFeed(opts.FeedURL, opts.FetchTimeout),
		Cursor:         cursor,
		Publisher:      watcher.NewPoster(opts.RelayURL, opts.FetchTimeout),
		Account:        opts.Account,
		PostOnFirstRun: opts.PostOnFirstRun,
		Logger:         logger,
		Metrics:        metrics,
	}), nil
}

// buildCursor prefers the DynamoDB table over the local file when one is named.
func buildCursor() (watcher.Cursor, error) {
	opts := watcher.WatcherOpts
	if opts.CursorTable == "" {
		return watcher.FileCursor{Path: opts.CursorFile}, nil
	}
	s, err := session.NewSession(aws.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return cursordao.Build(s, opts.CursorTable, service.Name)
}
