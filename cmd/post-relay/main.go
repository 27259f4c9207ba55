package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/SundaeSwap-finance/sundae-post-relay/discord"
	"github.com/SundaeSwap-finance/sundae-post-relay/post"
	"github.com/SundaeSwap-finance/sundae-post-relay/relay"
	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	relayrest "github.com/SundaeSwap-finance/sundae-post-relay/relay-rest"
	relaysecret "github.com/SundaeSwap-finance/sundae-post-relay/relay-secret"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"
)

var opts struct {
	WebhookURL     string
	WebhookSecret  string
	Format         string
	MentionRoleID  string
	WebhookTimeout time.Duration
}

var service = relaycli.NewService("post-relay")

func main() {
	app := relaycli.App(
		service,
		action,
		append(
			relaycli.CommonFlags,
			relaycli.ConsoleFlag(true),
			relaycli.PortFlag(3000),
			relaycli.StringFlag("discord-webhook-url", "Discord webhook that receives every post", &opts.WebhookURL),
			relaycli.StringFlag("webhook-secret", "Secrets Manager secret holding discord_webhook_url", &opts.WebhookSecret),
			relaycli.StringFlag("format", "Outbound message format: content or role-mention", &opts.Format, discord.FormatContent),
			relaycli.StringFlag("mention-role-id", "Role mentioned by the role-mention format", &opts.MentionRoleID),
			relaycli.DurationFlag("webhook-timeout", "Timeout for the webhook call, 0 for none", &opts.WebhookTimeout, 0),
		)...,
	)
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func action(_ *cli.Context) error {
	logger := relaycli.Logger(service)

	webhookURL := strings.TrimSpace(opts.WebhookURL)
	if webhookURL == "" && opts.WebhookSecret != "" {
		s := session.Must(session.NewSession(aws.NewConfig()))
		url, err := relaysecret.LoadWebhookURL(s, opts.WebhookSecret)
		if err != nil {
			return err
		}
		webhookURL = url
	}

	svc, err := buildService(webhookURL, relaycli.BuildMetrics(service))
	if err != nil {
		return err
	}

	logger.Info().
		Str("format", opts.Format).
		Bool("metrics", relaycli.CommonOpts.Metrics).
		Msg("relay configured")

	router := relayrest.Middlewares(logger, chi.NewRouter())
	relay.NewHandler(svc).Routes(router)
	return relayrest.Webserver(service, logger, router)
}

func buildService(webhookURL string, metrics relaycli.Metrics) (*relay.Service, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("--discord-webhook-url (DISCORD_WEBHOOK_URL) or --webhook-secret is required")
	}
	formatter, err := discord.NewFormatter(opts.Format, opts.MentionRoleID)
	if err != nil {
		return nil, err
	}
	return relay.New(post.NewLatest(), formatter, discord.New(webhookURL, opts.WebhookTimeout), metrics), nil
}
