package watcher

import (
	"time"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/urfave/cli/v2"
)

var WatcherOpts struct {
	FeedURL        string
	Account        string
	RelayURL       string
	PollInterval   time.Duration
	FetchTimeout   time.Duration
	CursorFile     string
	CursorTable    string
	PostOnFirstRun bool
}

var FeedURLFlag = relaycli.StringFlag("feed-url", "The RSS feed to watch", &WatcherOpts.FeedURL)
var AccountFlag = relaycli.StringFlag("account", "The account whose status links are posted", &WatcherOpts.Account)
var RelayURLFlag = relaycli.StringFlag("relay-url", "The relay ingest endpoint", &WatcherOpts.RelayURL, "http://localhost:3000/")
var PollIntervalFlag = relaycli.DurationFlag("poll-interval", "How often to poll the feed", &WatcherOpts.PollInterval, time.Minute)
var FetchTimeoutFlag = relaycli.DurationFlag("fetch-timeout", "Timeout for feed and relay requests", &WatcherOpts.FetchTimeout, 20*time.Second)
var CursorFileFlag = relaycli.StringFlag("cursor-file", "File holding the last seen status id", &WatcherOpts.CursorFile, "last_seen_id.txt")
var CursorTableFlag = relaycli.StringFlag("cursor-table", "DynamoDB table holding the last seen status id; overrides --cursor-file", &WatcherOpts.CursorTable)
var PostOnFirstRunFlag = relaycli.BoolFlag("post-on-first-run", "Post the newest status when priming the cursor", &WatcherOpts.PostOnFirstRun)

var WatcherFlags = []cli.Flag{
	FeedURLFlag,
	AccountFlag,
	RelayURLFlag,
	PollIntervalFlag,
	FetchTimeoutFlag,
	CursorFileFlag,
	CursorTableFlag,
	PostOnFirstRunFlag,
}
