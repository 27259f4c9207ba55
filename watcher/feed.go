// Package watcher polls an RSS feed of status updates and posts each new,
// original item to the relay.
package watcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const UserAgent = "rss-watcher/1.0 (+local)"

// FeedSource fetches the current state of a feed.
type FeedSource interface {
	Fetch(ctx context.Context) (*gofeed.Feed, error)
}

// Feed fetches and parses a remote RSS or Atom feed.
type Feed struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
}

func NewFeed(url string, timeout time.Duration) *Feed {
	return &Feed{
		url:    url,
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
	}
}

func (f *Feed) Fetch(ctx context.Context) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %v: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching feed %v: status %v", f.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed %v: %w", f.url, err)
	}

	feed, err := f.parser.ParseString(strings.TrimLeft(string(data), " \t\r\n"))
	if err != nil {
		return nil, fmt.Errorf("feed parse error: %w", err)
	}
	return feed, nil
}
