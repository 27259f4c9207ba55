package watcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Publisher hands a status link to the relay.
type Publisher interface {
	Post(ctx context.Context, text string) error
}

// Poster posts plain text to the relay's ingest endpoint.
type Poster struct {
	url    string
	client *http.Client
}

func NewPoster(url string, timeout time.Duration) *Poster {
	return &Poster{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Poster) Post(ctx context.Context, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay %v: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("relay %v returned status %v: %v", p.url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
