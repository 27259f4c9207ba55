// Package discord sends formatted messages to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrMissingURL = errors.New("discord webhook url is not configured")

// RejectedError is returned when the webhook answers with a non-2xx status.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("discord webhook returned status %v: %v", e.Status, e.Body)
}

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("discord webhook request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Webhook posts messages to a single webhook url.
type Webhook struct {
	url    string
	client *http.Client
}

// New creates a Webhook. A zero timeout leaves the request bounded only by
// the caller's context.
func New(url string, timeout time.Duration) *Webhook {
	return NewWithClient(url, &http.Client{Timeout: timeout})
}

func NewWithClient(url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{
		url:    url,
		client: client,
	}
}

// Send makes exactly one delivery attempt.
func (w *Webhook) Send(ctx context.Context, msg Message) error {
	if w.url == "" {
		return ErrMissingURL
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}
	return &RejectedError{Status: resp.StatusCode, Body: string(body)}
}
