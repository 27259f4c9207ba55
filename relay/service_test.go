package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/SundaeSwap-finance/sundae-post-relay/discord"
	"github.com/SundaeSwap-finance/sundae-post-relay/post"
	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/tj/assert"
)

type senderFunc func(ctx context.Context, msg discord.Message) error

func (fn senderFunc) Send(ctx context.Context, msg discord.Message) error {
	return fn(ctx, msg)
}

func TestService(t *testing.T) {
	t.Run("latest is updated before forwarding", func(t *testing.T) {
		var (
			latest  = post.NewLatest()
			service *Service
			seen    string
		)
		service = New(latest, discord.ContentFormatter{}, senderFunc(func(ctx context.Context, msg discord.Message) error {
			p, ok := service.Latest()
			assert.True(t, ok)
			seen = p.Text
			return nil
		}), relaycli.Metrics{})

		p, err := service.Ingest(context.Background(), post.TextBody("first"))
		assert.NoError(t, err)
		assert.Equal(t, "first", p.Text)
		assert.Equal(t, "first", seen)
	})

	t.Run("whitespace is invalid and never forwarded", func(t *testing.T) {
		service := New(nil, nil, senderFunc(func(ctx context.Context, msg discord.Message) error {
			t.Fatal("unexpected send")
			return nil
		}), relaycli.Metrics{})

		_, err := service.Ingest(context.Background(), post.TextBody("  \n "))
		assert.True(t, errors.Is(err, ErrInvalidInput))

		_, ok := service.Latest()
		assert.False(t, ok)
	})

	t.Run("text is stored untrimmed", func(t *testing.T) {
		service := New(nil, nil, senderFunc(func(ctx context.Context, msg discord.Message) error {
			assert.Equal(t, "  padded  ", msg.Content)
			return nil
		}), relaycli.Metrics{})

		text := "  padded  "
		p, err := service.Ingest(context.Background(), post.ObjectBody(&text))
		assert.NoError(t, err)
		assert.Equal(t, "  padded  ", p.Text)
	})

	t.Run("rejection is surfaced with status and body", func(t *testing.T) {
		service := New(nil, nil, senderFunc(func(ctx context.Context, msg discord.Message) error {
			return &discord.RejectedError{Status: 404, Body: "Unknown Webhook"}
		}), relaycli.Metrics{})

		p, err := service.Ingest(context.Background(), post.TextBody("hello"))

		var rejected *DeliveryRejectedError
		assert.True(t, errors.As(err, &rejected))
		assert.Equal(t, 404, rejected.Status)
		assert.Equal(t, "Unknown Webhook", rejected.Body)
		assert.Equal(t, "hello", p.Text)

		latest, ok := service.Latest()
		assert.True(t, ok)
		assert.Equal(t, p, latest)
	})

	t.Run("transport failures keep the cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		service := New(nil, nil, senderFunc(func(ctx context.Context, msg discord.Message) error {
			return &discord.TransportError{Err: cause}
		}), relaycli.Metrics{})

		_, err := service.Ingest(context.Background(), post.TextBody("hello"))

		var failed *DeliveryError
		assert.True(t, errors.As(err, &failed))
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "dial tcp: connection refused", failed.Detail())
	})

	t.Run("missing webhook url is a delivery error", func(t *testing.T) {
		service := New(nil, nil, discord.New("", 0), relaycli.Metrics{})

		_, err := service.Ingest(context.Background(), post.TextBody("hello"))
		assert.True(t, errors.Is(err, discord.ErrMissingURL))
	})
}
