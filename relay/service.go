// Package relay accepts posts, caches the latest one and forwards each to a
// Discord webhook.
package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SundaeSwap-finance/sundae-post-relay/discord"
	"github.com/SundaeSwap-finance/sundae-post-relay/post"
	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/rs/zerolog"
)

// Sender delivers one outbound message.
type Sender interface {
	Send(ctx context.Context, msg discord.Message) error
}

type Service struct {
	latest    *post.Latest
	formatter discord.Formatter
	sender    Sender
	metrics   relaycli.Metrics
}

func New(latest *post.Latest, formatter discord.Formatter, sender Sender, metrics relaycli.Metrics) *Service {
	if latest == nil {
		latest = post.NewLatest()
	}
	if formatter == nil {
		formatter = discord.ContentFormatter{}
	}
	return &Service{
		latest:    latest,
		formatter: formatter,
		sender:    sender,
		metrics:   metrics,
	}
}

// Ingest validates body, stores it as the latest post and forwards it once.
// The latest post stays updated when delivery fails.
func (s *Service) Ingest(ctx context.Context, body post.Body) (post.Post, error) {
	text := body.Normalize()
	if strings.TrimSpace(text) == "" {
		s.metrics.Event(ctx, relaycli.PostRejectedMetric)
		return post.Post{}, ErrInvalidInput
	}

	p := s.latest.Set(text)

	logger := zerolog.Ctx(ctx).With().
		Str("kind", body.Kind.String()).
		Int("length", len(text)).
		Str("updated_at", p.Timestamp()).
		Logger()

	start := time.Now()
	err := s.sender.Send(ctx, s.formatter.Format(text))
	s.metrics.Timing(ctx, relaycli.WebhookLatencyMetric, start)

	if err != nil {
		var rejected *discord.RejectedError
		if errors.As(err, &rejected) {
			logger.Warn().Int("status", rejected.Status).Msg("webhook rejected post")
			s.metrics.Event(ctx, relaycli.DeliveryFailedMetric, map[relaycli.DimensionName]string{relaycli.ReasonDimension: "rejected"})
			return p, &DeliveryRejectedError{Status: rejected.Status, Body: rejected.Body}
		}

		cause := err
		var transport *discord.TransportError
		if errors.As(err, &transport) {
			cause = transport.Err
		}
		logger.Error().Err(cause).Msg("webhook delivery failed")
		s.metrics.Event(ctx, relaycli.DeliveryFailedMetric, map[relaycli.DimensionName]string{relaycli.ReasonDimension: "transport"})
		return p, &DeliveryError{Err: cause}
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("relayed post")
	s.metrics.Event(ctx, relaycli.PostIngestedMetric)
	return p, nil
}

// Latest returns the most recently ingested post, if any.
func (s *Service) Latest() (post.Post, bool) {
	return s.latest.Get()
}
