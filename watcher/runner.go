package watcher

import (
	"context"
	"fmt"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/rs/zerolog"
)

// Runner performs one poll of the feed at a time. It is not safe for
// concurrent use.
type Runner struct {
	feed           FeedSource
	cursor         Cursor
	publisher      Publisher
	account        string
	postOnFirstRun bool
	logger         zerolog.Logger
	metrics        relaycli.Metrics

	primed bool
}

type Config struct {
	Feed           FeedSource
	Cursor         Cursor
	Publisher      Publisher
	Account        string
	PostOnFirstRun bool
	Logger         zerolog.Logger
	Metrics        relaycli.Metrics
}

func NewRunner(config Config) *Runner {
	return &Runner{
		feed:           config.Feed,
		cursor:         config.Cursor,
		publisher:      config.Publisher,
		account:        config.Account,
		postOnFirstRun: config.PostOnFirstRun,
		logger:         config.Logger,
		metrics:        config.Metrics,
	}
}

// Poll fetches the feed once and posts the newest unseen status, if any. On
// the very first run the cursor is primed with the newest status instead.
func (r *Runner) Poll(ctx context.Context) error {
	feed, err := r.feed.Fetch(ctx)
	if err != nil {
		return err
	}

	lastID, hasLast, err := r.cursor.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading cursor: %w", err)
	}

	candidate, found := PickNewest(Candidates(feed), lastID, hasLast)

	if !hasLast && !r.primed {
		if !found {
			r.primed = true
			r.logger.Info().Msg("no eligible entries to prime")
			return nil
		}
		if err := r.cursor.Save(ctx, candidate.ID); err != nil {
			return err
		}
		r.primed = true
		r.logger.Info().
			Uint64("id", candidate.ID).
			Bool("post_on_first_run", r.postOnFirstRun).
			Msg("primed cursor")
		if r.postOnFirstRun {
			return r.post(ctx, candidate)
		}
		return nil
	}

	if !found {
		r.logger.Debug().Uint64("last_id", lastID).Msg("no new eligible post")
		return nil
	}

	r.logger.Info().
		Uint64("id", candidate.ID).
		Uint64("last_id", lastID).
		Str("title", candidate.Title).
		Str("published", candidate.Published).
		Msg("new post detected")

	if err := r.post(ctx, candidate); err != nil {
		return err
	}
	return r.cursor.Save(ctx, candidate.ID)
}

func (r *Runner) post(ctx context.Context, candidate Candidate) error {
	link := Link(r.account, candidate.ID)
	if err := r.publisher.Post(ctx, link); err != nil {
		return fmt.Errorf("posting %v: %w", link, err)
	}
	r.metrics.Event(ctx, relaycli.FeedItemPostedMetric)
	r.logger.Info().Str("link", link).Msg("posted to relay")
	return nil
}
