package watcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"github.com/tj/assert"
)

const rss = `

<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>YUY_IX</title>
    <item>
      <title>RT @other: not ours</title>
      <link>http://localhost:8080/other/status/300#m</link>
      <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>fresh post</title>
      <link>http://localhost:8080/YUY_IX/status/200#m</link>
      <pubDate>Mon, 01 Jan 2024 11:00:00 GMT</pubDate>
    </item>
    <item>
      <title>old post</title>
      <link>http://localhost:8080/YUY_IX/status/100#m</link>
      <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

type staticFeed struct {
	feed *gofeed.Feed
	err  error
}

func (s staticFeed) Fetch(context.Context) (*gofeed.Feed, error) {
	return s.feed, s.err
}

type memoryCursor struct {
	id  uint64
	ok  bool
	err error
}

func (m *memoryCursor) Load(context.Context) (uint64, bool, error) {
	return m.id, m.ok, m.err
}

func (m *memoryCursor) Save(_ context.Context, id uint64) error {
	m.id, m.ok = id, true
	return nil
}

// failingSaveCursor rejects the first n saves.
type failingSaveCursor struct {
	memoryCursor
	failures int
}

func (f *failingSaveCursor) Save(ctx context.Context, id uint64) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("throttled")
	}
	return f.memoryCursor.Save(ctx, id)
}

type recordingPublisher struct {
	posts []string
	err   error
}

func (r *recordingPublisher) Post(_ context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.posts = append(r.posts, text)
	return nil
}

func feedOf(ids ...string) *gofeed.Feed {
	feed := &gofeed.Feed{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		published := base.Add(time.Duration(i) * time.Hour)
		feed.Items = append(feed.Items, &gofeed.Item{
			Title:           "post " + id,
			Link:            "http://localhost:8080/YUY_IX/status/" + id,
			PublishedParsed: &published,
		})
	}
	return feed
}

func newRunner(feed FeedSource, cursor Cursor, publisher Publisher, postOnFirstRun bool) *Runner {
	return NewRunner(Config{
		Feed:           feed,
		Cursor:         cursor,
		Publisher:      publisher,
		Account:        "YUY_IX",
		PostOnFirstRun: postOnFirstRun,
		Logger:         zerolog.Nop(),
		Metrics:        relaycli.Metrics{},
	})
}

func TestFeed(t *testing.T) {
	t.Run("parses a feed with leading whitespace", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, UserAgent, req.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/rss+xml")
			io.WriteString(w, rss)
		}))
		defer server.Close()

		feed, err := NewFeed(server.URL, 5*time.Second).Fetch(context.Background())
		assert.NoError(t, err)
		assert.Len(t, feed.Items, 3)

		c, ok := PickNewest(Candidates(feed), 100, true)
		assert.True(t, ok)
		assert.EqualValues(t, 200, c.ID)
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewFeed(server.URL, 5*time.Second).Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("unparseable body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			io.WriteString(w, "this is not a feed")
		}))
		defer server.Close()

		_, err := NewFeed(server.URL, 5*time.Second).Fetch(context.Background())
		assert.Error(t, err)
	})
}

func TestPoster(t *testing.T) {
	t.Run("posts plain text", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
			data, _ := io.ReadAll(req.Body)
			got = string(data)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		err := NewPoster(server.URL, 5*time.Second).Post(context.Background(), "https://x.com/YUY_IX/status/1")
		assert.NoError(t, err)
		assert.Equal(t, "https://x.com/YUY_IX/status/1", got)
	})

	t.Run("relay failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, `{"error":"discord webhook failed"}`)
		}))
		defer server.Close()

		err := NewPoster(server.URL, 5*time.Second).Post(context.Background(), "x")
		assert.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "discord webhook failed"))
	})
}

func TestFileCursor(t *testing.T) {
	cursor := FileCursor{Path: filepath.Join(t.TempDir(), "last_seen_id.txt")}

	_, ok, err := cursor.Load(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, cursor.Save(context.Background(), 1234567890123))

	id, ok, err := cursor.Load(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1234567890123, id)
}

func TestRunner(t *testing.T) {
	t.Run("first run primes without posting", func(t *testing.T) {
		var (
			cursor    = &memoryCursor{}
			publisher = &recordingPublisher{}
			runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, false)
		)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.EqualValues(t, 20, cursor.id)
		assert.Empty(t, publisher.posts)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.Empty(t, publisher.posts)
	})

	t.Run("first run posts when asked", func(t *testing.T) {
		var (
			cursor    = &memoryCursor{}
			publisher = &recordingPublisher{}
			runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, true)
		)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.EqualValues(t, 20, cursor.id)
		assert.Equal(t, []string{"https://x.com/YUY_IX/status/20"}, publisher.posts)
	})

	t.Run("new post is relayed and the cursor advances", func(t *testing.T) {
		var (
			cursor    = &memoryCursor{id: 10, ok: true}
			publisher = &recordingPublisher{}
			runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, false)
		)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.Equal(t, []string{"https://x.com/YUY_IX/status/20"}, publisher.posts)
		assert.EqualValues(t, 20, cursor.id)
	})

	t.Run("failed post leaves the cursor alone", func(t *testing.T) {
		var (
			cursor    = &memoryCursor{id: 10, ok: true}
			publisher = &recordingPublisher{err: errors.New("connection refused")}
			runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, false)
		)

		assert.Error(t, runner.Poll(context.Background()))
		assert.EqualValues(t, 10, cursor.id)
	})

	t.Run("failed prime is retried before anything is posted", func(t *testing.T) {
		var (
			cursor    = &failingSaveCursor{failures: 1}
			publisher = &recordingPublisher{}
			runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, false)
		)

		assert.Error(t, runner.Poll(context.Background()))
		assert.False(t, cursor.ok)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.True(t, cursor.ok)
		assert.EqualValues(t, 20, cursor.id)
		assert.Empty(t, publisher.posts)
	})

	t.Run("nothing to prime, later items are posted", func(t *testing.T) {
		var (
			cursor    = &memoryCursor{}
			publisher = &recordingPublisher{}
			feed      = &staticFeed{feed: feedOf()}
			runner    = newRunner(feed, cursor, publisher, false)
		)

		assert.NoError(t, runner.Poll(context.Background()))
		assert.False(t, cursor.ok)

		feed.feed = feedOf("30")
		assert.NoError(t, runner.Poll(context.Background()))
		assert.Equal(t, []string{"https://x.com/YUY_IX/status/30"}, publisher.posts)
		assert.EqualValues(t, 30, cursor.id)
	})

	t.Run("fetch errors are returned", func(t *testing.T) {
		runner := newRunner(staticFeed{err: errors.New("boom")}, &memoryCursor{}, &recordingPublisher{}, false)
		assert.Error(t, runner.Poll(context.Background()))
	})
}

func TestHandlerRun(t *testing.T) {
	var (
		cursor    = &memoryCursor{id: 10, ok: true}
		publisher = &recordingPublisher{}
		runner    = newRunner(staticFeed{feed: feedOf("10", "20")}, cursor, publisher, false)
		handler   = NewHandler(relaycli.Service{Name: "rss-watcher"}, zerolog.Nop(), runner, relaycli.Metrics{}, time.Hour)
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, handler.Run(ctx))
	assert.Equal(t, []string{"https://x.com/YUY_IX/status/20"}, publisher.posts)
}
