// Package post holds the relay's domain values: the decoded request body and
// the single most-recent post cache.
package post

import (
	"sync/atomic"
	"time"
)

// TimeLayout is the wire format of UpdatedAt, UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Post is a snapshot of the latest accepted post. Text and UpdatedAt are
// always written together.
type Post struct {
	Text      string
	UpdatedAt time.Time
}

func (p Post) Timestamp() string {
	return FormatTime(p.UpdatedAt)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Latest is the last-write-wins cache of the most recent post. The zero value
// is empty and ready to use.
type Latest struct {
	current atomic.Pointer[Post]
	now     func() time.Time
}

func NewLatest() *Latest {
	return &Latest{}
}

// Set replaces the cached post with text stamped at the current time and
// returns the stored snapshot.
func (l *Latest) Set(text string) Post {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	p := &Post{Text: text, UpdatedAt: now().UTC()}
	l.current.Store(p)
	return *p
}

// Get returns the cached post, or false when nothing has been stored yet.
func (l *Latest) Get() (Post, bool) {
	p := l.current.Load()
	if p == nil {
		return Post{}, false
	}
	return *p, true
}
