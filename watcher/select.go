package watcher

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

var (
	idPattern   = regexp.MustCompile(`(?i)/status/(\d+)`)
	skipPattern = regexp.MustCompile(`(?i)^(RT\b|R to\s)`)
)

// Candidate is a feed item eligible for posting.
type Candidate struct {
	Title     string
	ID        uint64
	Published string
	Timestamp int64
}

// ExtractID returns the numeric status id embedded in link.
func ExtractID(link string) (uint64, bool) {
	m := idPattern.FindStringSubmatch(link)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Link is the canonical x.com url for a status.
func Link(account string, id uint64) string {
	return fmt.Sprintf("https://x.com/%v/status/%v", account, id)
}

// Candidates returns the feed's original posts, newest first. Reposts and
// replies, and items without a status id, are dropped.
func Candidates(feed *gofeed.Feed) []Candidate {
	if feed == nil {
		return nil
	}

	var items []Candidate
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if skipPattern.MatchString(title) {
			continue
		}
		id, ok := ExtractID(item.Link)
		if !ok {
			continue
		}
		items = append(items, Candidate{
			Title:     title,
			ID:        id,
			Published: item.Published,
			Timestamp: itemTimestamp(item),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Timestamp != items[j].Timestamp {
			return items[i].Timestamp > items[j].Timestamp
		}
		return items[i].ID > items[j].ID
	})
	return items
}

func itemTimestamp(item *gofeed.Item) int64 {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Unix()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Unix()
	default:
		return 0
	}
}

// PickNewest returns the first candidate newer than lastID. Without a last id
// any candidate qualifies.
func PickNewest(items []Candidate, lastID uint64, hasLast bool) (Candidate, bool) {
	for _, item := range items {
		if !hasLast || item.ID > lastID {
			return item, true
		}
	}
	return Candidate{}, false
}
