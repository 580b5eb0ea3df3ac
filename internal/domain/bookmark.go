package domain

import (
	"strings"
	"time"
)

// TimestampLayout matches the ISO-8601 form produced by browsers (Date.toISOString).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Bookmark is one persisted record of the collection.
//
// The JSON shape is the durable format: it is what lives in the storage slot
// and what export/import files contain.
type Bookmark struct {
	// ID is derived from the capture time in milliseconds.
	// It is unique within a collection.
	ID int64 `json:"id"`

	// Title of the captured page, may be empty.
	Title string `json:"title"`

	// URL is stored verbatim, it is not required to parse.
	URL string `json:"url"`

	// Tags are lowercase. At most five when produced by the classifier,
	// any length after a manual edit.
	Tags []string `json:"tags"`

	// Timestamp is the capture time, ISO-8601 in UTC.
	Timestamp string `json:"timestamp"`
}

// FormatTimestamp renders t the way records store it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// HasTag reports whether tag is one of the record's tags (exact match).
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches reports whether the lowercased query is a substring of the title,
// the URL or any tag.
func (b *Bookmark) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared tag slices.
func (b Bookmark) Clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append([]string(nil), b.Tags...)
	}
	return b
}

// TagCount is one entry of the tag-frequency index.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
