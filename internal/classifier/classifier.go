// Package classifier derives tags for a bookmark from its URL and title
// using fixed lookup tables.
package classifier

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

const (
	// MaxTags caps the number of tags a single classification returns.
	MaxTags = 5

	// Path segments are kept when 2 < len(cleaned) < 20.
	minSegmentLen = 2
	maxSegmentLen = 20

	// Title words are kept when 3 < len(word) < 15.
	minTitleWordLen = 3
	maxTitleWordLen = 15
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Func is the signature collaborators depend on.
type Func func(rawURL, title string) []string

// Classify returns up to MaxTags lowercase tags for a bookmark.
//
// Domain tags come first, then path words, then title words, in the order
// they were first seen. A URL that does not parse only disables the URL
// steps; Classify never fails and returns an empty slice when nothing matches.
func Classify(rawURL, title string) []string {
	tags := newOrderedSet()

	if u, err := parseURL(rawURL); err == nil {
		host := normalizeHost(u.Hostname())
		tags.add(DomainTags(host)...)
		tags.add(pathWords(u.EscapedPath())...)
	}

	tags.add(titleWords(title)...)

	return tags.first(MaxTags)
}

// parseURL accepts absolute URLs only, mirroring what a browser URL parser would.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedURL, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing scheme in %q", domain.ErrMalformedURL, rawURL)
	}
	return u, nil
}

// normalizeHost lowercases and strips one leading "www.".
// Example: "WWW.GitHub.com" -> "github.com"
func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// pathWords extracts vocabulary words from the URL path.
// Example: "/facebook/react" -> ["react"]
func pathWords(path string) []string {
	var words []string
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		cleaned := clean(segment)
		if len(cleaned) <= minSegmentLen || len(cleaned) >= maxSegmentLen {
			continue
		}
		for _, word := range strings.Split(cleaned, " ") {
			if IsVocabularyWord(word) {
				words = append(words, word)
			}
		}
	}
	return words
}

// titleWords extracts vocabulary words from the page title.
func titleWords(title string) []string {
	var words []string
	for _, word := range strings.Fields(clean(title)) {
		if len(word) <= minTitleWordLen || len(word) >= maxTitleWordLen {
			continue
		}
		if IsVocabularyWord(word) {
			words = append(words, word)
		}
	}
	return words
}

// clean lowercases s, collapses every non-alphanumeric run into one space and trims.
func clean(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(s), " "))
}
