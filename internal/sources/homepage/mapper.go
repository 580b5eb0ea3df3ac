package homepage

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/classifier"
	"github.com/MrSnakeDoc/marks/internal/collection"
)

var categorySeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Mapper converts Homepage entries into collection drafts
type Mapper struct {
	classify classifier.Func
}

// NewMapper creates a mapper. A nil classify uses classifier.Classify.
func NewMapper(classify classifier.Func) *Mapper {
	if classify == nil {
		classify = classifier.Classify
	}
	return &Mapper{classify: classify}
}

// MapBookmarks converts bookmarks.yaml content.
// Title is the abbr when present, otherwise the bookmark name.
func (m *Mapper) MapBookmarks(config BookmarksConfig) ([]collection.Draft, error) {
	drafts := make([]collection.Draft, 0)

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entries) == 0 || entries[0].Href == "" {
						continue
					}
					entry := entries[0]

					title := entry.Abbr
					if title == "" {
						title = bookmarkName
					}

					drafts = append(drafts, m.draft(entry.Href, title, categoryName))
				}
			}
		}
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in homepage config")
	}
	return drafts, nil
}

// MapServices converts services.yaml content.
// Services need an absolute href; the service name becomes the title.
func (m *Mapper) MapServices(config ServicesConfig) ([]collection.Draft, error) {
	drafts := make([]collection.Draft, 0)

	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					props := serviceMap[serviceName]
					if props.Href == "" {
						continue
					}

					parsed, err := url.Parse(props.Href)
					if err != nil || parsed.Hostname() == "" {
						continue
					}

					drafts = append(drafts, m.draft(props.Href, serviceName, groupName))
				}
			}
		}
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}
	return drafts, nil
}

// draft tags an entry with its category first, then classifier tags, capped at classifier.MaxTags.
func (m *Mapper) draft(href, title, category string) collection.Draft {
	tags := make([]string, 0, classifier.MaxTags)
	seen := make(map[string]bool, classifier.MaxTags)

	if tag := CategoryTag(category); tag != "" {
		tags = append(tags, tag)
		seen[tag] = true
	}
	for _, tag := range m.classify(href, title) {
		if len(tags) == classifier.MaxTags {
			break
		}
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}

	return collection.Draft{URL: href, Title: title, Tags: tags}
}

// CategoryTag turns a Homepage group name into a tag: "Dev Tools" -> "dev-tools"
func CategoryTag(name string) string {
	tag := categorySeparators.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(tag, "-")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
