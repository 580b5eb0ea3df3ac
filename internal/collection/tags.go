package collection

import (
	"sort"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// countTags builds the frequency index, capped at limit entries.
func countTags(records []domain.Bookmark, limit int) []domain.TagCount {
	index := make(map[string]int)
	counts := make([]domain.TagCount, 0)

	for i := range records {
		for _, tag := range records[i].Tags {
			pos, ok := index[tag]
			if !ok {
				pos = len(counts)
				index[tag] = pos
				counts = append(counts, domain.TagCount{Tag: tag})
			}
			counts[pos].Count++
		}
	}

	// stable keeps first-encountered order among equal counts
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
