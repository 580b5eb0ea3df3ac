package domain

import "strings"

// ParseTags turns user input such as "Go, Web , ,api" into ["go", "web", "api"].
// Entries are trimmed and lowercased, empty ones dropped. Order and duplicates
// are kept as typed.
func ParseTags(input string) []string {
	raw := strings.Split(input, ",")
	tags := make([]string, 0, len(raw))
	for _, part := range raw {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the inverse used to prefill an edit prompt.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
