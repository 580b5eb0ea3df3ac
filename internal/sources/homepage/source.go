package homepage

import (
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/collection"
)

// Kind selects which Homepage file layout is read
type Kind string

const (
	KindBookmarks Kind = "bookmarks"
	KindServices  Kind = "services"
)

// ParseKind validates a kind name, empty means KindBookmarks
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindBookmarks:
		return KindBookmarks, nil
	case KindServices:
		return KindServices, nil
	}
	return "", fmt.Errorf("unknown homepage file kind %q (want %s or %s)", s, KindBookmarks, KindServices)
}

// Drafts loads path as kind and maps it with m
func Drafts(path string, kind Kind, m *Mapper) ([]collection.Draft, error) {
	loader := NewLoader(path)

	switch kind {
	case KindServices:
		cfg, err := loader.LoadServices()
		if err != nil {
			return nil, err
		}
		return m.MapServices(cfg)
	default:
		cfg, err := loader.LoadBookmarks()
		if err != nil {
			return nil, err
		}
		return m.MapBookmarks(cfg)
	}
}
