// Package capture turns the active tab into a saved bookmark.
package capture

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Tab is the page being captured
type Tab struct {
	URL   string
	Title string
}

// TabSource yields the active tab, or domain.ErrNoActiveTab when there is none.
type TabSource interface {
	ActiveTab(ctx context.Context) (Tab, error)
}

// StaticTab is a tab handed over by a caller (extension request, CLI flags).
// An empty URL means there is no active tab.
type StaticTab Tab

// ActiveTab implements TabSource
func (s StaticTab) ActiveTab(_ context.Context) (Tab, error) {
	if strings.TrimSpace(s.URL) == "" {
		return Tab{}, domain.ErrNoActiveTab
	}
	return Tab(s), nil
}
