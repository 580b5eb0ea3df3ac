package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/metrics"
)

// SaveCommand is the only hotkey command that captures.
const SaveCommand = "save-bookmark"

// Inserter is the part of the collection a capture needs
type Inserter interface {
	Insert(ctx context.Context, url, title, manualTags string) (domain.Bookmark, error)
}

// Service creates bookmarks from the active tab
type Service struct {
	collection Inserter
	titles     TitleResolver
	log        logger.Logger
}

// NewService creates a capture service. titles may be nil.
func NewService(collection Inserter, titles TitleResolver, log logger.Logger) *Service {
	return &Service{collection: collection, titles: titles, log: log}
}

// Manual saves the active tab with optional comma-separated tags.
// It returns nil and no error when there is no active tab.
func (s *Service) Manual(ctx context.Context, src TabSource, tagsText string) (*domain.Bookmark, error) {
	return s.capture(ctx, "manual", src, tagsText)
}

// Hotkey saves the active tab with classifier tags when command is SaveCommand.
func (s *Service) Hotkey(ctx context.Context, src TabSource, command string) (*domain.Bookmark, error) {
	if command != SaveCommand {
		metrics.RecordCapture("hotkey", "unknown_command")
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, command)
	}
	return s.capture(ctx, "hotkey", src, "")
}

func (s *Service) capture(ctx context.Context, trigger string, src TabSource, tagsText string) (*domain.Bookmark, error) {
	tab, err := src.ActiveTab(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveTab) {
			s.log.Debug("no active tab, capture skipped", logger.String("trigger", trigger))
			metrics.RecordCapture(trigger, "skipped")
			return nil, nil
		}
		metrics.RecordCapture(trigger, "error")
		return nil, fmt.Errorf("failed to get active tab: %w", err)
	}

	if tab.Title == "" && s.titles != nil {
		tab.Title = s.titles.Resolve(ctx, tab.URL)
	}

	b, err := s.collection.Insert(ctx, tab.URL, tab.Title, tagsText)
	if err != nil {
		metrics.RecordCapture(trigger, "error")
		return nil, err
	}

	metrics.RecordCapture(trigger, "saved")
	return &b, nil
}
