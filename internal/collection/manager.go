// Package collection owns the ordered bookmark list and keeps it in sync
// with the storage slot.
package collection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/classifier"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/metrics"
	"github.com/MrSnakeDoc/marks/internal/store"
)

// DefaultTagLimit is the number of entries TagFrequencies returns when no limit is given.
const DefaultTagLimit = 15

// Manager holds the collection newest-first.
// Every mutation re-reads the slot, applies the change and writes it back
// before the in-memory list is replaced.
type Manager struct {
	mu       sync.Mutex
	slot     store.Slot
	classify classifier.Func
	now      func() time.Time
	log      logger.Logger

	records  []domain.Bookmark
	loadedAt time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClassifier replaces the tag classifier used when no manual tags are given
func WithClassifier(fn classifier.Func) Option {
	return func(m *Manager) {
		if fn != nil {
			m.classify = fn
		}
	}
}

// WithClock replaces the wall clock used for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager on top of slot. Call Load before serving reads.
func NewManager(slot store.Slot, log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		slot:     slot,
		classify: classifier.Classify,
		now:      time.Now,
		log:      log,
		records:  []domain.Bookmark{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory list with the slot content.
// A missing or unreadable value yields an empty collection. Transport errors are returned.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.readSlot(ctx)
	metrics.RecordOperation("load", err)
	if err != nil {
		return err
	}

	m.records = records
	m.loadedAt = m.now()
	metrics.SetStored(len(records))
	m.log.Debug("collection loaded", logger.Int("count", len(records)))
	return nil
}

// LoadedAt returns when the collection was last loaded from the slot
func (m *Manager) LoadedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadedAt
}

// Insert creates a record for url/title and prepends it.
// Manual tags win over classifier tags when the parsed list is not empty.
func (m *Manager) Insert(ctx context.Context, url, title, manualTags string) (domain.Bookmark, error) {
	var created domain.Bookmark

	err := m.mutate(ctx, "insert", func(current []domain.Bookmark) ([]domain.Bookmark, error) {
		tags := domain.ParseTags(manualTags)
		if len(tags) == 0 {
			tags = m.classify(url, title)
		}

		now := m.now()
		created = domain.Bookmark{
			ID:        nextID(current, now, 1),
			Title:     title,
			URL:       url,
			Tags:      tags,
			Timestamp: domain.FormatTimestamp(now),
		}

		next := make([]domain.Bookmark, 0, len(current)+1)
		next = append(next, created)
		return append(next, current...), nil
	})
	if err != nil {
		return domain.Bookmark{}, err
	}

	m.log.Info("bookmark saved",
		logger.Int64("id", created.ID),
		logger.String("url", created.URL),
		logger.Strings("tags", created.Tags),
	)
	return created.Clone(), nil
}

// Draft is a record waiting for an id and a timestamp
type Draft struct {
	URL   string
	Title string
	Tags  []string
}

// InsertBatch prepends drafts as one block, first draft newest.
// Drafts whose URL is already in the collection are skipped; the number added is returned.
func (m *Manager) InsertBatch(ctx context.Context, drafts []Draft) (int, error) {
	added := 0
	err := m.mutate(ctx, "insert_batch", func(current []domain.Bookmark) ([]domain.Bookmark, error) {
		known := make(map[string]bool, len(current)+len(drafts))
		for _, b := range current {
			known[b.URL] = true
		}

		fresh := make([]Draft, 0, len(drafts))
		for _, d := range drafts {
			if d.URL == "" || known[d.URL] {
				continue
			}
			known[d.URL] = true
			fresh = append(fresh, d)
		}
		added = len(fresh)
		if added == 0 {
			return current, nil
		}

		now := m.now()
		base := nextID(current, now, len(fresh))
		ts := domain.FormatTimestamp(now)

		next := make([]domain.Bookmark, 0, len(fresh)+len(current))
		for i, d := range fresh {
			tags := d.Tags
			if tags == nil {
				tags = []string{}
			}
			next = append(next, domain.Bookmark{
				ID:        base + int64(len(fresh)-1-i),
				Title:     d.Title,
				URL:       d.URL,
				Tags:      append([]string(nil), tags...),
				Timestamp: ts,
			})
		}
		return append(next, current...), nil
	})
	if err != nil {
		return 0, err
	}

	if added > 0 {
		m.log.Info("bookmarks added in batch", logger.Int("count", added))
	}
	return added, nil
}

// DeleteByID removes every record with id. Absent ids are a no-op.
func (m *Manager) DeleteByID(ctx context.Context, id int64) error {
	removed := 0
	err := m.mutate(ctx, "delete", func(current []domain.Bookmark) ([]domain.Bookmark, error) {
		next := make([]domain.Bookmark, 0, len(current))
		for _, b := range current {
			if b.ID == id {
				removed++
				continue
			}
			next = append(next, b)
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		m.log.Info("bookmark deleted", logger.Int64("id", id))
	}
	return nil
}

// EditTags replaces the tags of the record with id by the parsed text.
// It reports whether a record was found; absent ids are a no-op.
func (m *Manager) EditTags(ctx context.Context, id int64, text string) (domain.Bookmark, bool, error) {
	var (
		edited domain.Bookmark
		found  bool
	)

	err := m.mutate(ctx, "edit_tags", func(current []domain.Bookmark) ([]domain.Bookmark, error) {
		next := cloneAll(current)
		for i := range next {
			if next[i].ID == id {
				next[i].Tags = domain.ParseTags(text)
				edited = next[i]
				found = true
				break
			}
		}
		return next, nil
	})
	if err != nil {
		return domain.Bookmark{}, false, err
	}

	if found {
		m.log.Info("bookmark tags edited", logger.Int64("id", id), logger.Strings("tags", edited.Tags))
	}
	return edited.Clone(), found, nil
}

// ImportMerge prepends the records in payload, in their given order.
// payload must be a JSON array of objects, otherwise domain.ErrInvalidImportFormat
// is returned and nothing changes.
func (m *Manager) ImportMerge(ctx context.Context, payload []byte) (int, error) {
	imported, err := store.DecodeRecords(payload)
	if err != nil {
		metrics.RecordOperation("import", err)
		return 0, err
	}
	if err := m.MergeRecords(ctx, imported); err != nil {
		return 0, err
	}
	return len(imported), nil
}

// MergeRecords prepends already decoded records, in their given order.
func (m *Manager) MergeRecords(ctx context.Context, imported []domain.Bookmark) error {
	err := m.mutate(ctx, "import", func(current []domain.Bookmark) ([]domain.Bookmark, error) {
		next := make([]domain.Bookmark, 0, len(imported)+len(current))
		for _, b := range imported {
			b = b.Clone()
			if b.Tags == nil {
				b.Tags = []string{}
			}
			next = append(next, b)
		}
		return append(next, current...), nil
	})
	if err != nil {
		return err
	}

	metrics.RecordImported(len(imported))
	m.log.Info("bookmarks imported", logger.Int("count", len(imported)))
	return nil
}

// Search returns the records whose title, url or tags contain query, case-insensitively.
// An empty query returns everything.
func (m *Manager) Search(query string) []domain.Bookmark {
	m.mu.Lock()
	defer m.mu.Unlock()

	if query == "" {
		return cloneAll(m.records)
	}

	out := make([]domain.Bookmark, 0)
	for i := range m.records {
		if m.records[i].Matches(query) {
			out = append(out, m.records[i].Clone())
		}
	}
	return out
}

// FilterByTag returns the records carrying tag exactly.
// The filter value is trimmed and lowercased; an empty one returns everything.
func (m *Manager) FilterByTag(tag string) []domain.Bookmark {
	tag = strings.ToLower(strings.TrimSpace(tag))

	m.mu.Lock()
	defer m.mu.Unlock()

	if tag == "" {
		return cloneAll(m.records)
	}

	out := make([]domain.Bookmark, 0)
	for i := range m.records {
		if m.records[i].HasTag(tag) {
			out = append(out, m.records[i].Clone())
		}
	}
	return out
}

// TagFrequencies counts tag occurrences across the collection, most frequent first.
// Ties keep the order in which tags were first met. limit <= 0 means DefaultTagLimit.
func (m *Manager) TagFrequencies(limit int) []domain.TagCount {
	if limit <= 0 {
		limit = DefaultTagLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return countTags(m.records, limit)
}

// ExportAll returns the whole collection in stored order
func (m *Manager) ExportAll() []domain.Bookmark {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneAll(m.records)
}

// ExportJSON renders the collection as an indented JSON array
func (m *Manager) ExportJSON() ([]byte, error) {
	return store.EncodeRecordsIndent(m.ExportAll())
}

// ExportFilename is the download name of an export taken at now
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("bookmarks-%d.json", now.UnixMilli())
}

// Get returns the first record with id
func (m *Manager) Get(id int64) (domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			return m.records[i].Clone(), nil
		}
	}
	return domain.Bookmark{}, fmt.Errorf("bookmark %d: %w", id, domain.ErrRecordNotFound)
}

// Len returns the collection size
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

// mutate runs fn against the freshly read slot content and persists the result.
// The in-memory list only changes after a successful write.
func (m *Manager) mutate(ctx context.Context, op string, fn func([]domain.Bookmark) ([]domain.Bookmark, error)) (err error) {
	defer func() { metrics.RecordOperation(op, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.readSlot(ctx)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	data, err := store.EncodeRecords(next)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := m.slot.Write(ctx, data); err != nil {
		m.log.Error("failed to persist collection", logger.String("op", op), logger.Error(err))
		return fmt.Errorf("failed to persist collection: %w", err)
	}
	metrics.RecordPersist(time.Since(start).Seconds())

	m.records = next
	metrics.SetStored(len(next))
	return nil
}

// readSlot decodes the slot. Missing or malformed content is an empty collection.
func (m *Manager) readSlot(ctx context.Context) ([]domain.Bookmark, error) {
	data, err := m.slot.Read(ctx)
	if err != nil {
		if errors.Is(err, store.ErrSlotEmpty) {
			return []domain.Bookmark{}, nil
		}
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	records, err := store.DecodeRecords(data)
	if err != nil {
		m.log.Warn("stored collection is unreadable, starting empty", logger.Error(err))
		return []domain.Bookmark{}, nil
	}
	return records, nil
}

// nextID returns the first of n consecutive unused ids. It is the capture time in
// milliseconds, bumped past the largest existing id. When that would overflow int64,
// the free block closest below the capture time is used instead.
func nextID(current []domain.Bookmark, now time.Time, n int) int64 {
	id := now.UnixMilli()
	top := int64(math.MinInt64)
	for _, b := range current {
		top = max(top, b.ID)
	}
	if top < id {
		return id
	}
	if top <= math.MaxInt64-int64(n) {
		return top + 1
	}

	used := make(map[int64]bool, len(current))
	for _, b := range current {
		used[b.ID] = true
	}
	for base := id; ; base-- {
		free := true
		for k := int64(0); k < int64(n); k++ {
			if used[base+k] {
				free = false
				break
			}
		}
		if free {
			return base
		}
	}
}

func cloneAll(records []domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
