package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/sources/homepage"
	"github.com/MrSnakeDoc/marks/internal/store"
	"github.com/MrSnakeDoc/marks/internal/store/memory"
)

// BatchInserter adds drafts that are not in the collection yet
type BatchInserter interface {
	InsertBatch(ctx context.Context, drafts []collection.Draft) (int, error)
}

// HomepageImporter merges a Homepage bookmarks.yaml into the collection
// on start, on an interval and on manual trigger.
// Every URL read from the file is recorded in the seen slot. An entry is only
// imported the first time its URL shows up, so a deleted record stays deleted.
// Entries whose URL is already in the collection are skipped too.
type HomepageImporter struct {
	file          string
	kind          homepage.Kind
	mapper        *homepage.Mapper
	collection    BatchInserter
	seen          store.Slot
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewHomepageImporter creates a new importer.
// seen persists the imported URLs; nil keeps them in memory for the process lifetime.
func NewHomepageImporter(
	file string,
	kind homepage.Kind,
	coll BatchInserter,
	seen store.Slot,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HomepageImporter {
	if seen == nil {
		seen = memory.NewSlot()
	}
	return &HomepageImporter{
		file:          file,
		kind:          kind,
		mapper:        homepage.NewMapper(nil),
		collection:    coll,
		seen:          seen,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once, then keeps importing in the background
func (hi *HomepageImporter) Start(ctx context.Context) error {
	if _, err := hi.Import(ctx); err != nil {
		return fmt.Errorf("initial homepage import failed: %w", err)
	}

	go func() {
		var tick <-chan time.Time
		if hi.interval > 0 {
			ticker := time.NewTicker(hi.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				if _, err := hi.Import(ctx); err != nil {
					hi.logger.Error("failed to import homepage bookmarks", logger.Error(err))
				}
			case <-hi.manualTrigger:
				hi.logger.Info("manual homepage import triggered")
				if _, err := hi.Import(ctx); err != nil {
					hi.logger.Error("failed to import homepage bookmarks", logger.Error(err))
				}
			case <-hi.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the importer
func (hi *HomepageImporter) Stop() {
	close(hi.stopCh)
}

// Import loads the file and adds entries whose URL was never imported
func (hi *HomepageImporter) Import(ctx context.Context) (int, error) {
	hi.logger.Info("importing bookmarks from homepage", logger.String("file", hi.file))

	drafts, err := homepage.Drafts(hi.file, hi.kind, hi.mapper)
	if err != nil {
		return 0, fmt.Errorf("failed to load homepage file: %w", err)
	}

	added, err := hi.Merge(ctx, drafts)
	if err != nil {
		return 0, err
	}

	hi.logger.Info("homepage import done",
		logger.Int("entries", len(drafts)),
		logger.Int("added", added))
	return added, nil
}

// Merge inserts the drafts whose URL is not in the seen slot, then records every draft URL
func (hi *HomepageImporter) Merge(ctx context.Context, drafts []collection.Draft) (int, error) {
	seen, err := readSeen(ctx, hi.seen)
	if err != nil {
		return 0, err
	}

	fresh := make([]collection.Draft, 0, len(drafts))
	grown := false
	for _, d := range drafts {
		if d.URL == "" || seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		grown = true
		fresh = append(fresh, d)
	}
	if !grown {
		return 0, nil
	}

	added, err := hi.collection.InsertBatch(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("failed to merge homepage bookmarks: %w", err)
	}

	if err := writeSeen(ctx, hi.seen, seen); err != nil {
		return added, err
	}
	return added, nil
}

func readSeen(ctx context.Context, slot store.Slot) (map[string]bool, error) {
	seen := make(map[string]bool)

	data, err := slot.Read(ctx)
	if errors.Is(err, store.ErrSlotEmpty) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read imported urls: %w", err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("failed to decode imported urls: %w", err)
	}
	for _, u := range urls {
		seen[u] = true
	}
	return seen, nil
}

func writeSeen(ctx context.Context, slot store.Slot, seen map[string]bool) error {
	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("failed to encode imported urls: %w", err)
	}
	if err := slot.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to record imported urls: %w", err)
	}
	return nil
}
