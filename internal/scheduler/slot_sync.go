package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Loader reloads state from storage
type Loader interface {
	Load(ctx context.Context) error
	Len() int
}

// SlotSyncer keeps the in-memory collection in step with the storage slot
type SlotSyncer struct {
	collection    Loader
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSlotSyncer creates a syncer. interval <= 0 disables the periodic reload;
// manualTrigger may be nil.
func NewSlotSyncer(
	collection Loader,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SlotSyncer {
	return &SlotSyncer{
		collection:    collection,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the collection once, then keeps reloading in the background
func (s *SlotSyncer) Start(ctx context.Context) error {
	// Load immediately on start
	if err := s.Sync(ctx); err != nil {
		return fmt.Errorf("initial collection load failed: %w", err)
	}

	go func() {
		// nil channel never fires when the periodic reload is disabled
		var tick <-chan time.Time
		if s.interval > 0 {
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				if err := s.Sync(ctx); err != nil {
					s.logger.Error("failed to sync collection", logger.Error(err))
				}
			case <-s.manualTrigger:
				s.logger.Info("manual collection sync triggered")
				if err := s.Sync(ctx); err != nil {
					s.logger.Error("failed to sync collection", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the syncer
func (s *SlotSyncer) Stop() {
	close(s.stopCh)
}

// Sync reloads the collection from the slot
func (s *SlotSyncer) Sync(ctx context.Context) error {
	if err := s.collection.Load(ctx); err != nil {
		return err
	}
	s.logger.Debug("collection synced from slot", logger.Int("count", s.collection.Len()))
	return nil
}
