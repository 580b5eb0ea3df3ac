package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

const (
	// DefaultBackupRetention is the age after which backups are pruned
	DefaultBackupRetention = 30 * 24 * time.Hour // 30 days

	backupPrefix = "bookmarks-"
	backupSuffix = ".json"
)

// Exporter renders the collection as an export file
type Exporter interface {
	ExportJSON() ([]byte, error)
}

// BackupWriter periodically writes export files into a directory
// and prunes the ones older than the retention threshold.
type BackupWriter struct {
	collection Exporter
	dir        string
	logger     logger.Logger
	interval   time.Duration
	retention  time.Duration
	now        func() time.Time
	stopCh     chan struct{}
}

// NewBackupWriter creates a new backup writer
func NewBackupWriter(
	coll Exporter,
	dir string,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *BackupWriter {
	if retention <= 0 {
		retention = DefaultBackupRetention
	}

	return &BackupWriter{
		collection: coll,
		dir:        dir,
		logger:     log,
		interval:   interval,
		retention:  retention,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
}

// Start writes a backup immediately, then on every interval
func (bw *BackupWriter) Start(ctx context.Context) error {
	if err := bw.Run(); err != nil {
		bw.logger.Warn("initial backup failed", logger.Error(err))
	}

	if bw.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(bw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := bw.Run(); err != nil {
					bw.logger.Error("backup failed", logger.Error(err))
				}
			case <-bw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the backup writer
func (bw *BackupWriter) Stop() {
	close(bw.stopCh)
}

// Run writes one backup then prunes old ones
func (bw *BackupWriter) Run() error {
	path, err := bw.Write()
	if err != nil {
		return err
	}
	bw.logger.Info("backup written", logger.String("path", path))

	pruned, err := bw.Prune()
	if err != nil {
		return err
	}
	if pruned > 0 {
		bw.logger.Info("old backups pruned", logger.Int("count", pruned))
	} else {
		bw.logger.Debug("no backups to prune")
	}
	return nil
}

// Write exports the collection to dir/bookmarks-<unixms>.json
func (bw *BackupWriter) Write() (string, error) {
	data, err := bw.collection.ExportJSON()
	if err != nil {
		return "", fmt.Errorf("failed to export collection: %w", err)
	}

	if err := os.MkdirAll(bw.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	path := filepath.Join(bw.dir, collection.ExportFilename(bw.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// Prune removes backups whose embedded timestamp is older than the retention threshold.
// Files not named like a backup are ignored.
func (bw *BackupWriter) Prune() (int, error) {
	entries, err := os.ReadDir(bw.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list backups: %w", err)
	}

	cutoff := bw.now().Add(-bw.retention)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		taken, ok := backupTime(entry.Name())
		if !ok || !taken.Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(bw.dir, entry.Name())); err != nil {
			bw.logger.Warn("failed to remove backup",
				logger.String("file", entry.Name()),
				logger.Error(err))
			continue
		}

		bw.logger.Debug("pruned backup",
			logger.String("file", entry.Name()),
			logger.String("age", bw.now().Sub(taken).String()))
		deleted++
	}

	return deleted, nil
}

// backupTime parses the capture time out of bookmarks-<unixms>.json
func backupTime(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
