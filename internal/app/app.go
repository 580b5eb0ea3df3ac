package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/httpserver"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/scheduler"
	"github.com/MrSnakeDoc/marks/internal/sources/homepage"
	"github.com/MrSnakeDoc/marks/internal/version"
)

// App runs the HTTP API and the background jobs over one Backend
type App struct {
	cfg      *config.Config
	logger   logger.Logger
	backend  *Backend
	server   *httpserver.Server
	syncer   *scheduler.SlotSyncer
	importer *scheduler.HomepageImporter // nil when no homepage file is configured
	backups  *scheduler.BackupWriter     // nil when MARKS_BACKUP_DIR is empty
}

// New wires the server and the scheduler jobs. Redis is dialled here: fail fast if unavailable.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	reloadTrigger := make(chan struct{}, 1)
	syncer := scheduler.NewSlotSyncer(backend.Collection, loggerClient.With(logger.String("job", "slot_sync")), cfg.SyncInterval, reloadTrigger)

	var importer *scheduler.HomepageImporter
	var homepageTrigger chan struct{}
	if cfg.HomepageBookmarkFile != "" {
		kind, err := homepage.ParseKind(cfg.HomepageKind)
		if err != nil {
			backend.Close()
			return nil, err
		}
		loggerClient.Info("homepage file configured, initializing importer",
			logger.String("file", cfg.HomepageBookmarkFile),
			logger.String("kind", string(kind)))
		homepageTrigger = make(chan struct{}, 1)
		importer = scheduler.NewHomepageImporter(
			cfg.HomepageBookmarkFile,
			kind,
			backend.Collection,
			backend.Seen,
			loggerClient.With(logger.String("job", "homepage_import")),
			cfg.SyncInterval,
			homepageTrigger,
		)
	}

	var backups *scheduler.BackupWriter
	if cfg.BackupDir != "" {
		backups = scheduler.NewBackupWriter(
			backend.Collection,
			cfg.BackupDir,
			loggerClient.With(logger.String("job", "backup")),
			cfg.BackupInterval,
			cfg.BackupRetention,
		)
	} else {
		loggerClient.Info("backup dir not configured, backups disabled")
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		AllowedOrigins:   cfg.AllowedOrigins,
		TrustProxy:       cfg.TrustProxy,
		Collection:       backend.Collection,
		Capture:          backend.Capture,
		StoreBackend:     backend.Name,
		StorePing:        backend.PingFunc(),
		TagLimit:         cfg.TagLimit,
		CaptureBurst:     cfg.CaptureBurst,
		CapturePerMinute: cfg.CapturePerMinute,
		ReloadTrigger:    reloadTrigger,
		HomepageTrigger:  homepageTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		backend:  backend,
		server:   httpserver.New(cfg, d),
		syncer:   syncer,
		importer: importer,
		backups:  backups,
	}, nil
}

// Run starts the jobs and the server, then blocks until SIGINT/SIGTERM or a server error.
func (a *App) Run(parent context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s (store=%s)", version.String(), a.cfg.ListenPort, a.backend.Name)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.backend.Close()

	if err := a.syncer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start slot syncer: %w", err)
	}
	a.logger.Info("slot syncer started",
		logger.Duration("interval", a.cfg.SyncInterval))

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start homepage importer: %w", err)
		}
		a.logger.Info("homepage importer started",
			logger.Duration("interval", a.cfg.SyncInterval))
	}

	if a.backups != nil {
		if err := a.backups.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup writer: %w", err)
		}
		a.logger.Info("backup writer started",
			logger.String("dir", a.cfg.BackupDir),
			logger.Duration("interval", a.cfg.BackupInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.stopJobs()
		return err
	}

	a.stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ marks stopped cleanly")
	return nil
}

func (a *App) stopJobs() {
	a.syncer.Stop()
	if a.importer != nil {
		a.importer.Stop()
	}
	if a.backups != nil {
		a.backups.Stop()
	}
}
