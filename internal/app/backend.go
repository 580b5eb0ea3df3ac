package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marks/internal/capture"
	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/redis"
	"github.com/MrSnakeDoc/marks/internal/store"
	"github.com/MrSnakeDoc/marks/internal/store/file"
	"github.com/MrSnakeDoc/marks/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/marks/internal/store/redis"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

// seenSuffix names the slot next to the collection that lists imported Homepage URLs
const seenSuffix = "homepage"

// Backend is the storage side shared by the server and the CLI:
// the configured slot, the collection over it and the capture pipeline.
type Backend struct {
	Name       string
	Slot       store.Slot
	Seen       store.Slot // URLs already taken from the Homepage file
	Collection *collection.Manager
	Capture    *capture.Service

	redisClient *goredis.Client
	redisStore  *redisstore.Store
	logger      logger.Logger
}

// LoadConfig reads the environment configuration, turning config panics into an error.
func LoadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return config.Load(), nil
}

// OpenBackend connects the slot selected by cfg.Store. The collection is not loaded yet.
// Redis is dialled for the redis store, and for the title cache when MARKS_REDIS_ADDR is set.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	b := &Backend{Name: cfg.Store, logger: log}

	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		switch {
		case err == nil:
			b.redisClient = client
			b.redisStore = redisstore.NewStore(client, cfg.SlotName)
		case cfg.Store == config.StoreRedis:
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		default:
			log.Warn("redis unavailable, title cache disabled", logger.Error(err))
		}
	}

	switch cfg.Store {
	case config.StoreRedis:
		if b.redisStore == nil {
			return nil, fmt.Errorf("redis store selected but MARKS_REDIS_ADDR is empty")
		}
		b.Slot = b.redisStore
		b.Seen = b.redisStore.Sibling(seenSuffix)
	case config.StoreFile:
		slot := file.NewSlot(cfg.StoreFile)
		b.Slot = slot
		b.Seen = slot.Sibling(seenSuffix)
	case config.StoreMemory:
		b.Slot = memory.NewSlot()
		b.Seen = memory.NewSlot()
	default:
		b.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	b.Collection = collection.NewManager(b.Slot, log)

	var titles capture.TitleResolver
	if cfg.TitleLookup {
		var cache capture.TitleCache
		if b.redisStore != nil {
			cache = b.redisStore
		}
		titles = capture.NewHTTPTitleResolver(cfg.TitleTimeout, cache, cfg.TitleCacheTTL, cfg.TitlePrivate, log)
	}
	b.Capture = capture.NewService(b.Collection, titles, log)

	log.Info("store ready",
		logger.String("backend", cfg.Store),
		logger.Bool("title_lookup", cfg.TitleLookup),
		logger.Bool("title_cache", b.redisStore != nil))
	return b, nil
}

// Ping checks the backend transport. Local backends have nothing to ping and return nil.
func (b *Backend) Ping(ctx context.Context) error {
	if b.Name != config.StoreRedis || b.redisStore == nil {
		return nil
	}
	return b.redisStore.Ping(ctx)
}

// PingFunc returns Ping for remote backends and nil for local ones
func (b *Backend) PingFunc() func(context.Context) error {
	if b.Name != config.StoreRedis {
		return nil
	}
	return b.Ping
}

// Close releases the redis connection, if any
func (b *Backend) Close() {
	if b.redisClient != nil {
		utils.CloseLogged(b.redisClient, "redis", b.logger)
		b.redisClient = nil
	}
}
