package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreRedis  = "redis"
	StoreFile   = "file"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Collection storage
	Store     string // "redis" | "file" | "memory"
	StoreFile string // path of the JSON file when Store is "file"
	SlotName  string // name of the storage slot (default: bookmarks)

	SyncInterval    time.Duration // interval to reload the collection from the slot (default: 5m, 0 = disabled)
	BackupDir       string        // directory for periodic exports (optional, empty = backups disabled)
	BackupInterval  time.Duration // interval between exports (default: 24h)
	BackupRetention time.Duration // exports older than this are pruned (default: 720h)

	TagLimit      int           // default size of the tag-frequency index (default: 15)
	TitleLookup   bool          // fetch the page title when a capture has none
	TitleTimeout  time.Duration // timeout of a single title lookup (default: 5s)
	TitleCacheTTL time.Duration // how long fetched titles stay cached in redis (default: 24h)
	TitlePrivate  bool          // allow title lookups on loopback and private networks (default: false)

	HomepageBookmarkFile string // Homepage bookmarks.yaml imported at startup (optional)
	HomepageKind         string // "bookmarks" | "services" layout of HomepageBookmarkFile

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict mutating routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	AllowedOrigins []string // CORS origins, "*" allows any (browser extensions use chrome-extension://<id>)
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	CaptureBurst     int // rate limit burst on capture routes
	CapturePerMinute int // rate limit refill per IP per minute on capture routes
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARKS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MARKS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARKS_PRETTY_LOG", true),

		// Storage
		Store:     strings.ToLower(getenv("MARKS_STORE", StoreRedis)),
		StoreFile: getenv("MARKS_STORE_FILE", "/data/bookmarks.json"),
		SlotName:  getenv("MARKS_SLOT", "bookmarks"),

		SyncInterval:    mustDuration("MARKS_SYNC_INTERVAL", 5*time.Minute),
		BackupDir:       getenv("MARKS_BACKUP_DIR", ""), // Optional, empty = backups disabled
		BackupInterval:  mustDuration("MARKS_BACKUP_INTERVAL", 24*time.Hour),
		BackupRetention: mustDuration("MARKS_BACKUP_RETENTION", 30*24*time.Hour),

		TagLimit:      getenvInt("MARKS_TAG_LIMIT", 15),
		TitleLookup:   mustBool("MARKS_TITLE_LOOKUP", true),
		TitleTimeout:  mustDuration("MARKS_TITLE_TIMEOUT", 5*time.Second),
		TitleCacheTTL: mustDuration("MARKS_TITLE_CACHE_TTL", 24*time.Hour),
		TitlePrivate:  mustBool("MARKS_TITLE_ALLOW_PRIVATE", false),

		HomepageBookmarkFile: getenv("MARKS_HOMEPAGE_BOOKMARKS", ""),
		HomepageKind:         strings.ToLower(getenv("MARKS_HOMEPAGE_KIND", "bookmarks")),

		// Redis settings
		RedisUser:             getenv("MARKS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("MARKS_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("MARKS_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("MARKS_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("MARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("MARKS_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("MARKS_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("MARKS_TRUST_PROXY", false),

		CaptureBurst:     getenvInt("MARKS_CAPTURE_BURST", 10),
		CapturePerMinute: getenvInt("MARKS_CAPTURE_PER_MINUTE", 30),
	}

	switch cfg.Store {
	case StoreRedis:
		cfg.RedisAddr = requireEnv("MARKS_REDIS_ADDR")
	case StoreFile, StoreMemory:
		cfg.RedisAddr = getenv("MARKS_REDIS_ADDR", "") // optional, enables the title cache
	default:
		panic(fmt.Sprintf("❌ FATAL: MARKS_STORE must be one of %s, %s, %s (got %q)", StoreRedis, StoreFile, StoreMemory, cfg.Store))
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: MARKS_REDIS_PASSWORD is required when MARKS_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.TagLimit <= 0 {
		cfg.TagLimit = 15
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
