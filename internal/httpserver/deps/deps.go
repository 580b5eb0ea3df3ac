package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/marks/internal/capture"
	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time                // for testing, defaults to time.Now
	AllowedHosts     []string                        // Host headers allowed on mutating routes
	AllowedCIDRS     []string                        // IPs allowed to reach the API and probes
	AllowedOrigins   []string                        // CORS origins ("*" = any)
	TrustProxy       bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Collection       *collection.Manager             // The bookmark collection
	Capture          *capture.Service                // Manual and hotkey capture
	StoreBackend     string                          // "redis" | "file" | "memory"
	StorePing        func(ctx context.Context) error // nil when the backend has nothing to ping
	TagLimit         int                             // default size of /api/tags
	CaptureBurst     int                             // rate limit burst on capture routes
	CapturePerMinute int                             // rate limit refill per IP per minute on capture routes
	ReloadTrigger    chan struct{}                   // Channel to trigger a manual slot sync
	HomepageTrigger  chan struct{}                   // Channel to trigger a manual homepage import (nil if disabled)
}

// Now returns TimeNow() or time.Now()
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
