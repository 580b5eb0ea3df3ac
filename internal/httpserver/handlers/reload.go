package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type reloadResponse struct {
	Sync     bool `json:"sync"`
	Homepage bool `json:"homepage"`
}

// Reload triggers a slot re-read and, when configured, a homepage import
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp reloadResponse

		select {
		case d.ReloadTrigger <- struct{}{}:
			resp.Sync = true
			d.Logger.Info("manual slot sync triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
		default:
			d.Logger.Warn("slot sync already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}

		if d.HomepageTrigger != nil {
			select {
			case d.HomepageTrigger <- struct{}{}:
				resp.Homepage = true
				d.Logger.Info("manual homepage import triggered via endpoint",
					logger.String("remote_ip", r.RemoteAddr))
			default:
				d.Logger.Warn("homepage import already in progress",
					logger.String("remote_ip", r.RemoteAddr))
			}
		}

		if resp.Sync || resp.Homepage {
			writeJSON(w, http.StatusAccepted, resp)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, resp)
	}
}
