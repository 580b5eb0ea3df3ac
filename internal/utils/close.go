package utils

import (
	"io"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Close closes c and ignores any error.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and logs a failure under name.
// Used on shutdown paths where there is nobody left to return the error to.
func CloseLogged(c io.Closer, name string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
	}
}
