package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrNotFound is returned by lookups for a run id that isn't tracked.
var ErrNotFound = errors.New("resource not found")

// ErrNotCancellable is returned when cancelling a run that already
// finished.
var ErrNotCancellable = errors.New("run is not in a cancellable state")

// writeError maps a service-layer error to an HTTP status and JSON body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("unexpected API error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
