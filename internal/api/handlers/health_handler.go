package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *log.Logger
	now    func() time.Time
}

func NewHealthHandler(db Pinger, logger *log.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": h.now().Format(time.RFC3339Nano),
	})
}

// Ready reports whether the store answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("store not ready", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "UNAVAILABLE"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
