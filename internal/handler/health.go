package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/utils"
)

// Health answers liveness checks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]string{"status": "ok"})
}

// Ready reports 503 while the database is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		logger.FromContext(r.Context()).Warn("readiness check failed", "error", err)
		utils.WriteJSON(w, http.StatusServiceUnavailable, nil, "Database unavailable")
		return
	}
	writeOK(w, map[string]string{"status": "ok"})
}
