package handlers

import (
	"net/http"

	"github.com/alfagnish/userbook/internal/users"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SystemHandler reports service health.
type SystemHandler struct {
	svc *users.Service
	log *zap.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(svc *users.Service, log *zap.Logger) *SystemHandler {
	return &SystemHandler{svc: svc, log: log}
}

// Routes registers system routes on the given chi router.
func (h *SystemHandler) Routes(r chi.Router) {
	r.Get("/healthz", h.Health)
}

// Health loads the store and reports whether it is usable.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetAllUsers(r.Context())
	if err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"users":  len(list),
	})
}
