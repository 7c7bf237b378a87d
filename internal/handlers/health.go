package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
)

// catalogStatus reports the catalog load lifecycle
type catalogStatus interface {
	Status() repository.CatalogStatus
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog catalogStatus
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog catalogStatus, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Catalog   repository.CatalogStatus `json:"catalog"`
}

// ServeHTTP handles health check requests.
// The service stays up when the catalog failed to load; it reports degraded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	catalog := h.catalog.Status()

	status := "healthy"
	if catalog.State == repository.LoadStateFailed {
		status = "degraded"
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Catalog:   catalog,
	}, h.logger)
}
