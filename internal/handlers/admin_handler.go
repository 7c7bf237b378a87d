package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/admin"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// AdminHandler handles the product creation form
type AdminHandler struct {
	service        *service.ProductService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *service.ProductService, maxUploadBytes int64, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// FormResponse describes an empty form
type FormResponse struct {
	Defaults   admin.Form        `json:"defaults"`
	Categories []models.Category `json:"categories"`
}

// GetForm handles GET /api/admin/form
func (h *AdminHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, FormResponse{
		Defaults:   admin.NewForm(),
		Categories: models.Categories,
	}, h.logger)
}

// CreateProduct handles POST /api/admin/products
// - 201: product created, Location points back to the catalog
// - 400: body could not be parsed
// - 422: field-level validation errors
// - 502: catalog service rejected or failed the request
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	form, parseErrs, err := admin.ParseRequest(r, h.maxUploadBytes)
	if err != nil {
		h.logger.Warn("failed to parse product form", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid form submission", h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), form, parseErrs)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Info("product form rejected", "fields", validationErr.Error())
			WriteValidationError(w, validationErr.Fields, h.logger)
			return
		}

		WriteError(w, http.StatusBadGateway, "Failed to create product", h.logger)
		return
	}

	w.Header().Set("Location", "/")
	WriteJSON(w, http.StatusCreated, product, h.logger)
}
