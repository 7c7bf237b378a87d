package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products?category=
// Without a category (or with "All") every product is returned.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := models.Filter(r.URL.Query().Get("category"))

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			WriteError(w, http.StatusBadRequest, "Unknown category", h.logger)
			return
		}
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /api/products/{productId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}

		h.logger.Error("failed to get product", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// ReloadCatalog handles POST /api/products/reload
// Retries the catalog fetch; 502 when the remote service is still unavailable.
func (h *ProductHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Reload(r.Context())
	if err != nil {
		WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "Catalog service unavailable",
			"catalog": status,
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, status, h.logger)
}
