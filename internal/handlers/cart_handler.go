package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// CartHandler serves the catalog view of a session and its transitions
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// FilterRequest is the body of POST /api/catalog/filter
type FilterRequest struct {
	Category models.Filter `json:"category"`
}

// GetView handles GET /api/catalog
func (h *CartHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// SetFilter handles POST /api/catalog/filter
func (h *CartHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode filter request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	h.dispatch(w, r, cart.SetFilter{Filter: req.Category})
}

// Increase handles POST /api/catalog/products/{productId}/increase
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.dispatchForProduct(w, r, func(id int64) cart.Action { return cart.IncreaseQuantity{ID: id} })
}

// Decrease handles POST /api/catalog/products/{productId}/decrease
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.dispatchForProduct(w, r, func(id int64) cart.Action { return cart.DecreaseQuantity{ID: id} })
}

// Reset handles POST /api/catalog/products/{productId}/reset
func (h *CartHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.dispatchForProduct(w, r, func(id int64) cart.Action { return cart.ResetQuantity{ID: id} })
}

// Remove handles DELETE /api/catalog/cart/{productId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.dispatchForProduct(w, r, func(id int64) cart.Action { return cart.RemoveFromCart{ID: id} })
}

// AddToCart handles POST /api/catalog/products/{productId}/add
// Commits the pending quantity; 400 when nothing is pending.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	view, err := h.service.AddPending(r.Context(), middleware.SessionID(r.Context()), productID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

func (h *CartHandler) dispatchForProduct(w http.ResponseWriter, r *http.Request, build func(id int64) cart.Action) {
	productID, ok := productIDParam(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}
	h.dispatch(w, r, build(productID))
}

func (h *CartHandler) dispatch(w http.ResponseWriter, r *http.Request, action cart.Action) {
	view, err := h.service.Dispatch(r.Context(), middleware.SessionID(r.Context()), action)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

func (h *CartHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProduct):
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
	case errors.Is(err, service.ErrInvalidFilter):
		WriteError(w, http.StatusBadRequest, "Unknown category", h.logger)
	case errors.Is(err, service.ErrEmptyQuantity):
		WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.logger)
	default:
		h.logger.Error("cart operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
