package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// productIDParam parses the {productId} URL parameter.
// IDs are positive integers assigned by the catalog service.
func productIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productId")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
