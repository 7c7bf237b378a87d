package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Burger","price":5,"category":"Fast-Food","image":"b.png"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/products/", time.Second)
	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.Product{ID: 1, Name: "Burger", Price: 5, Category: models.CategoryFastFood, Image: "b.png"}, products[0])
}

func TestClient_ListProducts_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, time.Second).ListProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_ListProducts_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListProducts(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestClient_ListProducts_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListProducts(context.Background())
	assert.Error(t, err)
}

func TestClient_CreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Cake", body["name"])
		assert.Equal(t, 3.5, body["price"])
		assert.Equal(t, "Dessert", body["category"])
		assert.Equal(t, "data:image/png;base64,AA==", body["image"])
		assert.NotContains(t, body, "id")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"name":"Cake","price":3.5,"category":"Dessert","image":"data:image/png;base64,AA=="}`))
	}))
	defer srv.Close()

	created, err := NewClient(srv.URL, time.Second).CreateProduct(context.Background(), models.NewProduct{
		Name:     "Cake",
		Price:    3.5,
		Category: models.CategoryDessert,
		Image:    "data:image/png;base64,AA==",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Cake", created.Name)
}

func TestClient_CreateProduct_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).CreateProduct(context.Background(), models.NewProduct{Name: "Cake"})

	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "create product"), err.Error())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestClient_DeleteProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"deleted":true}`))
	}))
	defer srv.Close()

	payload, err := NewClient(srv.URL+"/products", time.Second).DeleteProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":true}`, string(payload))
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, time.Second).ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
