package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/admin"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	products  []models.Product
	listErr   error
	createErr error
}

func (s *stubSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, s.listErr
}

func (s *stubSource) CreateProduct(ctx context.Context, p models.NewProduct) (models.Product, error) {
	if s.createErr != nil {
		return models.Product{}, s.createErr
	}
	return models.Product{ID: 100, Name: p.Name, Price: p.Price, Category: p.Category, Image: p.Image}, nil
}

func setup(t *testing.T, src *stubSource) (*ProductService, *CartService) {
	t.Helper()

	log := logger.New("error")
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	store := repository.NewCatalogStore(src, log, m)
	if src.listErr == nil {
		require.NoError(t, store.Load(context.Background()))
	}

	return NewProductService(store), NewCartService(repository.NewInMemorySessionRepository(m), store, m, log)
}

func burgerAndCola() *stubSource {
	return &stubSource{products: []models.Product{
		{ID: 1, Name: "Burger", Price: 5, Category: models.CategoryFastFood},
		{ID: 2, Name: "Cola", Price: 2, Category: models.CategoryDrinks},
	}}
}

func TestProductService_ListProducts(t *testing.T) {
	products, _ := setup(t, burgerAndCola())
	ctx := context.Background()

	all, err := products.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drinks, err := products.ListProducts(ctx, models.Filter(models.CategoryDrinks))
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Cola", drinks[0].Name)

	_, err = products.ListProducts(ctx, "Snacks")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestProductService_CreateProduct(t *testing.T) {
	products, _ := setup(t, burgerAndCola())
	ctx := context.Background()

	form := admin.Form{Name: "Cake", Price: 4, Category: models.CategoryDessert, Image: "data:image/png;base64,AA=="}
	created, err := products.CreateProduct(ctx, form, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)

	all, _ := products.ListProducts(ctx, models.FilterAll)
	assert.Len(t, all, 3)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	products, _ := setup(t, burgerAndCola())

	form := admin.NewForm()
	form.Name = "Cake"
	_, err := products.CreateProduct(context.Background(), form, admin.FieldErrors{"price": "price must be a number"})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "price must be a number", validationErr.Fields["price"])
	assert.Contains(t, validationErr.Fields, "image")
	assert.Equal(t, "invalid fields: image, price", validationErr.Error())
}

func TestProductService_ReloadAfterFailure(t *testing.T) {
	src := burgerAndCola()
	src.listErr = errors.New("timeout")
	products, _ := setup(t, src)

	status, err := products.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, repository.LoadStateFailed, status.State)

	src.listErr = nil
	status, err = products.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.LoadStateReady, status.State)
	assert.Equal(t, 2, status.Count)
}

func TestCartService_Scenario(t *testing.T) {
	_, carts := setup(t, burgerAndCola())
	ctx := context.Background()
	const session = "s1"

	_, err := carts.Dispatch(ctx, session, cart.IncreaseQuantity{ID: 1})
	require.NoError(t, err)
	view, err := carts.Dispatch(ctx, session, cart.IncreaseQuantity{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Products[0].Quantity)

	view, err = carts.AddPending(ctx, session, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 0, view.Products[0].Quantity)
	require.Len(t, view.Cart, 1)
	assert.Equal(t, "Burger", view.Cart[0].Name)

	_, err = carts.Dispatch(ctx, session, cart.IncreaseQuantity{ID: 1})
	require.NoError(t, err)
	view, err = carts.AddPending(ctx, session, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Cart[0].Count)
	assert.True(t, decimal.NewFromInt(15).Equal(view.Subtotal))

	view, err = carts.Dispatch(ctx, session, cart.SetFilter{Filter: models.Filter(models.CategoryDrinks)})
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, int64(2), view.Products[0].ID)
	assert.Equal(t, 3, view.TotalItems)

	view, err = carts.Dispatch(ctx, session, cart.RemoveFromCart{ID: 1})
	require.NoError(t, err)
	assert.Empty(t, view.Cart)
	assert.Zero(t, view.TotalItems)
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	_, carts := setup(t, burgerAndCola())
	ctx := context.Background()

	_, err := carts.Dispatch(ctx, "a", cart.AddToCart{ID: 1, Count: 2})
	require.NoError(t, err)

	view, err := carts.View(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, view.Cart)
	assert.Equal(t, models.FilterAll, view.Filter)
}

func TestCartService_Errors(t *testing.T) {
	_, carts := setup(t, burgerAndCola())
	ctx := context.Background()

	_, err := carts.Dispatch(ctx, "s", cart.IncreaseQuantity{ID: 99})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = carts.Dispatch(ctx, "s", cart.SetFilter{Filter: "Snacks"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = carts.Dispatch(ctx, "s", cart.AddToCart{ID: 1, Count: 0})
	assert.ErrorIs(t, err, ErrEmptyQuantity)

	_, err = carts.AddPending(ctx, "s", 1)
	assert.ErrorIs(t, err, ErrEmptyQuantity)

	_, err = carts.AddPending(ctx, "s", 99)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	// removing something that was never added is fine
	_, err = carts.Dispatch(ctx, "s", cart.RemoveFromCart{ID: 99})
	assert.NoError(t, err)
}

func TestCartService_ViewWhileCatalogFailed(t *testing.T) {
	src := burgerAndCola()
	src.listErr = errors.New("unreachable")
	products, carts := setup(t, src)
	_, _ = products.Reload(context.Background())

	view, err := carts.View(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, view.Products)
	assert.Equal(t, repository.LoadStateFailed, view.CatalogStatus.State)
	assert.Contains(t, view.CatalogStatus.Error, "unreachable")
}
