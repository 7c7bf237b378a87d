package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/admin"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
)

var (
	ErrInvalidFilter = errors.New("unknown category filter")
)

// ValidationError carries field-level messages for a rejected form
type ValidationError struct {
	Fields admin.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// CatalogStore is the product store used by the services
type CatalogStore interface {
	repository.ProductRepository
	Load(ctx context.Context) error
	Create(ctx context.Context, p models.NewProduct) (models.Product, error)
	Status() repository.CatalogStatus
}

// ProductService handles business logic for products
type ProductService struct {
	store CatalogStore
}

// NewProductService creates a new product service
func NewProductService(store CatalogStore) *ProductService {
	return &ProductService{
		store: store,
	}
}

// ListProducts returns the products matching filter. An empty filter means All.
func (s *ProductService) ListProducts(ctx context.Context, filter models.Filter) ([]models.Product, error) {
	if filter == "" {
		filter = models.FilterAll
	}
	if filter != models.FilterAll && !models.Category(filter).Valid() {
		return nil, ErrInvalidFilter
	}

	products, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return cart.FilterProducts(products, filter), nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetByID(ctx, id)
}

// Reload fetches the catalog from the remote service again
func (s *ProductService) Reload(ctx context.Context) (repository.CatalogStatus, error) {
	err := s.store.Load(ctx)
	return s.store.Status(), err
}

// Status reports the catalog load state
func (s *ProductService) Status() repository.CatalogStatus {
	return s.store.Status()
}

// CreateProduct validates form and creates the product.
// Rejected forms return a *ValidationError; parseErrs are merged into it.
func (s *ProductService) CreateProduct(ctx context.Context, form admin.Form, parseErrs admin.FieldErrors) (models.Product, error) {
	fields := form.Validate()
	for field, msg := range parseErrs {
		fields[field] = msg
	}
	if len(fields) > 0 {
		return models.Product{}, &ValidationError{Fields: fields}
	}

	return s.store.Create(ctx, form.ToNewProduct())
}
