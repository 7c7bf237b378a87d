package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/go-faster/errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// CatalogSource is the remote service backing the catalog store
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.NewProduct) (models.Product, error)
}

// LoadState describes the fetch lifecycle of the catalog
type LoadState string

const (
	LoadStateLoading LoadState = "loading"
	LoadStateReady   LoadState = "ready"
	LoadStateFailed  LoadState = "failed"
)

// CatalogStatus lets callers tell "still loading", "empty" and "failed" apart
type CatalogStatus struct {
	State    LoadState  `json:"state"`
	Error    string     `json:"error,omitempty"`
	Count    int        `json:"count"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
}

// CatalogStore implements ProductRepository with an in-memory copy of the
// remote catalog
type CatalogStore struct {
	source  CatalogSource
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	products []models.Product
	state    LoadState
	lastErr  error
	loadedAt time.Time
}

// NewCatalogStore creates an empty store in the loading state. Call Load to fill it.
func NewCatalogStore(source CatalogSource, logger *slog.Logger, m *metrics.Metrics) *CatalogStore {
	return &CatalogStore{
		source:   source,
		logger:   logger,
		metrics:  m,
		products: []models.Product{},
		state:    LoadStateLoading,
	}
}

// Load replaces the product list with the remote collection.
// On failure the current list is kept and the error is recorded in Status.
func (s *CatalogStore) Load(ctx context.Context) error {
	products, err := s.source.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = LoadStateFailed
		s.lastErr = err
		s.metrics.RecordCatalogLoad(len(s.products), err)
		s.logger.Error("failed to load catalog", "error", err, "kept_products", len(s.products))
		return errors.Wrap(err, "load catalog")
	}

	s.products = products
	s.state = LoadStateReady
	s.lastErr = nil
	s.loadedAt = time.Now().UTC()
	s.metrics.RecordCatalogLoad(len(products), nil)
	s.logger.Info("catalog loaded", "products", len(products))
	return nil
}

// Create sends p to the remote service and appends the returned product.
// Nothing is appended when the remote call fails.
func (s *CatalogStore) Create(ctx context.Context, p models.NewProduct) (models.Product, error) {
	created, err := s.source.CreateProduct(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.RecordProductCreated(len(s.products)+1, err)
	if err != nil {
		s.logger.Error("failed to create product", "name", p.Name, "error", err)
		return models.Product{}, err
	}

	s.products = append(s.products, created)
	s.logger.Info("product created", "id", created.ID, "name", created.Name)
	return created, nil
}

// GetAll returns a copy of all products in catalog order
func (s *CatalogStore) GetAll(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, nil
}

// GetByID returns a product by its ID
func (s *CatalogStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// Status reports the load lifecycle of the store
func (s *CatalogStore) Status() CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := CatalogStatus{
		State: s.state,
		Count: len(s.products),
	}
	if s.lastErr != nil {
		status.Error = s.lastErr.Error()
	}
	if !s.loadedAt.IsZero() {
		loadedAt := s.loadedAt
		status.LoadedAt = &loadedAt
	}
	return status
}

var _ ProductRepository = (*CatalogStore)(nil)
