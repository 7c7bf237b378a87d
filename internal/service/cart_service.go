package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct = errors.New("invalid product")
	ErrEmptyQuantity  = errors.New("quantity must be positive")
)

// ProductView is a catalog row with its pending quantity
type ProductView struct {
	models.Product
	Quantity int `json:"quantity"`
}

// CartItemView is a cart entry joined with its product name
type CartItemView struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price float64         `json:"price"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// View is everything the catalog screen renders for one session
type View struct {
	Filter        models.Filter            `json:"filter"`
	Filters       []models.Filter          `json:"filters"`
	Products      []ProductView            `json:"products"`
	Cart          []CartItemView           `json:"cart"`
	TotalItems    int                      `json:"totalItems"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	CatalogStatus repository.CatalogStatus `json:"catalogStatus"`
}

// CartService applies cart transitions per session and builds views
type CartService struct {
	sessions repository.SessionRepository
	store    CatalogStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(sessions repository.SessionRepository, store CatalogStore, m *metrics.Metrics, logger *slog.Logger) *CartService {
	return &CartService{
		sessions: sessions,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// View returns the current view for a session
func (s *CartService) View(ctx context.Context, sessionID string) (*View, error) {
	return s.buildView(ctx, s.sessions.Get(sessionID))
}

// Dispatch validates and applies an action to the session state.
// Actions naming a product require the product to exist in the catalog;
// RemoveFromCart does not, so stale entries can always be dropped.
func (s *CartService) Dispatch(ctx context.Context, sessionID string, action cart.Action) (*View, error) {
	if err := s.validate(ctx, action); err != nil {
		return nil, err
	}

	state := s.sessions.Update(sessionID, func(st cart.State) cart.State {
		return cart.Reduce(st, action)
	})
	s.record(sessionID, action)

	return s.buildView(ctx, state)
}

// AddPending commits the pending quantity of a product to the cart.
// It fails with ErrEmptyQuantity when nothing is pending.
func (s *CartService) AddPending(ctx context.Context, sessionID string, productID int64) (*View, error) {
	if _, err := s.store.GetByID(ctx, productID); err != nil {
		return nil, ErrInvalidProduct
	}

	committed := false
	var added int
	state := s.sessions.Update(sessionID, func(st cart.State) cart.State {
		added = cart.Quantity(st, productID)
		next, ok := cart.CommitPending(st, productID)
		committed = ok
		return next
	})
	if !committed {
		return nil, ErrEmptyQuantity
	}
	s.record(sessionID, cart.AddToCart{ID: productID, Count: added})

	return s.buildView(ctx, state)
}

func (s *CartService) validate(ctx context.Context, action cart.Action) error {
	var id int64
	switch a := action.(type) {
	case cart.IncreaseQuantity:
		id = a.ID
	case cart.DecreaseQuantity:
		id = a.ID
	case cart.ResetQuantity:
		id = a.ID
	case cart.AddToCart:
		if a.Count <= 0 {
			return ErrEmptyQuantity
		}
		id = a.ID
	case cart.SetFilter:
		if a.Filter != models.FilterAll && !models.Category(a.Filter).Valid() {
			return ErrInvalidFilter
		}
		return nil
	default:
		return nil
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrInvalidProduct
		}
		return err
	}
	return nil
}

func (s *CartService) record(sessionID string, action cart.Action) {
	name := actionName(action)
	s.metrics.RecordCartAction(name)
	s.logger.Debug("cart action applied", "session", sessionID, "action", name)
}

func (s *CartService) buildView(ctx context.Context, state cart.State) (*View, error) {
	products, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := cart.FilterProducts(products, state.Filter)
	rows := make([]ProductView, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, ProductView{Product: p, Quantity: cart.Quantity(state, p.ID)})
	}

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// entries for products the catalog no longer knows are not rendered,
	// but they still count toward the totals
	items := make([]CartItemView, 0, len(state.Cart))
	for _, entry := range state.Cart {
		p, ok := byID[entry.ID]
		if !ok {
			continue
		}
		items = append(items, CartItemView{
			ID:    entry.ID,
			Name:  p.Name,
			Price: p.Price,
			Count: entry.Count,
			Total: decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(entry.Count))),
		})
	}

	return &View{
		Filter:        state.Filter,
		Filters:       models.Filters(),
		Products:      rows,
		Cart:          items,
		TotalItems:    cart.TotalItems(state.Cart),
		Subtotal:      cart.Subtotal(state.Cart, products),
		CatalogStatus: s.store.Status(),
	}, nil
}

func actionName(action cart.Action) string {
	switch action.(type) {
	case cart.IncreaseQuantity:
		return "increase"
	case cart.DecreaseQuantity:
		return "decrease"
	case cart.ResetQuantity:
		return "reset"
	case cart.AddToCart:
		return "add"
	case cart.RemoveFromCart:
		return "remove"
	case cart.SetFilter:
		return "filter"
	default:
		return "unknown"
	}
}
