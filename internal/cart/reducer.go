// Package cart holds the catalog view state: pending quantities per product,
// the committed cart and the active category filter.
//
// Reduce is a pure transition function. It never mutates the state it is
// given; every action produces a replacement State.
package cart

import (
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// State is the (quantities, cart, filter) triple
type State struct {
	Quantities map[int64]int      `json:"quantities"`
	Cart       []models.CartEntry `json:"cart"`
	Filter     models.Filter      `json:"filter"`
}

// NewState returns the initial state: no quantities, empty cart, filter All
func NewState() State {
	return State{
		Quantities: map[int64]int{},
		Cart:       []models.CartEntry{},
		Filter:     models.FilterAll,
	}
}

// Action is a state transition request. The set of actions is closed.
type Action interface {
	action()
}

// IncreaseQuantity adds one to the pending quantity of a product
type IncreaseQuantity struct{ ID int64 }

// DecreaseQuantity subtracts one from the pending quantity, floored at zero
type DecreaseQuantity struct{ ID int64 }

// ResetQuantity sets the pending quantity of a product to zero
type ResetQuantity struct{ ID int64 }

// AddToCart commits Count items of a product and resets its pending quantity
type AddToCart struct {
	ID    int64
	Count int
}

// RemoveFromCart drops the cart entry for a product
type RemoveFromCart struct{ ID int64 }

// SetFilter replaces the active filter
type SetFilter struct{ Filter models.Filter }

func (IncreaseQuantity) action() {}
func (DecreaseQuantity) action() {}
func (ResetQuantity) action() {}
func (AddToCart) action() {}
func (RemoveFromCart) action() {}
func (SetFilter) action() {}

// Reduce applies a to s and returns the new state.
// Unknown actions (including nil) return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case IncreaseQuantity:
		return s.withQuantity(a.ID, s.Quantities[a.ID]+1)

	case DecreaseQuantity:
		return s.withQuantity(a.ID, max(0, s.Quantities[a.ID]-1))

	case ResetQuantity:
		return s.withQuantity(a.ID, 0)

	case AddToCart:
		next := s.withQuantity(a.ID, 0)
		next.Cart = addEntry(s.Cart, a.ID, a.Count)
		return next

	case RemoveFromCart:
		next := s
		next.Cart = removeEntry(s.Cart, a.ID)
		return next

	case SetFilter:
		next := s
		next.Filter = a.Filter
		return next

	default:
		return s
	}
}

// CommitPending adds the pending quantity of id to the cart.
// Nothing happens when the pending quantity is zero; ok reports whether the
// cart changed.
func CommitPending(s State, id int64) (next State, ok bool) {
	count := Quantity(s, id)
	if count <= 0 {
		return s, false
	}
	return Reduce(s, AddToCart{ID: id, Count: count}), true
}

// Quantity returns the pending quantity of id, zero when unset
func Quantity(s State, id int64) int {
	return s.Quantities[id]
}

func (s State) withQuantity(id int64, n int) State {
	quantities := make(map[int64]int, len(s.Quantities)+1)
	for k, v := range s.Quantities {
		quantities[k] = v
	}
	quantities[id] = n

	next := s
	next.Quantities = quantities
	return next
}

func addEntry(entries []models.CartEntry, id int64, count int) []models.CartEntry {
	out := make([]models.CartEntry, len(entries), len(entries)+1)
	copy(out, entries)

	for i := range out {
		if out[i].ID == id {
			out[i].Count += count
			return out
		}
	}
	return append(out, models.CartEntry{ID: id, Count: count})
}

func removeEntry(entries []models.CartEntry, id int64) []models.CartEntry {
	out := make([]models.CartEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
