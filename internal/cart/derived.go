package cart

import (
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// FilterProducts returns the products shown under filter.
// The result is always a new slice; products is never modified.
func FilterProducts(products []models.Product, filter models.Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter == models.FilterAll || models.Filter(p.Category) == filter {
			out = append(out, p)
		}
	}
	return out
}

// TotalItems sums the counts of all cart entries
func TotalItems(entries []models.CartEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// Subtotal prices the cart against products. Entries for unknown products are skipped.
func Subtotal(entries []models.CartEntry, products []models.Product) decimal.Decimal {
	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = decimal.NewFromFloat(p.Price)
	}

	total := decimal.Zero
	for _, e := range entries {
		price, ok := prices[e.ID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(e.Count))))
	}
	return total
}
