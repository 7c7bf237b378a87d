package models

// Category is the product category as stored by the remote catalog service
type Category string

const (
	CategoryFastFood Category = "Fast-Food"
	CategoryDessert  Category = "Dessert"
	CategoryDrinks   Category = "Drinks"
)

// Categories lists the known categories in display order
var Categories = []Category{CategoryFastFood, CategoryDessert, CategoryDrinks}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog item.
// Schema matches the remote catalog service payload.
type Product struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	// Image is either a URL or a data URL produced by the admin form
	Image string `json:"image"`
}

// NewProduct is the create payload; the server assigns the ID
type NewProduct struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	Image    string   `json:"image"`
}
