// Package admin handles the product creation form.
package admin

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/go-faster/errors"
)

// ErrInvalidForm is returned when the submission cannot be parsed at all
var ErrInvalidForm = errors.New("invalid form submission")

// Form holds the fields of a new product
type Form struct {
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Category models.Category `json:"category"`
	Image    string          `json:"image"`
}

// NewForm returns the form defaults
func NewForm() Form {
	return Form{
		Category: models.CategoryFastFood,
	}
}

// FieldErrors maps a form field to a human readable message
type FieldErrors map[string]string

// Validate runs the presence checks. A price of exactly zero counts as unset.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	if f.Price == 0 {
		errs["price"] = "price is required"
	}
	if f.Category == "" {
		errs["category"] = "category is required"
	}
	if f.Image == "" {
		errs["image"] = "image is required"
	}
	return errs
}

// ToNewProduct converts the form into the create payload
func (f Form) ToNewProduct() models.NewProduct {
	return models.NewProduct{
		Name:     f.Name,
		Price:    f.Price,
		Category: f.Category,
		Image:    f.Image,
	}
}

// ParseRequest reads a multipart or url-encoded submission into a Form.
//
// Field errors (bad price, unreadable image) are returned alongside the form
// so the caller can merge them with Validate. err is only set when the body
// itself cannot be parsed.
func ParseRequest(r *http.Request, maxBytes int64) (Form, FieldErrors, error) {
	form := NewForm()
	fieldErrs := FieldErrors{}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return form, fieldErrs, errors.Errorf("%w: %v", ErrInvalidForm, err)
	}

	form.Name = r.FormValue("name")

	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		// ParseFloat accepts NaN and Inf, which cannot be sent as JSON
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			fieldErrs["price"] = "price must be a number"
		} else {
			form.Price = price
		}
	}

	if category := r.FormValue("category"); category != "" {
		form.Category = models.Category(category)
	}

	form.Image = r.FormValue("image")
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			image, err := ReadImageFile(files[0])
			if err != nil {
				fieldErrs["image"] = err.Error()
			} else {
				form.Image = image
			}
		}
	}

	return form, fieldErrs, nil
}
