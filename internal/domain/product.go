package domain

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/slug"
)

// ProductTitleMaxLength is the longest title the catalog accepts.
const ProductTitleMaxLength = 150

// Product is a sellable catalog entry. Only available products can be
// looked up by slug or added to a cart.
type Product struct {
	Entity
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	Stock       int             `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

// EnsureSlug derives the slug from the title when none was given.
// An existing slug is never regenerated.
func (p *Product) EnsureSlug() {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
}
