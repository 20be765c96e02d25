// Package search maintains a Bleve full-text index over the product catalog.
package search

import (
	"github.com/shopfront/shopfront-server/internal/domain"
)

// ProductDocument is the indexed view of a product.
type ProductDocument struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Available   bool
	Price       float64
	CreatedAt   int64 // Unix milliseconds
}

// NewProductDocument builds the document for p.
func NewProductDocument(p *domain.Product) *ProductDocument {
	price, _ := p.Price.Float64()
	return &ProductDocument{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Available:   p.Available,
		Price:       price,
		CreatedAt:   p.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to the field names used in the mapping.
func (d *ProductDocument) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"slug":        d.Slug,
		"title":       d.Title,
		"description": d.Description,
		"available":   d.Available,
		"price":       d.Price,
		"created_at":  d.CreatedAt,
	}
}
