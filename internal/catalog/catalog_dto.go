package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    []string        `json:"image"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// ProductDetail keeps every upstream field the storefront does not map in
// Attributes.
type ProductDetail struct {
	Product
	Attributes map[string]any `json:"attributes,omitempty"`
}

type ListQuery struct {
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}
