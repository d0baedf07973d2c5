package domain

import "time"

// Product is a sellable item in the catalog.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Price       int64          `json:"price"` // minor currency units
	SalePrice   int64          `json:"salePrice,omitempty"`
	BrandID     string         `json:"brandId"`
	CategoryID  string         `json:"categoryId"`
	TagIDs      []string       `json:"tagIds,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`
	Published   bool           `json:"published"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProductImage is an uploaded image attached to a product.
type ProductImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// ProductInput is the create/update payload for a product. It mirrors the
// console's product form, which is also what the draft store persists.
type ProductInput struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	SalePrice   int64    `json:"salePrice,omitempty"`
	BrandID     string   `json:"brandId,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
	ImageIDs    []string `json:"imageIds,omitempty"`
	Published   bool     `json:"published"`
}

// ProductQuery narrows product listings.
type ProductQuery struct {
	Search     string
	BrandID    string
	CategoryID string
	Published  *bool
	Page       int
	PerPage    int
}
