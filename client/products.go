package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// ProductsService manages the product catalog.
type ProductsService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of products matching the query.
func (s *ProductsService) List(ctx context.Context, q domain.ProductQuery) (*domain.Page[domain.Product], error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.BrandID != "" {
		query.Set("brandId", q.BrandID)
	}
	if q.CategoryID != "" {
		query.Set("categoryId", q.CategoryID)
	}
	if q.Published != nil {
		query.Set("published", strconv.FormatBool(*q.Published))
	}
	query = pageQuery(query, q.Page, q.PerPage)

	var page domain.Page[domain.Product]
	if err := s.t.Get(ctx, "products.list", "/products", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single product by ID.
func (s *ProductsService) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := s.t.Get(ctx, "products.get", "/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a product.
func (s *ProductsService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Product, error) {
		var p domain.Product
		if err := s.t.Post(ctx, "products.create", "/products", input, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// Update replaces a product's editable fields.
func (s *ProductsService) Update(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Product, error) {
		var p domain.Product
		if err := s.t.Put(ctx, "products.update", "/products/"+id, input, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// Delete removes a product.
func (s *ProductsService) Delete(ctx context.Context, id string) error {
	return s.guard.Protect(ctx, func(ctx context.Context) error {
		return s.t.Delete(ctx, "products.delete", "/products/"+id)
	})
}
