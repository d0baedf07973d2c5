package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// DealsService manages promotional deals.
type DealsService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of deals. With activeOnly set, only currently active
// deals are returned.
func (s *DealsService) List(ctx context.Context, activeOnly bool, page, perPage int) (*domain.Page[domain.Deal], error) {
	query := url.Values{}
	if activeOnly {
		query.Set("active", strconv.FormatBool(true))
	}
	query = pageQuery(query, page, perPage)

	var out domain.Page[domain.Deal]
	if err := s.t.Get(ctx, "deals.list", "/deals", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single deal.
func (s *DealsService) Get(ctx context.Context, id string) (*domain.Deal, error) {
	var d domain.Deal
	if err := s.t.Get(ctx, "deals.get", "/deals/"+id, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create creates a deal.
func (s *DealsService) Create(ctx context.Context, input domain.DealInput) (*domain.Deal, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Deal, error) {
		var d domain.Deal
		if err := s.t.Post(ctx, "deals.create", "/deals", input, &d); err != nil {
			return nil, err
		}
		return &d, nil
	})
}

// Update replaces a deal's editable fields.
func (s *DealsService) Update(ctx context.Context, id string, input domain.DealInput) (*domain.Deal, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Deal, error) {
		var d domain.Deal
		if err := s.t.Put(ctx, "deals.update", "/deals/"+id, input, &d); err != nil {
			return nil, err
		}
		return &d, nil
	})
}

// Delete removes a deal.
func (s *DealsService) Delete(ctx context.Context, id string) error {
	return s.guard.Protect(ctx, func(ctx context.Context) error {
		return s.t.Delete(ctx, "deals.delete", "/deals/"+id)
	})
}
