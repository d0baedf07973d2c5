package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// InventoryService reads and adjusts stock levels.
type InventoryService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of stock records. With lowOnly set, only records at
// or below their low-stock threshold are returned.
func (s *InventoryService) List(ctx context.Context, lowOnly bool, page, perPage int) (*domain.Page[domain.InventoryRecord], error) {
	query := url.Values{}
	if lowOnly {
		query.Set("low", strconv.FormatBool(true))
	}
	query = pageQuery(query, page, perPage)

	var out domain.Page[domain.InventoryRecord]
	if err := s.t.Get(ctx, "inventory.list", "/inventory", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the stock record for a product.
func (s *InventoryService) Get(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	if err := s.t.Get(ctx, "inventory.get", "/inventory/"+productID, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Adjust applies a signed stock delta to a product.
func (s *InventoryService) Adjust(ctx context.Context, productID string, adj domain.StockAdjustment) (*domain.InventoryRecord, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.InventoryRecord, error) {
		var rec domain.InventoryRecord
		if err := s.t.Patch(ctx, "inventory.adjust", "/inventory/"+productID, adj, &rec); err != nil {
			return nil, err
		}
		return &rec, nil
	})
}
