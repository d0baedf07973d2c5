package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// OrdersService reads and progresses customer orders.
type OrdersService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of orders matching the query.
func (s *OrdersService) List(ctx context.Context, q domain.OrderQuery) (*domain.Page[domain.Order], error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.UserID != "" {
		query.Set("userId", q.UserID)
	}
	query = pageQuery(query, q.Page, q.PerPage)

	var page domain.Page[domain.Order]
	if err := s.t.Get(ctx, "orders.list", "/orders", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single order by ID.
func (s *OrdersService) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := s.t.Get(ctx, "orders.get", "/orders/"+id, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type statusUpdate struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateStatus moves an order to the next status. Illegal transitions are
// rejected locally before any request is made.
func (s *OrdersService) UpdateStatus(ctx context.Context, order *domain.Order, next domain.OrderStatus) (*domain.Order, error) {
	if !order.Status.CanTransition(next) {
		return nil, fmt.Errorf("order %s cannot move from %s to %s", order.ID, order.Status, next)
	}
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Order, error) {
		var out domain.Order
		if err := s.t.Patch(ctx, "orders.updateStatus", "/orders/"+order.ID+"/status", statusUpdate{Status: next}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
