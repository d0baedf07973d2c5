package client

import (
	"context"
	"net/url"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// ReviewsService moderates customer reviews.
type ReviewsService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of reviews, optionally filtered by moderation status.
func (s *ReviewsService) List(ctx context.Context, status domain.ReviewStatus, page, perPage int) (*domain.Page[domain.Review], error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	query = pageQuery(query, page, perPage)

	var out domain.Page[domain.Review]
	if err := s.t.Get(ctx, "reviews.list", "/reviews", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type moderation struct {
	Status domain.ReviewStatus `json:"status"`
}

// Moderate approves or rejects a review.
func (s *ReviewsService) Moderate(ctx context.Context, id string, status domain.ReviewStatus) (*domain.Review, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.Review, error) {
		var r domain.Review
		if err := s.t.Patch(ctx, "reviews.moderate", "/reviews/"+id, moderation{Status: status}, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

// Delete removes a review outright.
func (s *ReviewsService) Delete(ctx context.Context, id string) error {
	return s.guard.Protect(ctx, func(ctx context.Context) error {
		return s.t.Delete(ctx, "reviews.delete", "/reviews/"+id)
	})
}
