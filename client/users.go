package client

import (
	"context"
	"net/url"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// UsersService manages platform accounts.
type UsersService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// List returns a page of users, optionally filtered by role or search term.
func (s *UsersService) List(ctx context.Context, role domain.Role, search string, page, perPage int) (*domain.Page[domain.User], error) {
	query := url.Values{}
	if role != "" {
		query.Set("role", string(role))
	}
	if search != "" {
		query.Set("search", search)
	}
	query = pageQuery(query, page, perPage)

	var out domain.Page[domain.User]
	if err := s.t.Get(ctx, "users.list", "/users", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single user.
func (s *UsersService) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.t.Get(ctx, "users.get", "/users/"+id, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type roleUpdate struct {
	Role domain.Role `json:"role"`
}

// SetRole changes a user's role.
func (s *UsersService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.User, error) {
		var u domain.User
		if err := s.t.Patch(ctx, "users.setRole", "/users/"+id+"/role", roleUpdate{Role: role}, &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
}

// Delete removes a user account.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.guard.Protect(ctx, func(ctx context.Context) error {
		return s.t.Delete(ctx, "users.delete", "/users/"+id)
	})
}
