package client

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// Reference data (brands, categories, tags) changes rarely but is read by
// every product form, so listings are cached briefly on the client.
const refCacheTTL = 5 * time.Minute

const refCacheKey = "all"

// refService is the shared implementation behind the brand, category and
// tag services: a full-list read with a TTL cache, and cache-invalidating
// mutations behind the CSRF guard.
type refService[T any] struct {
	t     *transport.Client
	guard *csrf.Guard
	op    string
	path  string
	cache *ttlcache.Cache[string, []T]
}

func newRefService[T any](t *transport.Client, guard *csrf.Guard, op, path string) refService[T] {
	// No background cleanup goroutine: the cache holds a single key and
	// expired items are dropped on access.
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []T](refCacheTTL),
		ttlcache.WithDisableTouchOnHit[string, []T](),
	)
	return refService[T]{t: t, guard: guard, op: op, path: path, cache: cache}
}

// List returns all entries, from cache when fresh.
func (s *refService[T]) List(ctx context.Context) ([]T, error) {
	if item := s.cache.Get(refCacheKey); item != nil {
		return item.Value(), nil
	}
	var items []T
	if err := s.t.Get(ctx, s.op+".list", s.path, nil, &items); err != nil {
		return nil, err
	}
	s.cache.Set(refCacheKey, items, ttlcache.DefaultTTL)
	return items, nil
}

// Create adds an entry and invalidates the cached listing.
func (s *refService[T]) Create(ctx context.Context, input domain.NameInput) (*T, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*T, error) {
		var out T
		if err := s.t.Post(ctx, s.op+".create", s.path, input, &out); err != nil {
			return nil, err
		}
		s.cache.Delete(refCacheKey)
		return &out, nil
	})
}

// Update changes an entry and invalidates the cached listing.
func (s *refService[T]) Update(ctx context.Context, id string, input domain.NameInput) (*T, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*T, error) {
		var out T
		if err := s.t.Put(ctx, s.op+".update", s.path+"/"+id, input, &out); err != nil {
			return nil, err
		}
		s.cache.Delete(refCacheKey)
		return &out, nil
	})
}

// Delete removes an entry and invalidates the cached listing.
func (s *refService[T]) Delete(ctx context.Context, id string) error {
	return s.guard.Protect(ctx, func(ctx context.Context) error {
		if err := s.t.Delete(ctx, s.op+".delete", s.path+"/"+id); err != nil {
			return err
		}
		s.cache.Delete(refCacheKey)
		return nil
	})
}

// BrandsService manages brands.
type BrandsService struct{ refService[domain.Brand] }

func newBrandsService(t *transport.Client, guard *csrf.Guard) *BrandsService {
	return &BrandsService{newRefService[domain.Brand](t, guard, "brands", "/brands")}
}

// CategoriesService manages the category tree.
type CategoriesService struct{ refService[domain.Category] }

func newCategoriesService(t *transport.Client, guard *csrf.Guard) *CategoriesService {
	return &CategoriesService{newRefService[domain.Category](t, guard, "categories", "/categories")}
}

// TagsService manages tags.
type TagsService struct{ refService[domain.Tag] }

func newTagsService(t *transport.Client, guard *csrf.Guard) *TagsService {
	return &TagsService{newRefService[domain.Tag](t, guard, "tags", "/tags")}
}
