// Package client holds the typed wrappers over the platform's resource
// endpoints. Every mutating call runs behind the CSRF guard, so a stale
// anti-forgery token is refreshed before the request is attempted.
package client

import (
	"net/url"
	"strconv"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/transport"
)

// API bundles one service per platform resource over a shared transport.
type API struct {
	Products   *ProductsService
	Brands     *BrandsService
	Categories *CategoriesService
	Tags       *TagsService
	Orders     *OrdersService
	Inventory  *InventoryService
	Reviews    *ReviewsService
	Deals      *DealsService
	Users      *UsersService
	Uploads    *UploadsService
}

// NewAPI creates the full resource client set.
func NewAPI(t *transport.Client, guard *csrf.Guard) *API {
	return &API{
		Products:   &ProductsService{t: t, guard: guard},
		Brands:     newBrandsService(t, guard),
		Categories: newCategoriesService(t, guard),
		Tags:       newTagsService(t, guard),
		Orders:     &OrdersService{t: t, guard: guard},
		Inventory:  &InventoryService{t: t, guard: guard},
		Reviews:    &ReviewsService{t: t, guard: guard},
		Deals:      &DealsService{t: t, guard: guard},
		Users:      &UsersService{t: t, guard: guard},
		Uploads:    &UploadsService{t: t, guard: guard},
	}
}

// pageQuery encodes common pagination params, skipping zero values.
func pageQuery(q url.Values, page, perPage int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("perPage", strconv.Itoa(perPage))
	}
	return q
}
