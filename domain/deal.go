package domain

import "time"

// Deal is a time-bounded promotional discount over a set of products.
type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProductIDs  []string  `json:"productIds"`
	DiscountPct int       `json:"discountPct"` // 1..100
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Live reports whether the deal is active and inside its time window at t.
func (d *Deal) Live(t time.Time) bool {
	return d.Active && !t.Before(d.StartsAt) && t.Before(d.EndsAt)
}

// DealInput is the create/update payload for a deal.
type DealInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProductIDs  []string  `json:"productIds"`
	DiscountPct int       `json:"discountPct"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Active      bool      `json:"active"`
}
