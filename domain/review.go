package domain

import "time"

// ReviewStatus is the moderation state of a customer review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// Review is a customer-submitted product review awaiting or past moderation.
type Review struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	UserID    string       `json:"userId"`
	Rating    int          `json:"rating"` // 1..5
	Title     string       `json:"title,omitempty"`
	Body      string       `json:"body"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}
