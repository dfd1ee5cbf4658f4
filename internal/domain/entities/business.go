package entities

import "time"

// Business is a tenant soliciting reviews. Each business is owned by exactly
// one external identity and must carry a public review URL before any
// five-star redirect can happen.
type Business struct {
	ID              string    `json:"id" db:"id"`
	OwnerID         string    `json:"owner_id" db:"owner_id"`
	Name            string    `json:"name" db:"name"`
	PublicReviewURL string    `json:"public_review_url" db:"public_review_url"`
	Industry        string    `json:"industry" db:"industry"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
