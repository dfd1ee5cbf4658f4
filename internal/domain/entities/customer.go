package entities

import "time"

// Customer is a review recipient, unique per (business_id, phone) and created
// lazily on the first request addressed to that phone.
type Customer struct {
	ID         string    `json:"id" db:"id"`
	BusinessID string    `json:"business_id" db:"business_id"`
	Name       string    `json:"name" db:"name"`
	Phone      string    `json:"phone" db:"phone"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
