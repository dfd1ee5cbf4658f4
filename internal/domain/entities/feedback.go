package entities

import "time"

// Feedback is the private message attached to a gated (sub-five-star) rating.
// At most one feedback exists per rating event; the first submission wins.
type Feedback struct {
	ID            string    `json:"id" db:"id"`
	RatingEventID string    `json:"rating_event_id" db:"rating_event_id"`
	Message       string    `json:"message" db:"message"`
	Contact       string    `json:"contact" db:"contact"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// FeedbackItem is an inbox row: feedback joined with the stars that gated it.
type FeedbackItem struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Contact   string    `json:"contact"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}
