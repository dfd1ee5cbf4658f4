package entities

import "time"

// RatingEvent records one star rating. ReviewRequestID is nil when the rating
// arrived without a request reference (a shared link). Redirected holds iff
// Stars == 5.
type RatingEvent struct {
	ID              string    `json:"id" db:"id"`
	ReviewRequestID *string   `json:"review_request_id" db:"review_request_id"`
	Stars           int       `json:"stars" db:"stars"`
	Redirected      bool      `json:"redirected" db:"redirected"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// DecisionKind tags the two outcomes of the rating gate
type DecisionKind string

const (
	// DecisionRedirect sends the customer to the public review site
	DecisionRedirect DecisionKind = "redirect"
	// DecisionFeedbackAllowed invites private feedback on the new event
	DecisionFeedbackAllowed DecisionKind = "feedback_allowed"
)

// Decision is the rating gate's outcome. Exactly one of RedirectURL and
// RatingEventID is meaningful, selected by Kind.
type Decision struct {
	Kind          DecisionKind
	RedirectURL   string
	RatingEventID string
}
