package entities

import "time"

// RequestStatus is the delivery state of a review request
type RequestStatus string

const (
	RequestStatusSent      RequestStatus = "sent"
	RequestStatusDelivered RequestStatus = "delivered"
	RequestStatusRead      RequestStatus = "read"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusFailed    RequestStatus = "failed"
)

// statusRank orders the forward-only delivery progression
var statusRank = map[RequestStatus]int{
	RequestStatusSent:      0,
	RequestStatusDelivered: 1,
	RequestStatusRead:      2,
	RequestStatusCompleted: 3,
}

// Valid reports whether s is a known status
func (s RequestStatus) Valid() bool {
	if s == RequestStatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusFailed
}

// CanAdvanceTo reports whether s may transition to next. Failed is reachable
// from any non-terminal state. Strict mode forbids skipping delivery states,
// so completed is only reachable one rank at a time.
func (s RequestStatus) CanAdvanceTo(next RequestStatus, strict bool) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == RequestStatusFailed {
		return true
	}
	from, to := statusRank[s], statusRank[next]
	if strict {
		return to == from+1
	}
	return to > from
}

// ReviewRequest is a single solicitation sent to a customer. Requests are
// never deleted; their status only moves forward.
type ReviewRequest struct {
	ID         string        `json:"id" db:"id"`
	BusinessID string        `json:"business_id" db:"business_id"`
	CustomerID string        `json:"customer_id" db:"customer_id"`
	Status     RequestStatus `json:"status" db:"status"`
	SentAt     time.Time     `json:"sent_at" db:"sent_at"`
}

// RequestWithCustomer joins a request with its customer's display fields for
// presentation by the caller.
type RequestWithCustomer struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	Status        RequestStatus `json:"status"`
	SentAt        time.Time     `json:"sent_at"`
}
