// Package queue defines the message payloads exchanged over the broker
// and the background consumer that persists them.
package queue

// BookingCompletedEvent is published after a booking succeeds against
// either upstream backend. It carries everything the reporting row
// needs so the consumer never has to call back into the upstream.
type BookingCompletedEvent struct {
	EventID            string  `json:"event_id"`
	LocationID         string  `json:"location_id"`
	Source             string  `json:"source"` // "pms" or "newbook"
	BookingID          int64   `json:"booking_id"`
	ConfirmationNumber string  `json:"confirmation_number"`
	GuestName          string  `json:"guest_name"`
	GuestEmail         string  `json:"guest_email"`
	Arrival            string  `json:"arrival"`
	Departure          string  `json:"departure"`
	Adults             int     `json:"adults"`
	Children           int     `json:"children"`
	CategoryID         int64   `json:"category_id"`
	AreaID             int64   `json:"area_id"`
	Amount             float64 `json:"amount"`
	Status             string  `json:"status"`
	CompletedAt        string  `json:"completed_at"`
}
