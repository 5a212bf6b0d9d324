// Package events defines the routing keys and message payloads exchanged
// over the broker between the hotel service and its consumers.
package events

import "encoding/json"

const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
	StayCheckedIn        = "stay.checked_in"
	StayCheckedOut       = "stay.checked_out"
	PaymentCompleted     = "payment.completed"
	PaymentFailed        = "payment.failed"
)

type ReservationEvent struct {
	ReservationID string  `json:"reservation_id"`
	Code          string  `json:"code"`
	GuestID       string  `json:"guest_id"`
	RoomID        string  `json:"room_id"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	TotalAmount   float64 `json:"total_amount"`
	State         string  `json:"state"`
}

type StayEvent struct {
	ReservationID string  `json:"reservation_id"`
	Code          string  `json:"code"`
	RoomID        string  `json:"room_id"`
	At            string  `json:"at"`
	AmountDue     float64 `json:"amount_due,omitempty"`
}

type PaymentEvent struct {
	EventID       string  `json:"event_id"`
	ReservationID string  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAt        string  `json:"paid_at"`
}

func Unmarshal[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}
