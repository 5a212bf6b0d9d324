package domain

import (
	"errors"
	"time"
)

// Sentinel errors surfaced by store implementations when a race is lost
// inside their transaction.
var (
	ErrDateOverlap      = errors.New("date overlap")
	ErrRoomNotAvailable = errors.New("room not available")
	ErrCodeTaken        = errors.New("reservation code taken")
)

type ReservationState string

const (
	StatePending    ReservationState = "PENDING"
	StateConfirmed  ReservationState = "CONFIRMED"
	StateInProgress ReservationState = "IN_PROGRESS"
	StateCompleted  ReservationState = "COMPLETED"
	StateCancelled  ReservationState = "CANCELLED"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ReservationState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Blocking reports whether a reservation in state s holds its room's dates.
// Cancelled and Completed reservations never conflict with new bookings.
func (s ReservationState) Blocking() bool {
	return s != StateCancelled && s != StateCompleted
}

type Reservation struct {
	ID         string `gorm:"primaryKey"`
	Code       string `gorm:"uniqueIndex"` // RES-YYYY-NNNN
	GuestID    string `gorm:"index"`
	RoomID     string `gorm:"index"`
	RoomTypeID string `gorm:"index"`

	BookedAt time.Time // when the reservation was taken, not the stay dates
	CheckIn  time.Time `gorm:"index;type:date"` // planned, inclusive
	CheckOut time.Time `gorm:"index;type:date"` // planned, exclusive

	ActualCheckIn  *time.Time
	ActualCheckOut *time.Time

	Nights      int
	TotalAmount float64
	State       ReservationState `gorm:"index"`
	Notes       string           `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Guest    *Guest    `gorm:"foreignKey:GuestID"`
	Room     *Room     `gorm:"foreignKey:RoomID"`
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentRejected   PaymentStatus = "REJECTED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID            string `gorm:"primaryKey"`
	ReservationID string `gorm:"index"`
	Amount        float64
	PaidAt        time.Time
	Method        string
	Status        PaymentStatus `gorm:"index"`
	Reference     string
}

// ServiceConsumption charges an extra service to a reservation; subtotals are
// added to the amount due at check-out.
type ServiceConsumption struct {
	ID            string `gorm:"primaryKey"`
	ReservationID string `gorm:"index"`
	ServiceID     string `gorm:"index"`
	Quantity      int
	ConsumedAt    time.Time
	Subtotal      float64

	Service *Service `gorm:"foreignKey:ServiceID"`
}

// EventConsumed dedupes externally-delivered events (payment webhooks etc.).
type EventConsumed struct {
	ID          string `gorm:"primaryKey"` // event unique id
	EventKey    string `gorm:"index"`      // e.g. payment.completed
	ProcessedAt time.Time
}
