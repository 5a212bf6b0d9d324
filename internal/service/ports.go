package service

import (
	"context"
	"time"

	"github.com/you/hotel-manager/internal/domain"
)

// Store ports consumed by the engine. Lookups return (nil, nil) when the
// record is absent; a non-nil error always means the store itself failed.
// The gorm implementations live in internal/repository; tests use in-memory
// fakes.

type RoomStore interface {
	ByID(ctx context.Context, id string) (*domain.Room, error)
	// List returns rooms ordered by room number.
	List(ctx context.Context, activeOnly bool) ([]domain.Room, error)
	Create(ctx context.Context, r *domain.Room) error
	Update(ctx context.Context, r *domain.Room) error
}

type RoomTypeStore interface {
	ByID(ctx context.Context, id string) (*domain.RoomType, error)
	List(ctx context.Context, activeOnly bool) ([]domain.RoomType, error)
	Create(ctx context.Context, t *domain.RoomType) error
}

type GuestStore interface {
	ByID(ctx context.Context, id string) (*domain.Guest, error)
	List(ctx context.Context) ([]domain.Guest, error)
	Create(ctx context.Context, g *domain.Guest) error
}

// ReservationFilter narrows List; zero values mean "no constraint".
// PageSize <= 0 disables paging.
type ReservationFilter struct {
	State       domain.ReservationState
	GuestID     string
	CheckInFrom *time.Time // planned check-in lower bound
	CheckOutTo  *time.Time // planned check-out upper bound
	Page        int        // zero-based
	PageSize    int
}

type ReservationStore interface {
	ByID(ctx context.Context, id string) (*domain.Reservation, error)
	ByCode(ctx context.Context, code string) (*domain.Reservation, error)
	// List returns the page slice plus the total match count.
	List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, int64, error)
	// ByStates returns all reservations currently in any of the given states.
	ByStates(ctx context.Context, states ...domain.ReservationState) ([]domain.Reservation, error)
	// InRange returns reservations whose [check_in, check_out) intersects
	// [from, to), regardless of state.
	InRange(ctx context.Context, from, to time.Time) ([]domain.Reservation, error)
	// BlockingForRoom returns the room's reservations in a blocking state
	// (neither Cancelled nor Completed), minus excludeID when non-empty.
	BlockingForRoom(ctx context.Context, roomID, excludeID string) ([]domain.Reservation, error)
	// Create persists r and must guarantee, under concurrent calls, that no
	// two blocking reservations with overlapping dates commit for the same
	// room; it returns domain.ErrDateOverlap when the slot is taken and
	// domain.ErrCodeTaken when another create already claimed r.Code.
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id string) error
	// LastCodeSeq reports the highest NNNN sequence already allocated in
	// RES-YYYY-NNNN codes for the given year, 0 when none exist.
	LastCodeSeq(ctx context.Context, year int) (int64, error)
	// SaveCheckIn persists the reservation and room together, re-verifying
	// under lock that the room is still Available; returns
	// domain.ErrRoomNotAvailable when another check-in won the race.
	SaveCheckIn(ctx context.Context, res *domain.Reservation, room *domain.Room) error
	// SaveCheckOut persists the reservation and, when room is non-nil, the
	// room in the same transaction.
	SaveCheckOut(ctx context.Context, res *domain.Reservation, room *domain.Room) error
}

type PaymentStore interface {
	ForReservation(ctx context.Context, reservationID string) ([]domain.Payment, error)
	Create(ctx context.Context, p *domain.Payment) error
}

type ConsumptionStore interface {
	ForReservation(ctx context.Context, reservationID string) ([]domain.ServiceConsumption, error)
	ForReservations(ctx context.Context, reservationIDs []string) ([]domain.ServiceConsumption, error)
	Create(ctx context.Context, c *domain.ServiceConsumption) error
}

type ServiceStore interface {
	ByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
}

// EventPublisher is satisfied by *mq.Publisher. Services treat publishing as
// fire-and-forget; a nil publisher disables events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
