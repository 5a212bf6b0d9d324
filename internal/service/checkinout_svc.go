package service

import (
	"context"
	"errors"
	"time"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/internal/events"
	"github.com/you/hotel-manager/pkg/clock"
)

// CheckInOutSvc drives the transitions tied to physical room state: starting
// a stay (Confirmed → InProgress, room Occupied) and ending it
// (InProgress → Completed, room Cleaning, balance settled).
type CheckInOutSvc struct {
	reservations ReservationStore
	rooms        RoomStore
	payments     PaymentStore
	consumptions ConsumptionStore
	avail        *Availability
	clk          clock.Clock
	pub          EventPublisher
}

func NewCheckInOutSvc(
	reservations ReservationStore,
	rooms RoomStore,
	payments PaymentStore,
	consumptions ConsumptionStore,
	avail *Availability,
	clk clock.Clock,
	pub EventPublisher,
) *CheckInOutSvc {
	return &CheckInOutSvc{
		reservations: reservations,
		rooms:        rooms,
		payments:     payments,
		consumptions: consumptions,
		avail:        avail,
		clk:          clk,
		pub:          pub,
	}
}

func (s *CheckInOutSvc) CheckIn(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	res, err := s.reservations.ByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", reservationID)
	}
	if res.State != domain.StateConfirmed {
		return nil, InvalidState(CodeInvalidState,
			"only confirmed reservations can check in (current state: %s)", res.State)
	}
	if res.CheckIn.After(clock.Today(s.clk)) {
		return nil, InvalidState(CodeCheckInDateFuture,
			"check-in is scheduled for %s; it cannot happen before that date",
			res.CheckIn.Format("2006-01-02"))
	}

	room, err := s.rooms.ByID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFound(CodeRoomNotFound, "room %s does not exist", res.RoomID)
	}
	if room.Status != domain.RoomAvailable {
		return nil, InvalidState(CodeRoomUnavailable,
			"room %s is not available (current status: %s)", room.Number, room.Status)
	}

	now := s.clk.Now()
	res.State = domain.StateInProgress
	res.ActualCheckIn = &now
	room.Status = domain.RoomOccupied
	if err := s.reservations.SaveCheckIn(ctx, res, room); err != nil {
		if errors.Is(err, domain.ErrRoomNotAvailable) {
			return nil, InvalidState(CodeRoomUnavailable,
				"room %s is not available", room.Number)
		}
		return nil, err
	}

	s.publish(ctx, events.StayCheckedIn, events.StayEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		RoomID:        room.ID,
		At:            now.UTC().Format(time.RFC3339),
	})
	return res, nil
}

func (s *CheckInOutSvc) CheckOut(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	res, err := s.reservations.ByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", reservationID)
	}
	if res.State != domain.StateInProgress {
		return nil, InvalidState(CodeInvalidState,
			"only in-progress reservations can check out (current state: %s)", res.State)
	}

	due, err := s.amountDue(ctx, res)
	if err != nil {
		return nil, err
	}
	paid, err := s.amountPaid(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	if due-paid > 1e-6 {
		return nil, InvalidState(CodePendingPayments,
			"pending payment: total due %.2f, paid %.2f", due, paid)
	}

	now := s.clk.Now()
	res.State = domain.StateCompleted
	res.ActualCheckOut = &now

	// Room update is best-effort: a missing room record must not block the
	// guest from checking out.
	room, err := s.rooms.ByID(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	if room != nil {
		room.Status = domain.RoomCleaning
	}
	if err := s.reservations.SaveCheckOut(ctx, res, room); err != nil {
		return nil, err
	}

	s.publish(ctx, events.StayCheckedOut, events.StayEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		RoomID:        res.RoomID,
		At:            now.UTC().Format(time.RFC3339),
		AmountDue:     due,
	})
	return res, nil
}

// Active returns the reservations a front desk cares about right now: guests
// in house plus arrivals still expected.
func (s *CheckInOutSvc) Active(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.ByStates(ctx, domain.StateInProgress, domain.StateConfirmed)
}

// AvailableRooms lists rooms free for [from, to) across all room types.
func (s *CheckInOutSvc) AvailableRooms(ctx context.Context, from, to time.Time) ([]domain.Room, error) {
	from = clock.DateOf(from)
	to = clock.DateOf(to)
	if !to.After(from) {
		return nil, Invalid(CodeInvalidDateRange, "end date must be after start date")
	}
	return s.avail.AvailableRooms(ctx, from, to, "")
}

func (s *CheckInOutSvc) amountDue(ctx context.Context, res *domain.Reservation) (float64, error) {
	due := res.TotalAmount
	consumptions, err := s.consumptions.ForReservation(ctx, res.ID)
	if err != nil {
		return 0, err
	}
	for i := range consumptions {
		due += consumptions[i].Subtotal
	}
	return due, nil
}

func (s *CheckInOutSvc) amountPaid(ctx context.Context, reservationID string) (float64, error) {
	payments, err := s.payments.ForReservation(ctx, reservationID)
	if err != nil {
		return 0, err
	}
	var paid float64
	for i := range payments {
		if payments[i].Status == domain.PaymentCompleted {
			paid += payments[i].Amount
		}
	}
	return paid, nil
}

func (s *CheckInOutSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, v)
}
