package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/internal/events"
	"github.com/you/hotel-manager/pkg/clock"
)

// ReservationSvc owns the reservation lifecycle: creation with availability
// and pricing rules, date changes, and the Pending → Confirmed → Cancelled
// transitions that do not involve the physical room.
type ReservationSvc struct {
	reservations ReservationStore
	rooms        RoomStore
	roomTypes    RoomTypeStore
	guests       GuestStore
	avail        *Availability
	clk          clock.Clock
	pub          EventPublisher
}

func NewReservationSvc(
	reservations ReservationStore,
	rooms RoomStore,
	roomTypes RoomTypeStore,
	guests GuestStore,
	avail *Availability,
	clk clock.Clock,
	pub EventPublisher,
) *ReservationSvc {
	return &ReservationSvc{
		reservations: reservations,
		rooms:        rooms,
		roomTypes:    roomTypes,
		guests:       guests,
		avail:        avail,
		clk:          clk,
		pub:          pub,
	}
}

type CreateReservationInput struct {
	GuestID  string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	State    domain.ReservationState // optional; defaults to Pending
	Notes    string
	// TotalAmount is advisory only; the engine always recomputes it from the
	// room type's nightly price.
	TotalAmount float64
}

func (s *ReservationSvc) Create(ctx context.Context, in CreateReservationInput) (*domain.Reservation, error) {
	checkIn := clock.DateOf(in.CheckIn)
	checkOut := clock.DateOf(in.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, Invalid(CodeInvalidDateRange, "check-out date must be after check-in date")
	}

	guest, err := s.guests.ByID(ctx, in.GuestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, NotFound(CodeGuestNotFound, "guest %s does not exist", in.GuestID)
	}

	room, err := s.rooms.ByID(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFound(CodeRoomNotFound, "room %s does not exist", in.RoomID)
	}
	if room.Status != domain.RoomAvailable {
		return nil, InvalidState(CodeRoomUnavailable,
			"room %s is not available (current status: %s)", room.Number, room.Status)
	}

	conflict, err := s.avail.HasConflict(ctx, room.ID, checkIn, checkOut, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, Conflict(CodeDateConflict,
			"room %s already has a reservation for those dates", room.Number)
	}

	roomType, err := s.roomTypes.ByID(ctx, room.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, NotFound(CodeRoomTypeNotFound, "room type %s does not exist", room.RoomTypeID)
	}

	state := in.State
	switch state {
	case "":
		state = domain.StatePending
	case domain.StatePending, domain.StateConfirmed:
	default:
		return nil, Invalid(CodeInvalidState, "a reservation cannot be created in state %s", state)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	res := &domain.Reservation{
		ID:          uuid.NewString(),
		GuestID:     guest.ID,
		RoomID:      room.ID,
		RoomTypeID:  roomType.ID,
		BookedAt:    s.clk.Now(),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		TotalAmount: roomType.PricePerNight * float64(nights),
		State:       state,
		Notes:       in.Notes,
	}
	// The code read and the insert are separate statements, so a concurrent
	// create (or one racing a delete) can land on the same sequence number.
	// The unique index on code catches that; re-read and try again.
	for attempt := 0; ; attempt++ {
		code, err := s.nextCode(ctx)
		if err != nil {
			return nil, err
		}
		res.Code = code
		err = s.reservations.Create(ctx, res)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDateOverlap) {
			return nil, Conflict(CodeDateConflict,
				"room %s already has a reservation for those dates", room.Number)
		}
		if errors.Is(err, domain.ErrCodeTaken) && attempt < 3 {
			continue
		}
		return nil, err
	}

	s.publish(ctx, events.ReservationCreated, events.ReservationEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		GuestID:       res.GuestID,
		RoomID:        res.RoomID,
		CheckIn:       res.CheckIn.Format("2006-01-02"),
		CheckOut:      res.CheckOut.Format("2006-01-02"),
		TotalAmount:   res.TotalAmount,
		State:         string(res.State),
	})
	return res, nil
}

type UpdateReservationInput struct {
	CheckIn  time.Time
	CheckOut time.Time
	Notes    string
}

// Update replaces the mutable fields of a reservation that has not reached a
// terminal state. Nights and total are recomputed; the caller never sets them.
func (s *ReservationSvc) Update(ctx context.Context, id string, in UpdateReservationInput) (*domain.Reservation, error) {
	res, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	switch res.State {
	case domain.StateCompleted:
		return nil, InvalidState(CodeReservationCompleted, "a completed reservation cannot be modified")
	case domain.StateCancelled:
		return nil, InvalidState(CodeReservationCancelled, "a cancelled reservation cannot be modified")
	}

	checkIn := clock.DateOf(in.CheckIn)
	checkOut := clock.DateOf(in.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, Invalid(CodeInvalidDateRange, "check-out date must be after check-in date")
	}

	if !checkIn.Equal(res.CheckIn) || !checkOut.Equal(res.CheckOut) {
		conflict, err := s.avail.HasConflict(ctx, res.RoomID, checkIn, checkOut, res.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, Conflict(CodeDateConflict,
				"room already has a reservation for those dates")
		}
	}

	roomType, err := s.roomTypes.ByID(ctx, res.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType == nil {
		return nil, NotFound(CodeRoomTypeNotFound, "room type %s does not exist", res.RoomTypeID)
	}

	res.CheckIn = checkIn
	res.CheckOut = checkOut
	res.Nights = int(checkOut.Sub(checkIn).Hours() / 24)
	res.TotalAmount = roomType.PricePerNight * float64(res.Nights)
	res.Notes = in.Notes
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Confirm moves a Pending reservation to Confirmed.
func (s *ReservationSvc) Confirm(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.State != domain.StatePending {
		return nil, InvalidState(CodeInvalidState,
			"only pending reservations can be confirmed (current state: %s)", res.State)
	}
	res.State = domain.StateConfirmed
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ReservationConfirmed, events.ReservationEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		State:         string(res.State),
	})
	return res, nil
}

// Cancel terminates a Pending or Confirmed reservation. An in-progress stay
// must go through check-out instead.
func (s *ReservationSvc) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	switch res.State {
	case domain.StatePending, domain.StateConfirmed:
	case domain.StateInProgress:
		return nil, InvalidState(CodeReservationInCourse,
			"an in-progress reservation cannot be cancelled; complete it via check-out")
	default:
		return nil, InvalidState(CodeInvalidState,
			"reservation is already %s", res.State)
	}
	res.State = domain.StateCancelled
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ReservationCancelled, events.ReservationEvent{
		ReservationID: res.ID,
		Code:          res.Code,
		State:         string(res.State),
	})
	return res, nil
}

// Delete removes a reservation outright. In-progress stays must complete via
// check-out first.
func (s *ReservationSvc) Delete(ctx context.Context, id string) error {
	res, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}
	if res.State == domain.StateInProgress {
		return InvalidState(CodeReservationInCourse,
			"an in-progress reservation cannot be deleted; complete it via check-out first")
	}
	return s.reservations.Delete(ctx, res.ID)
}

func (s *ReservationSvc) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.mustGet(ctx, id)
}

func (s *ReservationSvc) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	res, err := s.reservations.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", code)
	}
	return res, nil
}

func (s *ReservationSvc) List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, int64, error) {
	return s.reservations.List(ctx, f)
}

func (s *ReservationSvc) mustGet(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.reservations.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", id)
	}
	return res, nil
}

// nextCode allocates the next RES-YYYY-NNNN code for the current year. It
// reads the highest sequence already on file rather than counting rows, so
// deleted reservations never free a number for reuse.
func (s *ReservationSvc) nextCode(ctx context.Context) (string, error) {
	year := s.clk.Now().Year()
	seq, err := s.reservations.LastCodeSeq(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RES-%d-%04d", year, seq+1), nil
}

func (s *ReservationSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, v)
}
