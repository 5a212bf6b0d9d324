package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/pkg/clock"
)

// InventorySvc covers the thin registration surface around the engine: rooms,
// room types, guests, the service catalog, and charges posted to a stay.
type InventorySvc struct {
	rooms        RoomStore
	roomTypes    RoomTypeStore
	guests       GuestStore
	services     ServiceStore
	reservations ReservationStore
	payments     PaymentStore
	consumptions ConsumptionStore
	clk          clock.Clock
}

func NewInventorySvc(
	rooms RoomStore,
	roomTypes RoomTypeStore,
	guests GuestStore,
	services ServiceStore,
	reservations ReservationStore,
	payments PaymentStore,
	consumptions ConsumptionStore,
	clk clock.Clock,
) *InventorySvc {
	return &InventorySvc{
		rooms:        rooms,
		roomTypes:    roomTypes,
		guests:       guests,
		services:     services,
		reservations: reservations,
		payments:     payments,
		consumptions: consumptions,
		clk:          clk,
	}
}

func (s *InventorySvc) CreateRoomType(ctx context.Context, t domain.RoomType) (*domain.RoomType, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Active = true
	if err := s.roomTypes.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *InventorySvc) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.roomTypes.List(ctx, false)
}

func (s *InventorySvc) CreateRoom(ctx context.Context, r domain.Room) (*domain.Room, error) {
	t, err := s.roomTypes.ByID(ctx, r.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFound(CodeRoomTypeNotFound, "room type %s does not exist", r.RoomTypeID)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = domain.RoomAvailable
	}
	r.Active = true
	if err := s.rooms.Create(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *InventorySvc) ListRooms(ctx context.Context, activeOnly bool) ([]domain.Room, error) {
	return s.rooms.List(ctx, activeOnly)
}

// SetRoomStatus is the inventory-side status override (maintenance, cleaning
// done, ...); stay-driven transitions go through check-in/check-out.
func (s *InventorySvc) SetRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus) (*domain.Room, error) {
	switch status {
	case domain.RoomAvailable, domain.RoomOccupied, domain.RoomCleaning, domain.RoomOutOfService:
	default:
		return nil, Invalid(CodeInvalidState, "unknown room status %q", status)
	}
	room, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFound(CodeRoomNotFound, "room %s does not exist", roomID)
	}
	room.Status = status
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *InventorySvc) CreateGuest(ctx context.Context, g domain.Guest) (*domain.Guest, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.RegisteredAt = s.clk.Now()
	if err := s.guests.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *InventorySvc) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	return s.guests.List(ctx)
}

func (s *InventorySvc) CreateService(ctx context.Context, sv domain.Service) (*domain.Service, error) {
	if sv.ID == "" {
		sv.ID = uuid.NewString()
	}
	sv.Active = true
	if err := s.services.Create(ctx, &sv); err != nil {
		return nil, err
	}
	return &sv, nil
}

func (s *InventorySvc) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx, true)
}

// RecordConsumption charges quantity × service price to an active stay.
func (s *InventorySvc) RecordConsumption(ctx context.Context, reservationID, serviceID string, quantity int) (*domain.ServiceConsumption, error) {
	if quantity <= 0 {
		quantity = 1
	}
	res, err := s.reservations.ByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", reservationID)
	}
	if res.State.Terminal() {
		return nil, InvalidState(CodeInvalidState,
			"services cannot be charged to a %s reservation", res.State)
	}
	sv, err := s.services.ByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NotFound(CodeServiceNotFound, "service %s does not exist", serviceID)
	}
	c := &domain.ServiceConsumption{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		ServiceID:     sv.ID,
		Quantity:      quantity,
		ConsumedAt:    s.clk.Now(),
		Subtotal:      sv.Price * float64(quantity),
	}
	if err := s.consumptions.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordPayment registers a payment taken at the front desk.
func (s *InventorySvc) RecordPayment(ctx context.Context, reservationID string, amount float64, method, reference string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, Invalid(CodeInvalidAmount, "payment amount must be positive")
	}
	res, err := s.reservations.ByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NotFound(CodeReservationNotFound, "reservation %s does not exist", reservationID)
	}
	p := &domain.Payment{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		Amount:        amount,
		PaidAt:        s.clk.Now(),
		Method:        method,
		Status:        domain.PaymentCompleted,
		Reference:     reference,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
