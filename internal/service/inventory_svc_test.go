package service

import (
	"context"
	"testing"
	"time"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/pkg/clock"
)

func newInventoryFixture(now time.Time) (*engineFixture, *InventorySvc) {
	f := newFixture(now)
	inv := NewInventorySvc(f.rooms, f.roomTypes, f.guests, f.services,
		f.reservations, f.payments, f.consumptions, clock.Fixed{T: now})
	return f, inv
}

func TestCreateRoomRequiresKnownType(t *testing.T) {
	_, inv := newInventoryFixture(date(2026, time.March, 1))

	_, err := inv.CreateRoom(context.Background(), domain.Room{RoomTypeID: "nope", Number: "201"})
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}

	room, err := inv.CreateRoom(context.Background(), domain.Room{RoomTypeID: "std", Number: "201"})
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != domain.RoomAvailable {
		t.Errorf("new room status = %s, want AVAILABLE", room.Status)
	}
	if room.ID == "" {
		t.Error("room id not assigned")
	}
}

func TestSetRoomStatusValidatesValue(t *testing.T) {
	f, inv := newInventoryFixture(date(2026, time.March, 1))

	if _, err := inv.SetRoomStatus(context.Background(), "room-1", "BROKEN"); !IsInvalid(err) {
		t.Errorf("unknown status: err = %v, want invalid", err)
	}

	room, err := inv.SetRoomStatus(context.Background(), "room-1", domain.RoomOutOfService)
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != domain.RoomOutOfService {
		t.Errorf("status = %s", room.Status)
	}
	stored, _ := f.rooms.ByID(context.Background(), "room-1")
	if stored.Status != domain.RoomOutOfService {
		t.Errorf("stored status = %s", stored.Status)
	}
}

func TestRecordConsumption(t *testing.T) {
	f, inv := newInventoryFixture(date(2026, time.March, 1))
	f.services.items["spa"] = &domain.Service{ID: "spa", Name: "Spa", Price: 30, Active: true}
	f.reservations.items["r1"] = &domain.Reservation{
		ID: "r1", GuestID: "g1", RoomID: "room-1", State: domain.StateInProgress,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 5),
	}

	c, err := inv.RecordConsumption(context.Background(), "r1", "spa", 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Subtotal != 60 {
		t.Errorf("subtotal = %v, want 60", c.Subtotal)
	}

	// quantity defaults to 1
	c, err = inv.RecordConsumption(context.Background(), "r1", "spa", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Quantity != 1 || c.Subtotal != 30 {
		t.Errorf("quantity=%d subtotal=%v, want 1 and 30", c.Quantity, c.Subtotal)
	}

	if _, err := inv.RecordConsumption(context.Background(), "r1", "nope", 1); !IsNotFound(err) {
		t.Errorf("unknown service: err = %v, want not found", err)
	}
}

func TestRecordConsumptionRejectsTerminalStates(t *testing.T) {
	f, inv := newInventoryFixture(date(2026, time.March, 1))
	f.services.items["spa"] = &domain.Service{ID: "spa", Name: "Spa", Price: 30, Active: true}
	f.reservations.items["r1"] = &domain.Reservation{
		ID: "r1", State: domain.StateCompleted,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 5),
	}

	if _, err := inv.RecordConsumption(context.Background(), "r1", "spa", 1); !IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}
}

func TestRecordPayment(t *testing.T) {
	f, inv := newInventoryFixture(date(2026, time.March, 1))
	f.reservations.items["r1"] = &domain.Reservation{
		ID: "r1", State: domain.StateInProgress,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 5),
	}

	if _, err := inv.RecordPayment(context.Background(), "r1", 0, "CASH", ""); !IsInvalid(err) {
		t.Errorf("zero amount: err = %v, want invalid", err)
	}
	if _, err := inv.RecordPayment(context.Background(), "r1", -5, "CASH", ""); !IsInvalid(err) {
		t.Errorf("negative amount: err = %v, want invalid", err)
	}

	p, err := inv.RecordPayment(context.Background(), "r1", 120.50, "CARD", "ch_123")
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != domain.PaymentCompleted {
		t.Errorf("status = %s, want COMPLETED", p.Status)
	}
	if p.Amount != 120.50 || p.Reference != "ch_123" {
		t.Errorf("payment = %+v", p)
	}
}
