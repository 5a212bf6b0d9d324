package service

import (
	"context"
	"testing"
	"time"

	"github.com/you/hotel-manager/internal/domain"
)

func TestOverlaps(t *testing.T) {
	d := func(day int) time.Time { return date(2026, time.March, day) }

	cases := []struct {
		name           string
		a1, a2, b1, b2 time.Time
		want           bool
	}{
		{"identical", d(1), d(5), d(1), d(5), true},
		{"contained", d(1), d(10), d(3), d(5), true},
		{"partial left", d(1), d(5), d(3), d(8), true},
		{"partial right", d(3), d(8), d(1), d(5), true},
		{"back to back", d(1), d(5), d(5), d(8), false},
		{"back to back reversed", d(5), d(8), d(1), d(5), false},
		{"disjoint", d(1), d(3), d(5), d(8), false},
		{"single shared night", d(1), d(5), d(4), d(6), true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a1, tc.a2, tc.b1, tc.b2); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasConflictIgnoresNonBlockingStates(t *testing.T) {
	rooms := newMemRooms()
	reservations := newMemReservations()
	avail := NewAvailability(rooms, reservations)

	reservations.items["r1"] = &domain.Reservation{
		ID: "r1", RoomID: "room-1", State: domain.StateCancelled,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 10),
	}
	reservations.items["r2"] = &domain.Reservation{
		ID: "r2", RoomID: "room-1", State: domain.StateCompleted,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 10),
	}

	conflict, err := avail.HasConflict(context.Background(), "room-1",
		date(2026, time.March, 2), date(2026, time.March, 4), "")
	if err != nil {
		t.Fatal(err)
	}
	if conflict {
		t.Error("cancelled and completed reservations must not block new dates")
	}
}

func TestHasConflictExcludesSelf(t *testing.T) {
	rooms := newMemRooms()
	reservations := newMemReservations()
	avail := NewAvailability(rooms, reservations)

	reservations.items["r1"] = &domain.Reservation{
		ID: "r1", RoomID: "room-1", State: domain.StateConfirmed,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 10),
	}

	conflict, err := avail.HasConflict(context.Background(), "room-1",
		date(2026, time.March, 2), date(2026, time.March, 4), "r1")
	if err != nil {
		t.Fatal(err)
	}
	if conflict {
		t.Error("a reservation must not conflict with itself when rescheduling")
	}
}

func TestAvailableRoomsFiltersStatusAndConflicts(t *testing.T) {
	rooms := newMemRooms()
	reservations := newMemReservations()
	avail := NewAvailability(rooms, reservations)

	rooms.items["free"] = &domain.Room{ID: "free", Number: "101", Status: domain.RoomAvailable, Active: true, RoomTypeID: "std"}
	rooms.items["busy"] = &domain.Room{ID: "busy", Number: "102", Status: domain.RoomAvailable, Active: true, RoomTypeID: "std"}
	rooms.items["dirty"] = &domain.Room{ID: "dirty", Number: "103", Status: domain.RoomCleaning, Active: true, RoomTypeID: "std"}
	rooms.items["closed"] = &domain.Room{ID: "closed", Number: "104", Status: domain.RoomAvailable, Active: false, RoomTypeID: "std"}

	reservations.items["r1"] = &domain.Reservation{
		ID: "r1", RoomID: "busy", State: domain.StateConfirmed,
		CheckIn: date(2026, time.March, 1), CheckOut: date(2026, time.March, 10),
	}

	got, err := avail.AvailableRooms(context.Background(),
		date(2026, time.March, 2), date(2026, time.March, 4), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "free" {
		t.Fatalf("expected only room 101 to be free, got %v", got)
	}
}
