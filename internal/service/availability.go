package service

import (
	"context"
	"sort"
	"time"

	"github.com/you/hotel-manager/internal/domain"
)

// Overlaps reports whether the half-open date ranges [a1,a2) and [b1,b2)
// share at least one night. A stay ending exactly when another starts does
// not overlap, so back-to-back bookings are allowed.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Availability answers "is this room free for these dates" for both the
// lifecycle engine and the check-in/out processor.
type Availability struct {
	rooms        RoomStore
	reservations ReservationStore
}

func NewAvailability(rooms RoomStore, reservations ReservationStore) *Availability {
	return &Availability{rooms: rooms, reservations: reservations}
}

// HasConflict reports whether any blocking reservation for the room overlaps
// [from, to). excludeID skips one reservation, for date changes on an
// existing booking.
func (a *Availability) HasConflict(ctx context.Context, roomID string, from, to time.Time, excludeID string) (bool, error) {
	existing, err := a.reservations.BlockingForRoom(ctx, roomID, excludeID)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if Overlaps(existing[i].CheckIn, existing[i].CheckOut, from, to) {
			return true, nil
		}
	}
	return false, nil
}

// AvailableRooms lists active rooms in Available status with no conflicting
// reservation for [from, to), optionally narrowed to one room type. The
// result is ordered by room number.
func (a *Availability) AvailableRooms(ctx context.Context, from, to time.Time, roomTypeID string) ([]domain.Room, error) {
	rooms, err := a.rooms.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(rooms))
	for i := range rooms {
		room := rooms[i]
		if room.Status != domain.RoomAvailable {
			continue
		}
		if roomTypeID != "" && room.RoomTypeID != roomTypeID {
			continue
		}
		conflict, err := a.HasConflict(ctx, room.ID, from, to, "")
		if err != nil {
			return nil, err
		}
		if !conflict {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
