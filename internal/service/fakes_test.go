package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/you/hotel-manager/internal/domain"
)

// In-memory store fakes used across the engine tests. They honor the port
// contracts: lookups return (nil, nil) when absent, Create enforces the
// overlap invariant, SaveCheckIn re-verifies room availability.

type memRooms struct {
	items map[string]*domain.Room
}

func newMemRooms() *memRooms { return &memRooms{items: map[string]*domain.Room{}} }

func (m *memRooms) ByID(_ context.Context, id string) (*domain.Room, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memRooms) List(_ context.Context, activeOnly bool) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range m.items {
		if activeOnly && !r.Active {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memRooms) Create(_ context.Context, r *domain.Room) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRooms) Update(_ context.Context, r *domain.Room) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

type memRoomTypes struct {
	items map[string]*domain.RoomType
}

func newMemRoomTypes() *memRoomTypes { return &memRoomTypes{items: map[string]*domain.RoomType{}} }

func (m *memRoomTypes) ByID(_ context.Context, id string) (*domain.RoomType, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memRoomTypes) List(_ context.Context, activeOnly bool) ([]domain.RoomType, error) {
	var out []domain.RoomType
	for _, t := range m.items {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRoomTypes) Create(_ context.Context, t *domain.RoomType) error {
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

type memGuests struct {
	items map[string]*domain.Guest
}

func newMemGuests() *memGuests { return &memGuests{items: map[string]*domain.Guest{}} }

func (m *memGuests) ByID(_ context.Context, id string) (*domain.Guest, error) {
	g, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *memGuests) List(_ context.Context) ([]domain.Guest, error) {
	var out []domain.Guest
	for _, g := range m.items {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memGuests) Create(_ context.Context, g *domain.Guest) error {
	cp := *g
	m.items[g.ID] = &cp
	return nil
}

type memReservations struct {
	items map[string]*domain.Reservation
	// rooms receives the room writes of SaveCheckIn/SaveCheckOut, standing in
	// for the shared transaction of the real store.
	rooms *memRooms
	// raceCodes lists codes a rival create will claim first; see Create.
	raceCodes map[string]bool
}

func newMemReservations() *memReservations {
	return &memReservations{
		items:     map[string]*domain.Reservation{},
		raceCodes: map[string]bool{},
	}
}

func (m *memReservations) ByID(_ context.Context, id string) (*domain.Reservation, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memReservations) ByCode(_ context.Context, code string) (*domain.Reservation, error) {
	for _, r := range m.items {
		if r.Code == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memReservations) all() []domain.Reservation {
	out := make([]domain.Reservation, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func (m *memReservations) List(_ context.Context, f ReservationFilter) ([]domain.Reservation, int64, error) {
	var matched []domain.Reservation
	for _, r := range m.all() {
		if f.State != "" && r.State != f.State {
			continue
		}
		if f.GuestID != "" && r.GuestID != f.GuestID {
			continue
		}
		if f.CheckInFrom != nil && r.CheckIn.Before(*f.CheckInFrom) {
			continue
		}
		if f.CheckOutTo != nil && r.CheckOut.After(*f.CheckOutTo) {
			continue
		}
		matched = append(matched, r)
	}
	total := int64(len(matched))
	if f.PageSize > 0 {
		start := f.Page * f.PageSize
		if start > len(matched) {
			start = len(matched)
		}
		end := start + f.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (m *memReservations) ByStates(_ context.Context, states ...domain.ReservationState) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.all() {
		for _, s := range states {
			if r.State == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memReservations) InRange(_ context.Context, from, to time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.all() {
		if r.CheckIn.Before(to) && from.Before(r.CheckOut) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReservations) BlockingForRoom(_ context.Context, roomID, excludeID string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.all() {
		if r.RoomID != roomID || !r.State.Blocking() {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memReservations) Create(_ context.Context, r *domain.Reservation) error {
	for _, existing := range m.items {
		if existing.RoomID != r.RoomID || !existing.State.Blocking() {
			continue
		}
		if existing.CheckIn.Before(r.CheckOut) && r.CheckIn.Before(existing.CheckOut) {
			return domain.ErrDateOverlap
		}
	}
	// raceCodes simulates another transaction committing the same code
	// between the sequence read and the insert: the competing row appears
	// and this create loses on the unique index.
	if m.raceCodes[r.Code] {
		delete(m.raceCodes, r.Code)
		rival := domain.Reservation{
			ID:       "rival-" + r.Code,
			Code:     r.Code,
			RoomID:   "rival-room",
			State:    domain.StateConfirmed,
			BookedAt: r.BookedAt,
		}
		m.items[rival.ID] = &rival
		return domain.ErrCodeTaken
	}
	for _, existing := range m.items {
		if existing.Code == r.Code {
			return domain.ErrCodeTaken
		}
	}
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memReservations) Update(_ context.Context, r *domain.Reservation) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memReservations) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memReservations) LastCodeSeq(_ context.Context, year int) (int64, error) {
	prefix := fmt.Sprintf("RES-%d-", year)
	var max int64
	for _, r := range m.items {
		if !strings.HasPrefix(r.Code, prefix) {
			continue
		}
		n, err := strconv.ParseInt(r.Code[len(prefix):], 10, 64)
		if err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (m *memReservations) SaveCheckIn(_ context.Context, res *domain.Reservation, room *domain.Room) error {
	if current, ok := m.rooms.items[room.ID]; ok && current.Status != domain.RoomAvailable {
		return domain.ErrRoomNotAvailable
	}
	rc := *room
	m.rooms.items[room.ID] = &rc
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

func (m *memReservations) SaveCheckOut(_ context.Context, res *domain.Reservation, room *domain.Room) error {
	if room != nil {
		rc := *room
		m.rooms.items[room.ID] = &rc
	}
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

type memPayments struct {
	items []domain.Payment
}

func (m *memPayments) ForReservation(_ context.Context, reservationID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.items {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) Create(_ context.Context, p *domain.Payment) error {
	m.items = append(m.items, *p)
	return nil
}

type memConsumptions struct {
	items []domain.ServiceConsumption
}

func (m *memConsumptions) ForReservation(_ context.Context, reservationID string) ([]domain.ServiceConsumption, error) {
	var out []domain.ServiceConsumption
	for _, c := range m.items {
		if c.ReservationID == reservationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memConsumptions) ForReservations(_ context.Context, ids []string) ([]domain.ServiceConsumption, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.ServiceConsumption
	for _, c := range m.items {
		if want[c.ReservationID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memConsumptions) Create(_ context.Context, c *domain.ServiceConsumption) error {
	m.items = append(m.items, *c)
	return nil
}

type memServices struct {
	items map[string]*domain.Service
}

func newMemServices() *memServices { return &memServices{items: map[string]*domain.Service{}} }

func (m *memServices) ByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memServices) List(_ context.Context, activeOnly bool) ([]domain.Service, error) {
	var out []domain.Service
	for _, s := range m.items {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memServices) Create(_ context.Context, s *domain.Service) error {
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

// capturePublisher records published events so tests can assert on routing
// keys and payloads.
type capturePublisher struct {
	keys   []string
	values []any
}

func (p *capturePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	p.values = append(p.values, v)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
