package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/pkg/clock"
)

type OccupancyByType struct {
	RoomType  string  `json:"room_type"`
	Total     int     `json:"total"`
	Occupied  int     `json:"occupied"`
	Occupancy float64 `json:"occupancy_pct"`
}

type OccupancyReport struct {
	From           time.Time         `json:"from"`
	To             time.Time         `json:"to"`
	TotalRooms     int               `json:"total_rooms"`
	OccupiedRooms  int               `json:"occupied_rooms"`
	AvailableRooms int               `json:"available_rooms"`
	Occupancy      float64           `json:"occupancy_pct"`
	ByType         []OccupancyByType `json:"by_type"`
}

type RevenueByType struct {
	RoomType     string  `json:"room_type"`
	Reservations int     `json:"reservations"`
	Revenue      float64 `json:"revenue"`
}

type RevenueByDay struct {
	Date         time.Time `json:"date"`
	Reservations int       `json:"reservations"`
	Revenue      float64   `json:"revenue"`
}

type FinancialReport struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	TotalReservations int             `json:"total_reservations"`
	RevenueTotal      float64         `json:"revenue_total"`
	RevenueRooms      float64         `json:"revenue_rooms"`
	RevenueServices   float64         `json:"revenue_services"`
	AvgPerReservation float64         `json:"avg_per_reservation"`
	ByType            []RevenueByType `json:"by_room_type"`
	ByDay             []RevenueByDay  `json:"by_day"`
}

type FrequentGuest struct {
	GuestID      string    `json:"guest_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Reservations int       `json:"reservations"`
	TotalSpent   float64   `json:"total_spent"`
	LastBookedAt time.Time `json:"last_booked_at"`
}

type StateCount struct {
	State domain.ReservationState `json:"state"`
	Count int                     `json:"count"`
	Pct   float64                 `json:"pct"`
}

type GuestReport struct {
	TotalGuests            int             `json:"total_guests"`
	GuestsWithReservations int             `json:"guests_with_reservations"`
	FrequentGuests         []FrequentGuest `json:"frequent_guests"`
	ByState                []StateCount    `json:"by_state"`
}

// ReportSvc computes derived, read-only views over the reservation, room and
// payment collections.
type ReportSvc struct {
	rooms        RoomStore
	roomTypes    RoomTypeStore
	guests       GuestStore
	reservations ReservationStore
	consumptions ConsumptionStore
	clk          clock.Clock
}

func NewReportSvc(
	rooms RoomStore,
	roomTypes RoomTypeStore,
	guests GuestStore,
	reservations ReservationStore,
	consumptions ConsumptionStore,
	clk clock.Clock,
) *ReportSvc {
	return &ReportSvc{
		rooms:        rooms,
		roomTypes:    roomTypes,
		guests:       guests,
		reservations: reservations,
		consumptions: consumptions,
		clk:          clk,
	}
}

// Occupancy reports room usage over [from, to] (calendar dates, inclusive).
// Both bounds default to the current month. A room counts as occupied when a
// Confirmed or InProgress reservation intersects the period under the same
// half-open rule the availability checker uses.
func (s *ReportSvc) Occupancy(ctx context.Context, from, to *time.Time) (*OccupancyReport, error) {
	start, end := s.defaultPeriod(from, to)
	// the store predicate is half-open, so push the exclusive bound one day
	// past the inclusive end date
	periodEnd := end.AddDate(0, 0, 1)

	rooms, err := s.rooms.List(ctx, true)
	if err != nil {
		return nil, err
	}

	inRange, err := s.reservations.InRange(ctx, start, periodEnd)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool)
	for i := range inRange {
		r := inRange[i]
		if r.State == domain.StateConfirmed || r.State == domain.StateInProgress {
			occupied[r.RoomID] = true
		}
	}

	occupiedCount := 0
	for i := range rooms {
		if occupied[rooms[i].ID] {
			occupiedCount++
		}
	}

	types, err := s.roomTypes.List(ctx, true)
	if err != nil {
		return nil, err
	}
	byType := make([]OccupancyByType, 0, len(types))
	for _, t := range types {
		total, occ := 0, 0
		for i := range rooms {
			if rooms[i].RoomTypeID != t.ID {
				continue
			}
			total++
			if occupied[rooms[i].ID] {
				occ++
			}
		}
		byType = append(byType, OccupancyByType{
			RoomType:  t.Name,
			Total:     total,
			Occupied:  occ,
			Occupancy: pct(occ, total),
		})
	}

	return &OccupancyReport{
		From:           start,
		To:             end,
		TotalRooms:     len(rooms),
		OccupiedRooms:  occupiedCount,
		AvailableRooms: len(rooms) - occupiedCount,
		Occupancy:      pct(occupiedCount, len(rooms)),
		ByType:         byType,
	}, nil
}

// Financial aggregates revenue for reservations booked within [from, to]
// (by creation date, not stay dates), excluding cancelled ones.
func (s *ReportSvc) Financial(ctx context.Context, from, to time.Time) (*FinancialReport, error) {
	from = clock.DateOf(from)
	toExclusive := clock.DateOf(to).AddDate(0, 0, 1)

	all, _, err := s.reservations.List(ctx, ReservationFilter{})
	if err != nil {
		return nil, err
	}
	var inScope []domain.Reservation
	for i := range all {
		r := all[i]
		booked := clock.DateOf(r.BookedAt)
		if r.State == domain.StateCancelled {
			continue
		}
		if booked.Before(from) || !booked.Before(toExclusive) {
			continue
		}
		inScope = append(inScope, r)
	}

	var roomsRevenue float64
	ids := make([]string, 0, len(inScope))
	for i := range inScope {
		roomsRevenue += inScope[i].TotalAmount
		ids = append(ids, inScope[i].ID)
	}

	var servicesRevenue float64
	if len(ids) > 0 {
		consumptions, err := s.consumptions.ForReservations(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range consumptions {
			servicesRevenue += consumptions[i].Subtotal
		}
	}

	total := roomsRevenue + servicesRevenue
	avg := 0.0
	if len(inScope) > 0 {
		avg = total / float64(len(inScope))
	}

	typeNames := make(map[string]string)
	types, err := s.roomTypes.List(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}

	byTypeAgg := make(map[string]*RevenueByType)
	byDayAgg := make(map[time.Time]*RevenueByDay)
	for i := range inScope {
		r := inScope[i]
		name := typeNames[r.RoomTypeID]
		if name == "" {
			name = r.RoomTypeID
		}
		if _, ok := byTypeAgg[name]; !ok {
			byTypeAgg[name] = &RevenueByType{RoomType: name}
		}
		byTypeAgg[name].Reservations++
		byTypeAgg[name].Revenue += r.TotalAmount

		day := clock.DateOf(r.BookedAt)
		if _, ok := byDayAgg[day]; !ok {
			byDayAgg[day] = &RevenueByDay{Date: day}
		}
		byDayAgg[day].Reservations++
		byDayAgg[day].Revenue += r.TotalAmount
	}

	byType := make([]RevenueByType, 0, len(byTypeAgg))
	for _, v := range byTypeAgg {
		byType = append(byType, *v)
	}
	sort.Slice(byType, func(i, j int) bool {
		if byType[i].Revenue != byType[j].Revenue {
			return byType[i].Revenue > byType[j].Revenue
		}
		return byType[i].RoomType < byType[j].RoomType
	})

	byDay := make([]RevenueByDay, 0, len(byDayAgg))
	for _, v := range byDayAgg {
		byDay = append(byDay, *v)
	}
	sort.Slice(byDay, func(i, j int) bool { return byDay[i].Date.Before(byDay[j].Date) })

	return &FinancialReport{
		From:              from,
		To:                clock.DateOf(to),
		TotalReservations: len(inScope),
		RevenueTotal:      round2(total),
		RevenueRooms:      round2(roomsRevenue),
		RevenueServices:   round2(servicesRevenue),
		AvgPerReservation: round2(avg),
		ByType:            byType,
		ByDay:             byDay,
	}, nil
}

// Guests summarizes guest activity: top-10 frequent guests and the state mix
// of the whole reservation book.
func (s *ReportSvc) Guests(ctx context.Context) (*GuestReport, error) {
	guests, err := s.guests.List(ctx)
	if err != nil {
		return nil, err
	}
	all, _, err := s.reservations.List(ctx, ReservationFilter{})
	if err != nil {
		return nil, err
	}

	byGuest := make(map[string]*FrequentGuest)
	for i := range all {
		r := all[i]
		fg, ok := byGuest[r.GuestID]
		if !ok {
			fg = &FrequentGuest{GuestID: r.GuestID}
			byGuest[r.GuestID] = fg
		}
		fg.Reservations++
		fg.TotalSpent += r.TotalAmount
		if r.BookedAt.After(fg.LastBookedAt) {
			fg.LastBookedAt = r.BookedAt
		}
	}
	for _, g := range guests {
		if fg, ok := byGuest[g.ID]; ok {
			fg.Name = g.FullName()
			fg.Email = g.Email
		}
	}

	frequent := make([]FrequentGuest, 0, len(byGuest))
	for _, fg := range byGuest {
		frequent = append(frequent, *fg)
	}
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].Reservations != frequent[j].Reservations {
			return frequent[i].Reservations > frequent[j].Reservations
		}
		return frequent[i].GuestID < frequent[j].GuestID
	})
	if len(frequent) > 10 {
		frequent = frequent[:10]
	}

	stateCounts := make(map[domain.ReservationState]int)
	for i := range all {
		stateCounts[all[i].State]++
	}
	byState := make([]StateCount, 0, len(stateCounts))
	for st, n := range stateCounts {
		byState = append(byState, StateCount{State: st, Count: n, Pct: pct(n, len(all))})
	}
	sort.Slice(byState, func(i, j int) bool {
		if byState[i].Count != byState[j].Count {
			return byState[i].Count > byState[j].Count
		}
		return byState[i].State < byState[j].State
	})

	return &GuestReport{
		TotalGuests:            len(guests),
		GuestsWithReservations: len(byGuest),
		FrequentGuests:         frequent,
		ByState:                byState,
	}, nil
}

func (s *ReportSvc) defaultPeriod(from, to *time.Time) (time.Time, time.Time) {
	if from != nil && to != nil {
		return clock.DateOf(*from), clock.DateOf(*to)
	}
	now := s.clk.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	if from != nil {
		start = clock.DateOf(*from)
	}
	if to != nil {
		end = clock.DateOf(*to)
	}
	return start, end
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
