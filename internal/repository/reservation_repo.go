package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/internal/service"
)

var blockingStates = []domain.ReservationState{
	domain.StatePending,
	domain.StateConfirmed,
	domain.StateInProgress,
}

type ReservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) ByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.one(ctx, "id = ?", id)
}

func (r *ReservationRepo) ByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return r.one(ctx, "code = ?", code)
}

func (r *ReservationRepo) one(ctx context.Context, query string, arg any) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").Preload("Room").Preload("RoomType").
		First(&res, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepo) List(ctx context.Context, f service.ReservationFilter) ([]domain.Reservation, int64, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Reservation{})
	if f.State != "" {
		qb = qb.Where("state = ?", f.State)
	}
	if f.GuestID != "" {
		qb = qb.Where("guest_id = ?", f.GuestID)
	}
	if f.CheckInFrom != nil {
		qb = qb.Where("check_in >= ?", *f.CheckInFrom)
	}
	if f.CheckOutTo != nil {
		qb = qb.Where("check_out <= ?", *f.CheckOutTo)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	qb = qb.Preload("Guest").Preload("Room").Preload("RoomType").
		Order("check_in ASC, code ASC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 0 {
			page = 0
		}
		qb = qb.Limit(f.PageSize).Offset(page * f.PageSize)
	}
	var out []domain.Reservation
	if err := qb.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ReservationRepo) ByStates(ctx context.Context, states ...domain.ReservationState) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").Preload("Room").Preload("RoomType").
		Where("state IN ?", states).
		Order("check_in ASC, code ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationRepo) InRange(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("check_in < ? AND check_out > ?", to, from).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationRepo) BlockingForRoom(ctx context.Context, roomID, excludeID string) ([]domain.Reservation, error) {
	qb := r.db.WithContext(ctx).
		Where("room_id = ? AND state IN ?", roomID, blockingStates)
	if excludeID != "" {
		qb = qb.Where("id <> ?", excludeID)
	}
	var out []domain.Reservation
	if err := qb.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create runs in a transaction and prevents overlapping reservations by
// locking candidate rows, so two concurrent creates for the same room and
// dates cannot both commit.
func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Reservation
		err := tx.Model(&domain.Reservation{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND state IN ?", res.RoomID, blockingStates).
			Where("check_in < ? AND check_out > ?", res.CheckOut, res.CheckIn).
			Take(&existing).Error
		if err == nil {
			return domain.ErrDateOverlap
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if res.ID == "" {
			res.ID = uuid.NewString()
		}
		if err := tx.Create(res).Error; err != nil {
			// The only unique index on reservations is code, so a
			// duplicate here means a concurrent create claimed it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrCodeTaken
			}
			return err
		}
		return nil
	})
}

func (r *ReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).
		Omit("Guest", "Room", "RoomType").
		Save(res).Error
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Reservation{}, "id = ?", id).Error
}

// LastCodeSeq reads the highest RES-YYYY-NNNN sequence on file for the year.
// Zero-padded sequences sort lexicographically, so ordering by code is enough.
func (r *ReservationRepo) LastCodeSeq(ctx context.Context, year int) (int64, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&domain.Reservation{}).
		Where("code LIKE ?", fmt.Sprintf("RES-%d-%%", year)).
		Order("code DESC").Limit(1).
		Pluck("code", &codes).Error
	if err != nil || len(codes) == 0 {
		return 0, err
	}
	return codeSeq(codes[0]), nil
}

// codeSeq extracts the numeric suffix of a RES-YYYY-NNNN code, 0 when malformed.
func codeSeq(code string) int64 {
	i := strings.LastIndexByte(code, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseInt(code[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SaveCheckIn writes the reservation and room in one transaction, taking a
// row lock on the room and re-verifying it is still Available so concurrent
// check-ins against the same room cannot both occupy it.
func (r *ReservationRepo) SaveCheckIn(ctx context.Context, res *domain.Reservation, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", room.ID).Error; err != nil {
			return err
		}
		if current.Status != domain.RoomAvailable {
			return domain.ErrRoomNotAvailable
		}
		if err := tx.Model(&domain.Room{}).
			Where("id = ?", room.ID).
			Update("status", room.Status).Error; err != nil {
			return err
		}
		return tx.Omit("Guest", "Room", "RoomType").Save(res).Error
	})
}

// SaveCheckOut writes the reservation and, when room is non-nil, the room in
// the same transaction.
func (r *ReservationRepo) SaveCheckOut(ctx context.Context, res *domain.Reservation, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if room != nil {
			if err := tx.Model(&domain.Room{}).
				Where("id = ?", room.ID).
				Update("status", room.Status).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Guest", "Room", "RoomType").Save(res).Error
	})
}

// RecordPaymentIfNotProcessed is used when consuming payment.completed
// events: it records the payment and confirms a still-pending reservation,
// skipping events that were already processed.
func (r *ReservationRepo) RecordPaymentIfNotProcessed(ctx context.Context, reservationID, eventID string, p *domain.Payment) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&domain.EventConsumed{}).
			Where("id = ?", eventID).Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			return tx.First(&res, "id = ?", reservationID).Error
		}

		if err := tx.First(&res, "id = ?", reservationID).Error; err != nil {
			return err
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.ReservationID = res.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if res.State == domain.StatePending {
			res.State = domain.StateConfirmed
			if err := tx.Save(&res).Error; err != nil {
				return err
			}
		}
		rec := domain.EventConsumed{ID: eventID, EventKey: "payment.completed", ProcessedAt: time.Now().UTC()}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
