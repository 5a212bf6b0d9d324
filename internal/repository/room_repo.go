package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/hotel-manager/internal/domain"
)

type RoomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func (r *RoomRepo) ByID(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Preload("RoomType").First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context, activeOnly bool) ([]domain.Room, error) {
	qb := r.db.WithContext(ctx).Preload("RoomType").Order("number ASC")
	if activeOnly {
		qb = qb.Where("active = ?", true)
	}
	var out []domain.Room
	if err := qb.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RoomRepo) Create(ctx context.Context, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepo) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"room_type_id": room.RoomTypeID,
			"number":       room.Number,
			"floor":        room.Floor,
			"status":       room.Status,
			"active":       room.Active,
		}).Error
}
