package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/hotel-manager/internal/domain"
)

type RoomTypeRepo struct {
	db *gorm.DB
}

func NewRoomTypeRepo(db *gorm.DB) *RoomTypeRepo {
	return &RoomTypeRepo{db: db}
}

func (r *RoomTypeRepo) ByID(ctx context.Context, id string) (*domain.RoomType, error) {
	var t domain.RoomType
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RoomTypeRepo) List(ctx context.Context, activeOnly bool) ([]domain.RoomType, error) {
	qb := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		qb = qb.Where("active = ?", true)
	}
	var out []domain.RoomType
	if err := qb.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RoomTypeRepo) Create(ctx context.Context, t *domain.RoomType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(t).Error
}
