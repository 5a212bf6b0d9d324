package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/hotel-manager/internal/domain"
)

type GuestRepo struct {
	db *gorm.DB
}

func NewGuestRepo(db *gorm.DB) *GuestRepo {
	return &GuestRepo{db: db}
}

func (r *GuestRepo) ByID(ctx context.Context, id string) (*domain.Guest, error) {
	var g domain.Guest
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepo) List(ctx context.Context) ([]domain.Guest, error) {
	var out []domain.Guest
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GuestRepo) Create(ctx context.Context, g *domain.Guest) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(g).Error
}
