package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/hotel-manager/internal/domain"
)

type ServiceRepo struct {
	db *gorm.DB
}

func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) ByID(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) List(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	qb := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		qb = qb.Where("active = ?", true)
	}
	var out []domain.Service
	if err := qb.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

type ConsumptionRepo struct {
	db *gorm.DB
}

func NewConsumptionRepo(db *gorm.DB) *ConsumptionRepo {
	return &ConsumptionRepo{db: db}
}

func (r *ConsumptionRepo) ForReservation(ctx context.Context, reservationID string) ([]domain.ServiceConsumption, error) {
	var out []domain.ServiceConsumption
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("consumed_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConsumptionRepo) ForReservations(ctx context.Context, reservationIDs []string) ([]domain.ServiceConsumption, error) {
	if len(reservationIDs) == 0 {
		return nil, nil
	}
	var out []domain.ServiceConsumption
	err := r.db.WithContext(ctx).
		Where("reservation_id IN ?", reservationIDs).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConsumptionRepo) Create(ctx context.Context, c *domain.ServiceConsumption) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}
