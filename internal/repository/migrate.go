package repository

import (
	"gorm.io/gorm"

	"github.com/you/hotel-manager/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.RoomType{},
		&domain.Room{},
		&domain.Guest{},
		&domain.Service{},
		&domain.Reservation{},
		&domain.Payment{},
		&domain.ServiceConsumption{},
		&domain.EventConsumed{},
	)
}
