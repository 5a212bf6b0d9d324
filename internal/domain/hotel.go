package domain

import "time"

type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomOccupied     RoomStatus = "OCCUPIED"
	RoomCleaning     RoomStatus = "CLEANING"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

type RoomType struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex"`
	Description   string `gorm:"type:text"`
	Capacity      int
	PricePerNight float64
	Active        bool `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Room struct {
	ID         string `gorm:"primaryKey"`
	RoomTypeID string `gorm:"index"`
	Number     string `gorm:"uniqueIndex"`
	Floor      int
	Status     RoomStatus `gorm:"index"`
	Active     bool       `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID"`
}

type Guest struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string
	LastName     string
	Email        string `gorm:"index"`
	Phone        string
	Document     string `gorm:"index"`
	DocumentType string
	RegisteredAt time.Time
}

func (g Guest) FullName() string { return g.FirstName + " " + g.LastName }

// Service is a catalog entry for extras charged to a stay (spa, minibar, ...).
type Service struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description string `gorm:"type:text"`
	Price       float64
	Kind        string
	Active      bool `gorm:"default:true"`
}
