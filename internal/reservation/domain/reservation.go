package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// ReservationStatus is the closed booking state set.
type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "BOOKED"
	StatusReserved  ReservationStatus = "RESERVED"
	StatusOccupied  ReservationStatus = "OCCUPIED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

// ParseStatus validates a raw reservation status string.
func ParseStatus(raw string) (ReservationStatus, error) {
	switch s := ReservationStatus(raw); s {
	case StatusBooked, StatusReserved, StatusOccupied, StatusCompleted:
		return s, nil
	default:
		return "", apperr.Validation("unknown reservation status %q", raw)
	}
}

// Active reports whether the reservation still holds its table.
func (s ReservationStatus) Active() bool {
	return s == StatusBooked || s == StatusReserved || s == StatusOccupied
}

// Reservation is a table booking.
type Reservation struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	CustomerName    string            `json:"customer_name" gorm:"not null"`
	CustomerPhone   string            `json:"customer_phone"`
	Date            time.Time         `json:"date" gorm:"not null;index"`
	PartySize       int               `json:"party_size" gorm:"not null"`
	DurationMinutes int               `json:"duration_minutes" gorm:"not null;default:90"`
	TableNumber     int               `json:"table_number" gorm:"not null;index"`
	BookingCode     string            `json:"booking_code" gorm:"not null;uniqueIndex"`
	Status          ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'BOOKED'"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `json:"-" gorm:"index"`
}

func (Reservation) TableName() string { return "reservations" }

// ReservationRepository is the persistence contract for bookings.
type ReservationRepository interface {
	Create(reservation *Reservation) error
	FindByID(id uint) (*Reservation, error)
	FindByCode(code string) (*Reservation, error)
	FindAll(limit, offset int) ([]Reservation, error)
	Update(reservation *Reservation) error
	Delete(id uint) error
	// FindExpired returns reservations dated before now whose status is
	// still active.
	FindExpired(now time.Time) ([]Reservation, error)
}
