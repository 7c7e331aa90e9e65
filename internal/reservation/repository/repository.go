package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// GormReservationRepository implements domain.ReservationRepository using GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new gorm-backed reservation repository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Reservation{})
}

func (r *GormReservationRepository) Create(reservation *domain.Reservation) error {
	if err := r.db.Create(reservation).Error; err != nil {
		return apperr.Persistence("create reservation", err)
	}
	return nil
}

func (r *GormReservationRepository) FindByID(id uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := r.db.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("reservation %d not found", id)
		}
		return nil, apperr.Persistence("find reservation", err)
	}
	return &reservation, nil
}

func (r *GormReservationRepository) FindByCode(code string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := r.db.Where("booking_code = ?", code).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("reservation with code %s not found", code)
		}
		return nil, apperr.Persistence("find reservation by code", err)
	}
	return &reservation, nil
}

func (r *GormReservationRepository) FindAll(limit, offset int) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.Order("date desc").Limit(limit).Offset(offset).Find(&reservations).Error
	if err != nil {
		return nil, apperr.Persistence("list reservations", err)
	}
	return reservations, nil
}

func (r *GormReservationRepository) Update(reservation *domain.Reservation) error {
	if err := r.db.Save(reservation).Error; err != nil {
		return apperr.Persistence("update reservation", err)
	}
	return nil
}

func (r *GormReservationRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Reservation{}, id)
	if result.Error != nil {
		return apperr.Persistence("delete reservation", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("reservation %d not found", id)
	}
	return nil
}

func (r *GormReservationRepository) FindExpired(now time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.
		Where("date < ?", now).
		Where("status IN ?", []domain.ReservationStatus{
			domain.StatusBooked, domain.StatusReserved, domain.StatusOccupied,
		}).
		Find(&reservations).Error
	if err != nil {
		return nil, apperr.Persistence("find expired reservations", err)
	}
	return reservations, nil
}
