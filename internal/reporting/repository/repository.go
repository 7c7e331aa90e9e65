package repository

import (
	"time"

	"gorm.io/gorm"

	orderdomain "github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// GormHistoryRepository reads the completed order archive for reporting.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new gorm-backed history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// CompletedOrdersBetween returns archived orders completed in [start, end),
// items included.
func (r *GormHistoryRepository) CompletedOrdersBetween(start, end time.Time) ([]orderdomain.CompletedOrder, error) {
	var orders []orderdomain.CompletedOrder
	err := r.db.
		Preload("Items").
		Where("completed_at >= ? AND completed_at < ?", start, end).
		Order("completed_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Persistence("load completed orders", err)
	}
	return orders, nil
}
