package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	resdomain "github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Order{},
		&domain.OrderItem{},
		&domain.CompletedOrder{},
		&domain.CompletedOrderItem{},
		&domain.DataMeja{},
	)
}

func (r *GormOrderRepository) Create(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) FindByStatus(status domain.Status) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").
		Where("status = ?", status).
		Order("created_at").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) Update(order *domain.Order) error {
	return r.db.Save(order).Error
}

func (r *GormOrderRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Order{}).
		Where("status IN ?", []domain.Status{domain.StatusPending, domain.StatusProcessing, domain.StatusPaid}).
		Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) Archive(order *domain.Order, completedAt time.Time) (*domain.CompletedOrder, error) {
	completed := &domain.CompletedOrder{
		OrderID:       order.ID,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		PaymentID:     order.PaymentID,
		CompletedAt:   completedAt,
	}
	for _, item := range order.Items {
		completed.Items = append(completed.Items, domain.CompletedOrderItem{
			MenuID:       item.MenuID,
			MenuName:     item.MenuName,
			CategoryName: item.CategoryName,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(completed).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (r *GormOrderRepository) Discard(orderID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, orderID).Error
	})
}

// ResetBooking removes the order, its linked reservation and the matching
// table occupancy row in one transaction, so no partial deletion is ever
// visible to readers.
func (r *GormOrderRepository) ResetBooking(orderID uint) (*domain.ResetResult, error) {
	var result *domain.ResetResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", orderID)
			}
			return err
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Order{}, orderID).Error; err != nil {
			return err
		}

		if order.ReservationID != nil {
			if err := tx.Delete(&resdomain.Reservation{}, *order.ReservationID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("table_number = ?", order.TableNumber).Delete(&domain.DataMeja{}).Error; err != nil {
			return err
		}

		result = &domain.ResetResult{
			OrderID:       order.ID,
			TableNumber:   order.TableNumber,
			ReservationID: order.ReservationID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *GormOrderRepository) OccupyTable(tableNumber int) error {
	var existing domain.DataMeja
	err := r.db.Where("table_number = ?", tableNumber).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&domain.DataMeja{TableNumber: tableNumber}).Error
}

func (r *GormOrderRepository) ReleaseTable(tableNumber int) error {
	return r.db.Where("table_number = ?", tableNumber).Delete(&domain.DataMeja{}).Error
}

func (r *GormOrderRepository) OccupiedTables() ([]domain.DataMeja, error) {
	var tables []domain.DataMeja
	if err := r.db.Order("table_number asc").Find(&tables).Error; err != nil {
		return nil, apperr.Persistence("list occupied tables", err)
	}
	return tables, nil
}
