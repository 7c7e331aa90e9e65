package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// Order is a cart submitted against a table. It is mutated in place through
// its lifecycle and only removed by finalization or a booking reset.
type Order struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	TableNumber   int            `json:"table_number" gorm:"not null;index"`
	CustomerName  string         `json:"customer_name"`
	Total         float64        `json:"total" gorm:"not null"`
	Status        Status         `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string         `json:"payment_method"`
	PaymentID     string         `json:"payment_id"`
	ReservationID *uint          `json:"reservation_id" gorm:"index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one cart line with menu details denormalized at placement
// time so display and archival never re-join the catalog.
type OrderItem struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	OrderID      uint    `json:"order_id" gorm:"not null;index"`
	MenuID       uint    `json:"menu_id" gorm:"not null;index"`
	MenuName     string  `json:"menu_name" gorm:"not null"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price" gorm:"not null"`
	Quantity     int     `json:"quantity" gorm:"not null"`
	Note         string  `json:"note"`
}

func (OrderItem) TableName() string { return "order_items" }

// CompletedOrder is the append-only archive row written when an order
// finishes, decoupled from the live order so reporting never reads
// mutable state.
type CompletedOrder struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderID       uint      `json:"order_id" gorm:"not null;index"`
	TableNumber   int       `json:"table_number" gorm:"not null"`
	CustomerName  string    `json:"customer_name"`
	Total         float64   `json:"total" gorm:"not null"`
	PaymentMethod string    `json:"payment_method"`
	PaymentID     string    `json:"payment_id"`
	CompletedAt   time.Time `json:"completed_at" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at"`

	Items []CompletedOrderItem `json:"items" gorm:"foreignKey:CompletedOrderID"`
}

func (CompletedOrder) TableName() string { return "completed_orders" }

// CompletedOrderItem mirrors an OrderItem in the archive.
type CompletedOrderItem struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	CompletedOrderID uint    `json:"completed_order_id" gorm:"not null;index"`
	MenuID           uint    `json:"menu_id" gorm:"not null;index"`
	MenuName         string  `json:"menu_name" gorm:"not null"`
	CategoryName     string  `json:"category_name"`
	Price            float64 `json:"price" gorm:"not null"`
	Quantity         int     `json:"quantity" gorm:"not null"`
}

func (CompletedOrderItem) TableName() string { return "completed_order_items" }

// DataMeja is the transient marker that a table is currently occupied.
// Created on booking or ordering, deleted on reset and sweep.
type DataMeja struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TableNumber int       `json:"table_number" gorm:"not null;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DataMeja) TableName() string { return "data_mejas" }

// ResetResult reports what a booking reset removed, for event payloads.
type ResetResult struct {
	OrderID       uint  `json:"order_id"`
	TableNumber   int   `json:"table_number"`
	ReservationID *uint `json:"reservation_id,omitempty"`
}

// Outcome selects how an order leaves the live table.
type Outcome string

const (
	OutcomeArchived  Outcome = "archived"
	OutcomeDiscarded Outcome = "discarded"
)

// ParseOutcome validates a raw outcome string.
func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(raw) {
	case OutcomeArchived, OutcomeDiscarded:
		return Outcome(raw), nil
	default:
		return "", apperr.Validation("outcome must be archived or discarded")
	}
}

// OrderRepository is the persistence contract for the order lifecycle.
type OrderRepository interface {
	Create(order *Order) error
	FindByID(id uint) (*Order, error)
	FindAll(limit, offset int) ([]Order, error)
	FindByStatus(status Status) ([]Order, error)
	Update(order *Order) error
	CountOpen() (int64, error)

	// Archive copies the order and its items into the completed tables and
	// deletes the live order, in one transaction.
	Archive(order *Order, completedAt time.Time) (*CompletedOrder, error)
	// Discard deletes the live order and its items without archiving.
	Discard(orderID uint) error
	// ResetBooking deletes the order, its linked reservation and the
	// table's occupancy row in one all-or-nothing transaction.
	ResetBooking(orderID uint) (*ResetResult, error)

	OccupyTable(tableNumber int) error
	ReleaseTable(tableNumber int) error
	OccupiedTables() ([]DataMeja, error)
}
