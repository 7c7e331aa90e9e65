//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/delivery/http"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/order/repository"
	"github.com/obeddx/notarichCafe-sub002/internal/order/usecase/command"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideMenuCatalog provides the catalog lookup used at placement time
func ProvideMenuCatalog(db *gorm.DB) command.MenuCatalog {
	return repository.NewGormMenuCatalog(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideMenuCatalog,
)

var CommandSet = wire.NewSet(
	command.NewPlaceOrderHandler,
	command.NewConfirmPaymentHandler,
	command.NewFinalizeOrderHandler,
	command.NewResetBookingHandler,
)

// InitializeHTTPHandler initializes the order HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, pub events.Publisher) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		http.NewOrderHandler,
	)
	return nil, nil
}
