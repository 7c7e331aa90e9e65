package command

import (
	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// MenuDetails is the denormalized catalog view a new order needs.
type MenuDetails struct {
	Name         string
	CategoryName string
	Price        float64
}

// MenuCatalog resolves menu details at placement time.
type MenuCatalog interface {
	MenuDetails(menuID uint) (*MenuDetails, error)
}

// PlaceOrderItem is one requested cart line.
type PlaceOrderItem struct {
	MenuID   uint
	Quantity int
	Note     string
}

// PlaceOrderCommand creates an order from a cart submission.
type PlaceOrderCommand struct {
	TableNumber  int
	CustomerName string
	Items        []PlaceOrderItem
	Total        float64
}

// PlaceOrderHandler handles the place order command.
type PlaceOrderHandler struct {
	repo    domain.OrderRepository
	catalog MenuCatalog
	pub     events.Publisher
}

// NewPlaceOrderHandler creates a new place order handler.
func NewPlaceOrderHandler(repo domain.OrderRepository, catalog MenuCatalog, pub events.Publisher) *PlaceOrderHandler {
	return &PlaceOrderHandler{repo: repo, catalog: catalog, pub: pub}
}

// Handle validates the cart, creates the pending order with denormalized
// menu details, marks the table occupied and broadcasts a new-order event.
func (h *PlaceOrderHandler) Handle(cmd PlaceOrderCommand) (*domain.Order, error) {
	if cmd.TableNumber <= 0 {
		return nil, apperr.Validation("table number must be positive")
	}
	if len(cmd.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	if cmd.Total <= 0 {
		return nil, apperr.Validation("total must be positive")
	}

	order := &domain.Order{
		TableNumber:  cmd.TableNumber,
		CustomerName: cmd.CustomerName,
		Total:        cmd.Total,
		Status:       domain.StatusPending,
	}

	for _, line := range cmd.Items {
		if line.MenuID == 0 {
			return nil, apperr.Validation("each item needs a menu id")
		}
		if line.Quantity <= 0 {
			return nil, apperr.Validation("item quantity must be positive")
		}

		details, err := h.catalog.MenuDetails(line.MenuID)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, domain.OrderItem{
			MenuID:       line.MenuID,
			MenuName:     details.Name,
			CategoryName: details.CategoryName,
			Price:        details.Price,
			Quantity:     line.Quantity,
			Note:         line.Note,
		})
	}

	if err := h.repo.Create(order); err != nil {
		return nil, apperr.Persistence("failed to create order", err)
	}

	if err := h.repo.OccupyTable(cmd.TableNumber); err != nil {
		logger.Logger.Warn().
			Err(err).
			Int("table", cmd.TableNumber).
			Msg("Failed to mark table occupied")
	}

	h.pub.Publish(events.TypeNewOrder, order)

	return order, nil
}
