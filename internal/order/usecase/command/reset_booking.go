package command

import (
	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// ResetBookingCommand removes an order together with its reservation and
// table occupancy in one atomic step.
type ResetBookingCommand struct {
	OrderID uint
}

// ResetBookingHandler handles the reset booking command.
type ResetBookingHandler struct {
	repo domain.OrderRepository
	pub  events.Publisher
}

// NewResetBookingHandler creates a new reset booking handler.
func NewResetBookingHandler(repo domain.OrderRepository, pub events.Publisher) *ResetBookingHandler {
	return &ResetBookingHandler{repo: repo, pub: pub}
}

// Handle executes the reset. Events fire only after the transaction
// commits, so subscribers never observe a partial deletion.
func (h *ResetBookingHandler) Handle(cmd ResetBookingCommand) (*domain.ResetResult, error) {
	if cmd.OrderID == 0 {
		return nil, apperr.Validation("order id is required")
	}

	result, err := h.repo.ResetBooking(cmd.OrderID)
	if err != nil {
		return nil, err
	}

	h.pub.Publish(events.TypeReservationDeleted, result)
	h.pub.Publish(events.TypeOrderUpdated, map[string]interface{}{"order_id": result.OrderID, "deleted": true})
	h.pub.Publish(events.TypeTableStatusUpdated, map[string]interface{}{
		"table_number": result.TableNumber,
		"occupied":     false,
	})

	return result, nil
}
