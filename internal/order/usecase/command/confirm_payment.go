package command

import (
	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// ConfirmPaymentCommand attaches payment metadata to an order and moves it
// forward. With a settled payment id the order goes straight through
// processing to paid.
type ConfirmPaymentCommand struct {
	OrderID       uint
	PaymentMethod string
	PaymentID     string
}

// ConfirmPaymentHandler handles the confirm payment command.
type ConfirmPaymentHandler struct {
	repo domain.OrderRepository
	pub  events.Publisher
}

// NewConfirmPaymentHandler creates a new confirm payment handler.
func NewConfirmPaymentHandler(repo domain.OrderRepository, pub events.Publisher) *ConfirmPaymentHandler {
	return &ConfirmPaymentHandler{repo: repo, pub: pub}
}

// Handle executes the confirm payment command.
func (h *ConfirmPaymentHandler) Handle(cmd ConfirmPaymentCommand) (*domain.Order, error) {
	if cmd.OrderID == 0 {
		return nil, apperr.Validation("order id is required")
	}
	if cmd.PaymentMethod == "" {
		return nil, apperr.Validation("payment method is required")
	}

	order, err := h.repo.FindByID(cmd.OrderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.StatusPending:
		status, err := order.Status.Transition(domain.StatusProcessing)
		if err != nil {
			return nil, err
		}
		order.Status = status
	case domain.StatusProcessing:
		// Repeated confirmation only refreshes payment metadata.
	default:
		return nil, apperr.InvalidTransition(string(order.Status), string(domain.StatusProcessing))
	}

	order.PaymentMethod = cmd.PaymentMethod
	order.PaymentID = cmd.PaymentID

	if cmd.PaymentID != "" {
		status, err := order.Status.Transition(domain.StatusPaid)
		if err != nil {
			return nil, err
		}
		order.Status = status
	}

	if err := h.repo.Update(order); err != nil {
		return nil, apperr.Persistence("failed to update order payment", err)
	}

	h.pub.Publish(events.TypePaymentStatusUpdated, order)

	return order, nil
}
