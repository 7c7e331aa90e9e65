package command

import (
	"time"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// FinalizeOrderCommand is the single exit path for a live order: a paid
// order is archived into completed-order history, any other open order can
// be discarded.
type FinalizeOrderCommand struct {
	OrderID uint
	Outcome domain.Outcome
}

// FinalizeOrderHandler handles the finalize order command.
type FinalizeOrderHandler struct {
	repo domain.OrderRepository
	pub  events.Publisher
}

// NewFinalizeOrderHandler creates a new finalize order handler.
func NewFinalizeOrderHandler(repo domain.OrderRepository, pub events.Publisher) *FinalizeOrderHandler {
	return &FinalizeOrderHandler{repo: repo, pub: pub}
}

// Handle executes the finalize command. Archival requires the paid ->
// completed transition; discarding requires the cancel transition.
func (h *FinalizeOrderHandler) Handle(cmd FinalizeOrderCommand) (*domain.CompletedOrder, error) {
	if cmd.OrderID == 0 {
		return nil, apperr.Validation("order id is required")
	}

	order, err := h.repo.FindByID(cmd.OrderID)
	if err != nil {
		return nil, err
	}

	switch cmd.Outcome {
	case domain.OutcomeArchived:
		if _, err := order.Status.Transition(domain.StatusCompleted); err != nil {
			return nil, err
		}

		completed, err := h.repo.Archive(order, time.Now())
		if err != nil {
			return nil, apperr.Persistence("failed to archive order", err)
		}

		if err := h.repo.ReleaseTable(order.TableNumber); err != nil {
			logger.Logger.Warn().
				Err(err).
				Int("table", order.TableNumber).
				Msg("Failed to release table on completion")
		}

		h.pub.Publish(events.TypeOrderUpdated, completed)
		h.pub.Publish(events.TypeTableStatusUpdated, map[string]interface{}{
			"table_number": order.TableNumber,
			"occupied":     false,
		})
		return completed, nil

	case domain.OutcomeDiscarded:
		if _, err := order.Status.Transition(domain.StatusCancelled); err != nil {
			return nil, err
		}

		if err := h.repo.Discard(order.ID); err != nil {
			return nil, apperr.Persistence("failed to discard order", err)
		}

		h.pub.Publish(events.TypeOrderDeleted, map[string]interface{}{"order_id": order.ID})
		return nil, nil

	default:
		return nil, apperr.Validation("outcome must be %q or %q", domain.OutcomeArchived, domain.OutcomeDiscarded)
	}
}
