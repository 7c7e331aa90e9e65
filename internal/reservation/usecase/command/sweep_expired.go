package command

import (
	"time"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// TableReleaser frees a table when its booking lapses.
type TableReleaser interface {
	ReleaseTable(tableNumber int) error
}

// SweepResult reports one sweep pass.
type SweepResult struct {
	SweptAt        time.Time `json:"swept_at"`
	Completed      int       `json:"completed"`
	FailedIDs      []uint    `json:"failed_ids,omitempty"`
	ReleasedTables []int     `json:"released_tables,omitempty"`
}

// SweepExpiredHandler marks lapsed reservations completed and frees their
// tables. Each reservation is handled independently so one failure does not
// stop the pass.
type SweepExpiredHandler struct {
	repo   domain.ReservationRepository
	tables TableReleaser
	pub    events.Publisher
}

// NewSweepExpiredHandler creates a new sweep handler.
func NewSweepExpiredHandler(repo domain.ReservationRepository, tables TableReleaser, pub events.Publisher) *SweepExpiredHandler {
	return &SweepExpiredHandler{repo: repo, tables: tables, pub: pub}
}

// Handle runs one sweep pass as of now.
func (h *SweepExpiredHandler) Handle(now time.Time) (*SweepResult, error) {
	expired, err := h.repo.FindExpired(now)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{SweptAt: now}
	for i := range expired {
		reservation := &expired[i]
		reservation.Status = domain.StatusCompleted
		if err := h.repo.Update(reservation); err != nil {
			logger.Logger.Error().Err(err).
				Uint("reservation_id", reservation.ID).
				Msg("Failed to complete expired reservation")
			result.FailedIDs = append(result.FailedIDs, reservation.ID)
			continue
		}
		result.Completed++

		if err := h.tables.ReleaseTable(reservation.TableNumber); err != nil {
			logger.Logger.Warn().Err(err).
				Int("table_number", reservation.TableNumber).
				Msg("Failed to release table for expired reservation")
		} else {
			result.ReleasedTables = append(result.ReleasedTables, reservation.TableNumber)
		}

		h.pub.Publish(events.TypeTableStatusUpdated, map[string]interface{}{
			"table_number": reservation.TableNumber,
			"status":       "available",
		})
	}

	if result.Completed > 0 {
		logger.Logger.Info().
			Int("completed", result.Completed).
			Time("as_of", now).
			Msg("Expired reservations swept")
	}
	return result, nil
}
