package command

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// TableOccupier marks a table as taken when a booking is made.
type TableOccupier interface {
	OccupyTable(tableNumber int) error
}

// CreateReservationCommand books a table.
type CreateReservationCommand struct {
	CustomerName    string
	CustomerPhone   string
	Date            time.Time
	PartySize       int
	DurationMinutes int
	TableNumber     int
}

// CreateReservationHandler handles the create reservation command.
type CreateReservationHandler struct {
	repo   domain.ReservationRepository
	tables TableOccupier
	pub    events.Publisher
}

// NewCreateReservationHandler creates a new create reservation handler.
func NewCreateReservationHandler(repo domain.ReservationRepository, tables TableOccupier, pub events.Publisher) *CreateReservationHandler {
	return &CreateReservationHandler{repo: repo, tables: tables, pub: pub}
}

// Handle validates the booking, generates its code, persists it and marks
// the table occupied.
func (h *CreateReservationHandler) Handle(cmd CreateReservationCommand) (*domain.Reservation, error) {
	if cmd.CustomerName == "" {
		return nil, apperr.Validation("customer name is required")
	}
	if cmd.TableNumber <= 0 {
		return nil, apperr.Validation("table number must be positive")
	}
	if cmd.PartySize <= 0 {
		return nil, apperr.Validation("party size must be positive")
	}
	if cmd.Date.IsZero() {
		return nil, apperr.Validation("reservation date is required")
	}
	if cmd.DurationMinutes <= 0 {
		cmd.DurationMinutes = 90
	}

	reservation := &domain.Reservation{
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		Date:            cmd.Date,
		PartySize:       cmd.PartySize,
		DurationMinutes: cmd.DurationMinutes,
		TableNumber:     cmd.TableNumber,
		BookingCode:     bookingCode(),
		Status:          domain.StatusBooked,
	}
	if err := h.repo.Create(reservation); err != nil {
		return nil, err
	}

	if err := h.tables.OccupyTable(cmd.TableNumber); err != nil {
		logger.Logger.Warn().Err(err).
			Int("table_number", cmd.TableNumber).
			Msg("Failed to mark table occupied for reservation")
	}

	h.pub.Publish(events.TypeTableStatusUpdated, map[string]interface{}{
		"table_number": cmd.TableNumber,
		"status":       "occupied",
	})

	return reservation, nil
}

// bookingCode derives a short customer-facing code from a uuid.
func bookingCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RSV-" + strings.ToUpper(raw[:8])
}
