package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/reservation/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// ReservationHandler handles HTTP requests for table bookings.
type ReservationHandler struct {
	createHandler *command.CreateReservationHandler
	sweepHandler  *command.SweepExpiredHandler

	repo domain.ReservationRepository
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(
	repo domain.ReservationRepository,
	create *command.CreateReservationHandler,
	sweep *command.SweepExpiredHandler,
) *ReservationHandler {
	return &ReservationHandler{
		createHandler: create,
		sweepHandler:  sweep,
		repo:          repo,
	}
}

// CreateReservation handles POST /api/reservation
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName    string `json:"customer_name"`
		CustomerPhone   string `json:"customer_phone"`
		Date            string `json:"date"`
		PartySize       int    `json:"party_size"`
		DurationMinutes int    `json:"duration_minutes"`
		TableNumber     int    `json:"table_number"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		respondError(w, apperr.Validation("date must be RFC3339"))
		return
	}

	reservation, err := h.createHandler.Handle(command.CreateReservationCommand{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Date:            date,
		PartySize:       req.PartySize,
		DurationMinutes: req.DurationMinutes,
		TableNumber:     req.TableNumber,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Reservation created successfully",
		Data:    reservation,
	})
}

// ListReservations handles GET /api/reservation
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	reservations, err := h.repo.FindAll(limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: reservations})
}

// GetReservationByCode handles GET /api/reservation/code/{code}
func (h *ReservationHandler) GetReservationByCode(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.repo.FindByCode(mux.Vars(r)["code"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: reservation})
}

// GetReservation handles GET /api/reservation/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.repo.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: reservation})
}

// UpdateStatus handles PUT /api/reservation/{id}/status
func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.repo.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	reservation.Status = status
	if err := h.repo.Update(reservation); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservation status updated",
		Data:    reservation,
	})
}

// SweepExpired handles POST /api/reservation/sweep
func (h *ReservationHandler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweepHandler.Handle(time.Now())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Sweep finished",
		Data:    result,
	})
}

// RegisterRoutes registers all reservation routes.
func (h *ReservationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reservation", h.ListReservations).Methods("GET")
	router.HandleFunc("/api/reservation", h.CreateReservation).Methods("POST")
	router.HandleFunc("/api/reservation/sweep", h.SweepExpired).Methods("POST")
	router.HandleFunc("/api/reservation/code/{code}", h.GetReservationByCode).Methods("GET")
	router.HandleFunc("/api/reservation/{id}", h.GetReservation).Methods("GET")
	router.HandleFunc("/api/reservation/{id}/status", h.UpdateStatus).Methods("PUT")
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(id), nil
}
