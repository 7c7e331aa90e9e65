package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/order/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/internal/order/usecase/query"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// OrderHandler handles HTTP requests for the order lifecycle using the
// CQRS pattern.
type OrderHandler struct {
	// Command handlers
	placeHandler    *command.PlaceOrderHandler
	confirmHandler  *command.ConfirmPaymentHandler
	finalizeHandler *command.FinalizeOrderHandler
	resetHandler    *command.ResetBookingHandler

	// Query handlers
	getHandler  *query.GetOrderHandler
	listHandler *query.ListOrdersHandler

	repo domain.OrderRepository

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	openOrdersGauge prometheus.Gauge
}

// NewOrderHandler wires the order handler from its usecase handlers and
// registers the order metrics.
func NewOrderHandler(
	repo domain.OrderRepository,
	place *command.PlaceOrderHandler,
	confirm *command.ConfirmPaymentHandler,
	finalize *command.FinalizeOrderHandler,
	reset *command.ResetBookingHandler,
) *OrderHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_order_requests_total",
			Help: "Total number of order API requests",
		},
		[]string{"operation", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_order_request_duration_seconds",
			Help:    "Duration of order API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	openOrdersGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cafe_open_orders",
		Help: "Number of orders not yet completed or cancelled",
	})
	prometheus.MustRegister(requestCounter, requestDuration, openOrdersGauge)

	return &OrderHandler{
		placeHandler:    place,
		confirmHandler:  confirm,
		finalizeHandler: finalize,
		resetHandler:    reset,
		getHandler:      query.NewGetOrderHandler(repo),
		listHandler:     query.NewListOrdersHandler(repo),
		repo:            repo,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		openOrdersGauge: openOrdersGauge,
	}
}

func (h *OrderHandler) observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.requestCounter.WithLabelValues(operation, status).Inc()
	h.requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (h *OrderHandler) refreshOpenOrdersGauge() {
	count, err := h.repo.CountOpen()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to refresh open orders gauge")
		return
	}
	h.openOrdersGauge.Set(float64(count))
}

// PlaceOrder handles POST /api/order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		TableNumber  int     `json:"table_number"`
		CustomerName string  `json:"customer_name"`
		Total        float64 `json:"total"`
		Items        []struct {
			MenuID   uint   `json:"menu_id"`
			Quantity int    `json:"quantity"`
			Note     string `json:"note"`
		} `json:"items"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.observe("place", start, err)
		respondError(w, err)
		return
	}

	cmd := command.PlaceOrderCommand{
		TableNumber:  req.TableNumber,
		CustomerName: req.CustomerName,
		Total:        req.Total,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.PlaceOrderItem{
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}

	order, err := h.placeHandler.Handle(cmd)
	h.observe("place", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	h.refreshOpenOrdersGauge()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    order,
	})
}

// GetOrder handles GET /api/order/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r, "id")
	if err != nil {
		h.observe("get", start, err)
		respondError(w, err)
		return
	}

	order, err := h.getHandler.Handle(query.GetOrderQuery{OrderID: id})
	h.observe("get", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListOrders handles GET /api/order?status=&limit=&offset=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.listHandler.Handle(query.ListOrdersQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	h.observe("list", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// ConfirmPayment handles POST /api/order/{id}/payment
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r, "id")
	if err != nil {
		h.observe("confirm_payment", start, err)
		respondError(w, err)
		return
	}

	var req struct {
		PaymentMethod string `json:"payment_method"`
		PaymentID     string `json:"payment_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.observe("confirm_payment", start, err)
		respondError(w, err)
		return
	}

	order, err := h.confirmHandler.Handle(command.ConfirmPaymentCommand{
		OrderID:       id,
		PaymentMethod: req.PaymentMethod,
		PaymentID:     req.PaymentID,
	})
	h.observe("confirm_payment", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment confirmed",
		Data:    order,
	})
}

// FinalizeOrder handles POST /api/order/{id}/finalize
func (h *OrderHandler) FinalizeOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r, "id")
	if err != nil {
		h.observe("finalize", start, err)
		respondError(w, err)
		return
	}

	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.observe("finalize", start, err)
		respondError(w, err)
		return
	}

	outcome, err := domain.ParseOutcome(req.Outcome)
	if err != nil {
		h.observe("finalize", start, err)
		respondError(w, err)
		return
	}

	archived, err := h.finalizeHandler.Handle(command.FinalizeOrderCommand{
		OrderID: id,
		Outcome: outcome,
	})
	h.observe("finalize", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	h.refreshOpenOrdersGauge()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order finalized",
		Data:    archived,
	})
}

// ResetBooking handles DELETE /api/order/{id}/booking
func (h *OrderHandler) ResetBooking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := pathID(r, "id")
	if err != nil {
		h.observe("reset_booking", start, err)
		respondError(w, err)
		return
	}

	result, err := h.resetHandler.Handle(command.ResetBookingCommand{OrderID: id})
	h.observe("reset_booking", start, err)
	if err != nil {
		respondError(w, err)
		return
	}

	h.refreshOpenOrdersGauge()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Booking reset",
		Data:    result,
	})
}

// ListTables handles GET /api/table
func (h *OrderHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tables, err := h.repo.OccupiedTables()
	h.observe("list_tables", start, err)
	if err != nil {
		respondError(w, apperr.Persistence("failed to list occupied tables", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: tables})
}

// RegisterRoutes registers all order routes.
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/order", h.ListOrders).Methods("GET")
	router.HandleFunc("/api/order", h.PlaceOrder).Methods("POST")
	router.HandleFunc("/api/order/{id}", h.GetOrder).Methods("GET")
	router.HandleFunc("/api/order/{id}/payment", h.ConfirmPayment).Methods("POST")
	router.HandleFunc("/api/order/{id}/finalize", h.FinalizeOrder).Methods("POST")
	router.HandleFunc("/api/order/{id}/booking", h.ResetBooking).Methods("DELETE")

	router.HandleFunc("/api/table", h.ListTables).Methods("GET")
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
