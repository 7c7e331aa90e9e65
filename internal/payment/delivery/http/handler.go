package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	ordercommand "github.com/obeddx/notarichCafe-sub002/internal/order/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/internal/payment/gateway"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// orderIDPrefix namespaces gateway order ids so webhook callbacks can be
// mapped back to live orders.
const orderIDPrefix = "ORDER-"

// PaymentHandler bridges the payment gateway to the order lifecycle.
type PaymentHandler struct {
	client  *gateway.Client
	orders  domain.OrderRepository
	confirm *ordercommand.ConfirmPaymentHandler
	final   *ordercommand.FinalizeOrderHandler
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	client *gateway.Client,
	orders domain.OrderRepository,
	confirm *ordercommand.ConfirmPaymentHandler,
	final *ordercommand.FinalizeOrderHandler,
) *PaymentHandler {
	return &PaymentHandler{client: client, orders: orders, confirm: confirm, final: final}
}

// CreateToken handles POST /api/payment/token
func (h *PaymentHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	order, err := h.orders.FindByID(req.OrderID)
	if err != nil {
		respondError(w, err)
		return
	}

	tx, err := h.client.CreateTransaction(r.Context(), gateway.TransactionRequest{
		OrderID:     fmt.Sprintf("%s%d", orderIDPrefix, order.ID),
		GrossAmount: order.Total,
		Customer:    order.CustomerName,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("order_id", order.ID).Msg("Failed to create payment transaction")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: tx})
}

// Webhook handles POST /api/payment/webhook
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var notif struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionID     string `json:"transaction_id"`
		TransactionStatus string `json:"transaction_status"`
		PaymentType       string `json:"payment_type"`
	}
	if err := decodeBody(r, &notif); err != nil {
		respondError(w, err)
		return
	}

	if !h.client.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		logger.Warn(r.Context()).
			Str("order_id", notif.OrderID).
			Msg("Webhook signature mismatch")
		respondError(w, apperr.Validation("invalid signature"))
		return
	}

	orderID, err := parseOrderID(notif.OrderID)
	if err != nil {
		respondError(w, err)
		return
	}

	switch notif.TransactionStatus {
	case "settlement", "capture":
		_, err = h.confirm.Handle(ordercommand.ConfirmPaymentCommand{
			OrderID:       orderID,
			PaymentMethod: notif.PaymentType,
			PaymentID:     notif.TransactionID,
		})
	case "pending":
		_, err = h.confirm.Handle(ordercommand.ConfirmPaymentCommand{
			OrderID:       orderID,
			PaymentMethod: notif.PaymentType,
		})
	case "deny", "cancel", "expire":
		_, err = h.final.Handle(ordercommand.FinalizeOrderCommand{
			OrderID: orderID,
			Outcome: domain.OutcomeDiscarded,
		})
	default:
		err = apperr.Validation("unknown transaction status %q", notif.TransactionStatus)
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("order_id", notif.OrderID).
			Str("transaction_status", notif.TransactionStatus).
			Msg("Failed to apply payment notification")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Notification processed"})
}

// RegisterRoutes registers all payment routes.
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/payment/token", h.CreateToken).Methods("POST")
	router.HandleFunc("/api/payment/webhook", h.Webhook).Methods("POST")
}

func parseOrderID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(raw, orderIDPrefix), 10, 32)
	if err != nil {
		return 0, apperr.Validation("unrecognized order id %q", raw)
	}
	return uint(id), nil
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
