package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/obeddx/notarichCafe-sub002/internal/reporting/cache"
	"github.com/obeddx/notarichCafe-sub002/internal/reporting/usecase/query"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// ReportingHandler handles HTTP requests for sales reports.
type ReportingHandler struct {
	revenueHandler    *query.RevenueHandler
	topSellersHandler *query.TopSellersHandler
	cache             *cache.ReportCache
}

// NewReportingHandler creates a new reporting handler.
func NewReportingHandler(source query.HistorySource, reportCache *cache.ReportCache) *ReportingHandler {
	return &ReportingHandler{
		revenueHandler:    query.NewRevenueHandler(source),
		topSellersHandler: query.NewTopSellersHandler(source),
		cache:             reportCache,
	}
}

// Revenue handles GET /api/reporting/revenue?group_by=&start=&end=
func (h *ReportingHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	groupBy, err := query.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		respondError(w, err)
		return
	}
	start, end, err := window(r)
	if err != nil {
		respondError(w, err)
		return
	}

	key := cache.Key("revenue", string(groupBy), start.Format("2006-01-02"), end.Format("2006-01-02"))
	var rows []query.RevenueRow
	if h.cache.Get(r.Context(), key, &rows) {
		respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
		return
	}

	rows, err = h.revenueHandler.Handle(query.RevenueQuery{
		GroupBy: groupBy,
		Start:   start,
		End:     end,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.cache.Set(r.Context(), key, rows)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// TopSellers handles GET /api/reporting/top-sellers?start=&end=&limit=
func (h *ReportingHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	start, end, err := window(r)
	if err != nil {
		respondError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	key := cache.Key("top-sellers", start.Format("2006-01-02"), end.Format("2006-01-02"), strconv.Itoa(limit))
	var rows []query.TopSellerRow
	if h.cache.Get(r.Context(), key, &rows) {
		respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
		return
	}

	rows, err = h.topSellersHandler.Handle(query.TopSellersQuery{
		Start: start,
		End:   end,
		Limit: limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.cache.Set(r.Context(), key, rows)
	respondJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

// RegisterRoutes registers all reporting routes.
func (h *ReportingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reporting/revenue", h.Revenue).Methods("GET")
	router.HandleFunc("/api/reporting/top-sellers", h.TopSellers).Methods("GET")
}

// window parses the start/end date range. The end bound is exclusive and
// extended by a day so a single-day query covers that whole day.
func window(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("end must be YYYY-MM-DD")
	}
	return start, end.AddDate(0, 0, 1), nil
}

// Response is the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperr.HTTPStatus(err), Response{
		Success: false,
		Error:   err.Error(),
	})
}
