package query

import (
	"time"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// StockReportQuery aggregates archived snapshots between two inclusive
// dates, grouped by entity.
type StockReportQuery struct {
	Ledger domain.LedgerKind
	Start  time.Time
	End    time.Time
}

// StockReportRow is the summed counter set of one entity over the range.
type StockReportRow struct {
	EntityID uint    `json:"entity_id"`
	Days     int     `json:"days"`
	Start    float64 `json:"start"`
	StockIn  float64 `json:"stock_in"`
	Used     float64 `json:"used"`
	Wasted   float64 `json:"wasted"`
	Stock    float64 `json:"stock"`
}

// StockReportHandler handles the ranged stock report query.
type StockReportHandler struct {
	repo domain.LedgerRepository
}

// NewStockReportHandler creates a new stock report handler.
func NewStockReportHandler(repo domain.LedgerRepository) *StockReportHandler {
	return &StockReportHandler{repo: repo}
}

// Handle executes the stock report query.
func (h *StockReportHandler) Handle(q StockReportQuery) ([]StockReportRow, error) {
	if q.Start.IsZero() || q.End.IsZero() {
		return nil, apperr.Validation("start and end dates are required")
	}
	if q.End.Before(q.Start) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	byEntity := make(map[uint]*StockReportRow)
	var order []uint

	accumulate := func(entityID uint, start, stockIn, used, wasted, stock float64) {
		row, ok := byEntity[entityID]
		if !ok {
			row = &StockReportRow{EntityID: entityID}
			byEntity[entityID] = row
			order = append(order, entityID)
		}
		row.Days++
		row.Start += start
		row.StockIn += stockIn
		row.Used += used
		row.Wasted += wasted
		row.Stock += stock
	}

	switch q.Ledger {
	case domain.LedgerIngredient:
		rows, err := h.repo.IngredientHistory(q.Start, q.End)
		if err != nil {
			return nil, apperr.Persistence("failed to load ingredient history", err)
		}
		for _, r := range rows {
			accumulate(r.IngredientID, r.Start, r.StockIn, r.Used, r.Wasted, r.Stock)
		}

	case domain.LedgerGudang:
		rows, err := h.repo.GudangHistory(q.Start, q.End)
		if err != nil {
			return nil, apperr.Persistence("failed to load gudang history", err)
		}
		for _, r := range rows {
			accumulate(r.GudangID, r.Start, r.StockIn, r.Used, r.Wasted, r.Stock)
		}

	default:
		return nil, apperr.Validation("unknown ledger %q", q.Ledger)
	}

	report := make([]StockReportRow, 0, len(order))
	for _, id := range order {
		report = append(report, *byEntity[id])
	}
	return report, nil
}
