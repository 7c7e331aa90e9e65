package command

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// memoryLedger is an in-memory LedgerRepository for usecase tests.
type memoryLedger struct {
	ingredients map[uint]*domain.Ingredient
	gudang      map[uint]*domain.Gudang

	ingredientHistory []domain.DailyIngredientStock
	gudangHistory     []domain.DailyGudangStock

	failArchiveIngredient map[uint]bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		ingredients:           make(map[uint]*domain.Ingredient),
		gudang:                make(map[uint]*domain.Gudang),
		failArchiveIngredient: make(map[uint]bool),
	}
}

func (m *memoryLedger) CreateIngredient(in *domain.Ingredient) error {
	if in.ID == 0 {
		in.ID = uint(len(m.ingredients) + 1)
	}
	m.ingredients[in.ID] = in
	return nil
}

func (m *memoryLedger) FindIngredient(id uint) (*domain.Ingredient, error) {
	if in, ok := m.ingredients[id]; ok {
		clone := *in
		return &clone, nil
	}
	return nil, apperr.NotFound("ingredient %d not found", id)
}

func (m *memoryLedger) FindActiveIngredients() ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for id := uint(1); id <= uint(len(m.ingredients)); id++ {
		if in, ok := m.ingredients[id]; ok && in.IsActive {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (m *memoryLedger) SaveIngredient(in *domain.Ingredient) error {
	if _, ok := m.ingredients[in.ID]; !ok {
		return apperr.NotFound("ingredient %d not found", in.ID)
	}
	clone := *in
	m.ingredients[in.ID] = &clone
	return nil
}

func (m *memoryLedger) DeactivateIngredient(id uint) error {
	in, ok := m.ingredients[id]
	if !ok {
		return apperr.NotFound("ingredient %d not found", id)
	}
	in.IsActive = false
	return nil
}

func (m *memoryLedger) CreateGudang(g *domain.Gudang) error {
	if g.ID == 0 {
		g.ID = uint(len(m.gudang) + 1)
	}
	m.gudang[g.ID] = g
	return nil
}

func (m *memoryLedger) FindGudang(id uint) (*domain.Gudang, error) {
	if g, ok := m.gudang[id]; ok {
		clone := *g
		return &clone, nil
	}
	return nil, apperr.NotFound("gudang %d not found", id)
}

func (m *memoryLedger) FindActiveGudang() ([]domain.Gudang, error) {
	var out []domain.Gudang
	for id := uint(1); id <= uint(len(m.gudang)); id++ {
		if g, ok := m.gudang[id]; ok && g.IsActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memoryLedger) SaveGudang(g *domain.Gudang) error {
	if _, ok := m.gudang[g.ID]; !ok {
		return apperr.NotFound("gudang %d not found", g.ID)
	}
	clone := *g
	m.gudang[g.ID] = &clone
	return nil
}

func (m *memoryLedger) ArchiveIngredient(in *domain.Ingredient, asOf time.Time) error {
	if m.failArchiveIngredient[in.ID] {
		return errors.New("injected archive failure")
	}
	stored, ok := m.ingredients[in.ID]
	if !ok {
		return apperr.NotFound("ingredient %d not found", in.ID)
	}
	m.ingredientHistory = append(m.ingredientHistory, domain.DailyIngredientStock{
		IngredientID: stored.ID,
		Date:         asOf,
		Start:        stored.Start,
		StockIn:      stored.StockIn,
		Used:         stored.Used,
		Wasted:       stored.Wasted,
		Stock:        stored.Stock,
	})
	stored.Reset()
	return nil
}

func (m *memoryLedger) ArchiveGudang(g *domain.Gudang, asOf time.Time) error {
	stored, ok := m.gudang[g.ID]
	if !ok {
		return apperr.NotFound("gudang %d not found", g.ID)
	}
	m.gudangHistory = append(m.gudangHistory, domain.DailyGudangStock{
		GudangID: stored.ID,
		Date:     asOf,
		Start:    stored.Start,
		StockIn:  stored.StockIn,
		Used:     stored.Used,
		Wasted:   stored.Wasted,
		Stock:    stored.Stock,
	})
	stored.Reset()
	return nil
}

func (m *memoryLedger) IngredientHistory(start, end time.Time) ([]domain.DailyIngredientStock, error) {
	return m.ingredientHistory, nil
}

func (m *memoryLedger) GudangHistory(start, end time.Time) ([]domain.DailyGudangStock, error) {
	return m.gudangHistory, nil
}

func (m *memoryLedger) CountIngredientsBelowMin() (int64, error) {
	var count int64
	for _, in := range m.ingredients {
		if in.IsActive && in.Stock < in.StockMin {
			count++
		}
	}
	return count, nil
}

func seedIngredient(repo *memoryLedger, start, stockIn, used, wasted float64) *domain.Ingredient {
	in := &domain.Ingredient{
		Name:     "Arabica Beans",
		Unit:     "gram",
		Type:     domain.IngredientRaw,
		IsActive: true,
	}
	in.Start = start
	in.StockIn = stockIn
	in.Used = used
	in.Wasted = wasted
	in.Recompute()
	repo.CreateIngredient(in)
	return in
}

func f(v float64) *float64 { return &v }

func TestRecordMovementMaintainsInvariant(t *testing.T) {
	repo := newMemoryLedger()
	in := seedIngredient(repo, 10, 0, 0, 0)

	handler := NewRecordMovementHandler(repo)
	counters, err := handler.Handle(RecordMovementCommand{
		Ledger:   domain.LedgerIngredient,
		EntityID: in.ID,
		Delta:    MovementDelta{StockIn: f(5), Used: f(3), Wasted: f(1)},
	})
	if err != nil {
		t.Fatalf("record movement failed: %v", err)
	}
	if counters.Stock != 11 {
		t.Fatalf("expected stock 11, got %v", counters.Stock)
	}

	saved, _ := repo.FindIngredient(in.ID)
	if saved.Stock != 11 {
		t.Fatalf("expected persisted stock 11, got %v", saved.Stock)
	}
}

func TestRecordMovementRejectsBadDeltas(t *testing.T) {
	repo := newMemoryLedger()
	in := seedIngredient(repo, 10, 0, 0, 0)
	handler := NewRecordMovementHandler(repo)

	cases := []MovementDelta{
		{StockIn: f(-1)},
		{Used: f(math.NaN())},
		{Wasted: f(math.Inf(1))},
	}
	for _, delta := range cases {
		_, err := handler.Handle(RecordMovementCommand{
			Ledger:   domain.LedgerIngredient,
			EntityID: in.ID,
			Delta:    delta,
		})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for delta %+v, got %v", delta, err)
		}
	}

	saved, _ := repo.FindIngredient(in.ID)
	if saved.Stock != 10 {
		t.Fatalf("rejected movement mutated state: stock %v", saved.Stock)
	}
}

func TestRecordMovementUnknownLedger(t *testing.T) {
	handler := NewRecordMovementHandler(newMemoryLedger())
	_, err := handler.Handle(RecordMovementCommand{Ledger: "freezer", EntityID: 1})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRolloverSnapshotsAndResets(t *testing.T) {
	repo := newMemoryLedger()
	in := seedIngredient(repo, 10, 5, 3, 1)

	g := &domain.Gudang{IngredientID: in.ID, Name: "Arabica Beans", IsActive: true}
	g.Start = 100
	g.StockIn = 20
	g.Used = 50
	g.Recompute()
	repo.CreateGudang(g)

	handler := NewRolloverHandler(repo)
	asOf := time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC)
	result, err := handler.Handle(RolloverCommand{AsOf: asOf})
	if err != nil {
		t.Fatalf("rollover failed: %v", err)
	}
	if result.IngredientsRolled != 1 || result.GudangRolled != 1 {
		t.Fatalf("expected one entity rolled per ledger, got %+v", result)
	}

	// Snapshot captures the pre-reset counters.
	if len(repo.ingredientHistory) != 1 {
		t.Fatalf("expected one ingredient snapshot, got %d", len(repo.ingredientHistory))
	}
	snap := repo.ingredientHistory[0]
	if snap.Start != 10 || snap.StockIn != 5 || snap.Used != 3 || snap.Wasted != 1 || snap.Stock != 11 {
		t.Fatalf("snapshot does not match pre-reset counters: %+v", snap)
	}

	// Live counters carry the stock forward.
	live, _ := repo.FindIngredient(in.ID)
	if live.Start != 11 || live.StockIn != 0 || live.Used != 0 || live.Wasted != 0 || live.Stock != 11 {
		t.Fatalf("live counters not reset: %+v", live.Counters)
	}
}

func TestRolloverContinuesPastFailures(t *testing.T) {
	repo := newMemoryLedger()
	first := seedIngredient(repo, 10, 0, 0, 0)
	second := seedIngredient(repo, 20, 0, 0, 0)
	repo.failArchiveIngredient[first.ID] = true

	handler := NewRolloverHandler(repo)
	result, err := handler.Handle(RolloverCommand{AsOf: time.Now()})
	if err != nil {
		t.Fatalf("rollover returned error despite best-effort contract: %v", err)
	}
	if result.IngredientsRolled != 1 {
		t.Fatalf("expected the healthy ingredient rolled, got %d", result.IngredientsRolled)
	}
	if len(result.FailedIngredients) != 1 || result.FailedIngredients[0] != first.ID {
		t.Fatalf("expected ingredient %d reported failed, got %v", first.ID, result.FailedIngredients)
	}

	// The failed entity keeps its counters untouched.
	untouched, _ := repo.FindIngredient(first.ID)
	if untouched.Start != 10 || untouched.Stock != 10 {
		t.Fatalf("failed archive mutated counters: %+v", untouched.Counters)
	}
	rolled, _ := repo.FindIngredient(second.ID)
	if rolled.Start != 20 || rolled.StockIn != 0 {
		t.Fatalf("healthy ingredient not rolled: %+v", rolled.Counters)
	}
}

func TestRolloverRequiresDate(t *testing.T) {
	handler := NewRolloverHandler(newMemoryLedger())
	_, err := handler.Handle(RolloverCommand{})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
