package command

import (
	"errors"
	"testing"
	"time"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// recordingPublisher captures every published event for assertions.
type recordingPublisher struct {
	published []events.Type
}

func (p *recordingPublisher) Publish(eventType events.Type, payload interface{}) {
	p.published = append(p.published, eventType)
}

func (p *recordingPublisher) count(eventType events.Type) int {
	n := 0
	for _, t := range p.published {
		if t == eventType {
			n++
		}
	}
	return n
}

// memoryOrders is an in-memory OrderRepository. ResetBooking validates
// everything before touching state so an injected failure leaves the
// store unchanged, mirroring a rolled-back transaction.
type memoryOrders struct {
	orders       map[uint]*domain.Order
	reservations map[uint]bool
	tables       map[int]bool
	archived     []domain.CompletedOrder
	nextID       uint

	failReset bool
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{
		orders:       make(map[uint]*domain.Order),
		reservations: make(map[uint]bool),
		tables:       make(map[int]bool),
	}
}

func (m *memoryOrders) Create(order *domain.Order) error {
	m.nextID++
	order.ID = m.nextID
	clone := *order
	m.orders[order.ID] = &clone
	return nil
}

func (m *memoryOrders) FindByID(id uint) (*domain.Order, error) {
	if o, ok := m.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, apperr.NotFound("order %d not found", id)
}

func (m *memoryOrders) FindAll(limit, offset int) ([]domain.Order, error) {
	var out []domain.Order
	for id := uint(1); id <= m.nextID; id++ {
		if o, ok := m.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) FindByStatus(status domain.Status) ([]domain.Order, error) {
	var out []domain.Order
	for id := uint(1); id <= m.nextID; id++ {
		if o, ok := m.orders[id]; ok && o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) Update(order *domain.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return apperr.NotFound("order %d not found", order.ID)
	}
	clone := *order
	m.orders[order.ID] = &clone
	return nil
}

func (m *memoryOrders) CountOpen() (int64, error) {
	return int64(len(m.orders)), nil
}

func (m *memoryOrders) Archive(order *domain.Order, completedAt time.Time) (*domain.CompletedOrder, error) {
	if _, ok := m.orders[order.ID]; !ok {
		return nil, apperr.NotFound("order %d not found", order.ID)
	}
	completed := domain.CompletedOrder{
		OrderID:       order.ID,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		PaymentID:     order.PaymentID,
		CompletedAt:   completedAt,
	}
	for _, item := range order.Items {
		completed.Items = append(completed.Items, domain.CompletedOrderItem{
			MenuID:       item.MenuID,
			MenuName:     item.MenuName,
			CategoryName: item.CategoryName,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}
	m.archived = append(m.archived, completed)
	delete(m.orders, order.ID)
	return &completed, nil
}

func (m *memoryOrders) Discard(orderID uint) error {
	if _, ok := m.orders[orderID]; !ok {
		return apperr.NotFound("order %d not found", orderID)
	}
	delete(m.orders, orderID)
	return nil
}

func (m *memoryOrders) ResetBooking(orderID uint) (*domain.ResetResult, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if m.failReset {
		return nil, errors.New("injected transaction failure")
	}

	result := &domain.ResetResult{
		OrderID:       order.ID,
		TableNumber:   order.TableNumber,
		ReservationID: order.ReservationID,
	}
	delete(m.orders, orderID)
	if order.ReservationID != nil {
		delete(m.reservations, *order.ReservationID)
	}
	delete(m.tables, order.TableNumber)
	return result, nil
}

func (m *memoryOrders) OccupyTable(tableNumber int) error {
	m.tables[tableNumber] = true
	return nil
}

func (m *memoryOrders) ReleaseTable(tableNumber int) error {
	delete(m.tables, tableNumber)
	return nil
}

func (m *memoryOrders) OccupiedTables() ([]domain.DataMeja, error) {
	var out []domain.DataMeja
	for table := range m.tables {
		out = append(out, domain.DataMeja{TableNumber: table})
	}
	return out, nil
}

// staticCatalog resolves every menu id to a fixed entry.
type staticCatalog map[uint]MenuDetails

func (c staticCatalog) MenuDetails(menuID uint) (*MenuDetails, error) {
	if d, ok := c[menuID]; ok {
		return &d, nil
	}
	return nil, apperr.NotFound("menu not found")
}

func testCatalog() staticCatalog {
	return staticCatalog{
		1: {Name: "Kopi Susu", CategoryName: "Coffee", Price: 25000},
		2: {Name: "Croissant", CategoryName: "Pastry", Price: 18000},
	}
}

func placeTestOrder(t *testing.T, repo *memoryOrders, pub events.Publisher) *domain.Order {
	t.Helper()
	handler := NewPlaceOrderHandler(repo, testCatalog(), pub)
	order, err := handler.Handle(PlaceOrderCommand{
		TableNumber:  7,
		CustomerName: "Sinta",
		Total:        68000,
		Items: []PlaceOrderItem{
			{MenuID: 1, Quantity: 2},
			{MenuID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func TestPlaceOrderDenormalizesAndOccupiesTable(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}

	order := placeTestOrder(t, repo, pub)

	if order.Status != domain.StatusPending {
		t.Fatalf("new order must be pending, got %s", order.Status)
	}
	if len(order.Items) != 2 || order.Items[0].MenuName != "Kopi Susu" || order.Items[0].CategoryName != "Coffee" {
		t.Fatalf("menu details not denormalized: %+v", order.Items)
	}
	if !repo.tables[7] {
		t.Fatalf("table 7 should be occupied after placement")
	}
	if pub.count(events.TypeNewOrder) != 1 {
		t.Fatalf("expected exactly one new-order event, got %d", pub.count(events.TypeNewOrder))
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	handler := NewPlaceOrderHandler(newMemoryOrders(), testCatalog(), &recordingPublisher{})

	cases := []PlaceOrderCommand{
		{TableNumber: 0, Total: 1, Items: []PlaceOrderItem{{MenuID: 1, Quantity: 1}}},
		{TableNumber: 1, Total: 1, Items: nil},
		{TableNumber: 1, Total: 0, Items: []PlaceOrderItem{{MenuID: 1, Quantity: 1}}},
		{TableNumber: 1, Total: 1, Items: []PlaceOrderItem{{MenuID: 1, Quantity: 0}}},
	}
	for i, cmd := range cases {
		if _, err := handler.Handle(cmd); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestConfirmPaymentMovesPendingForward(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	handler := NewConfirmPaymentHandler(repo, pub)
	updated, err := handler.Handle(ConfirmPaymentCommand{
		OrderID:       order.ID,
		PaymentMethod: "qris",
	})
	if err != nil {
		t.Fatalf("confirm payment failed: %v", err)
	}
	if updated.Status != domain.StatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	// Settlement callback carries the payment id and pushes to paid.
	updated, err = handler.Handle(ConfirmPaymentCommand{
		OrderID:       order.ID,
		PaymentMethod: "qris",
		PaymentID:     "TX-123",
	})
	if err != nil {
		t.Fatalf("settlement confirm failed: %v", err)
	}
	if updated.Status != domain.StatusPaid || updated.PaymentID != "TX-123" {
		t.Fatalf("expected paid with payment id, got %s %q", updated.Status, updated.PaymentID)
	}
	if pub.count(events.TypePaymentStatusUpdated) != 2 {
		t.Fatalf("expected two payment events, got %d", pub.count(events.TypePaymentStatusUpdated))
	}
}

func TestConfirmPaymentRejectsSettledOrders(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	stored, _ := repo.FindByID(order.ID)
	stored.Status = domain.StatusPaid
	repo.Update(stored)

	handler := NewConfirmPaymentHandler(repo, pub)
	_, err := handler.Handle(ConfirmPaymentCommand{OrderID: order.ID, PaymentMethod: "cash"})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFinalizeArchivesPaidOrder(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	stored, _ := repo.FindByID(order.ID)
	stored.Status = domain.StatusPaid
	repo.Update(stored)

	handler := NewFinalizeOrderHandler(repo, pub)
	completed, err := handler.Handle(FinalizeOrderCommand{OrderID: order.ID, Outcome: domain.OutcomeArchived})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if completed == nil || completed.OrderID != order.ID || len(completed.Items) != 2 {
		t.Fatalf("archive incomplete: %+v", completed)
	}
	if _, err := repo.FindByID(order.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("live order should be gone after archival")
	}
	if repo.tables[order.TableNumber] {
		t.Fatalf("table should be released after completion")
	}
}

func TestFinalizeRejectsArchivingUnpaidOrder(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	handler := NewFinalizeOrderHandler(repo, pub)
	_, err := handler.Handle(FinalizeOrderCommand{OrderID: order.ID, Outcome: domain.OutcomeArchived})
	if apperr.KindOf(err) != apperr.KindInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(repo.archived) != 0 {
		t.Fatalf("nothing should be archived on rejection")
	}
}

func TestPlaceThenDiscardEventCounts(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	handler := NewFinalizeOrderHandler(repo, pub)
	completed, err := handler.Handle(FinalizeOrderCommand{OrderID: order.ID, Outcome: domain.OutcomeDiscarded})
	if err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	if completed != nil {
		t.Fatalf("discard must not produce an archive row")
	}

	if pub.count(events.TypeNewOrder) != 1 {
		t.Fatalf("expected 1 new-order event, got %d", pub.count(events.TypeNewOrder))
	}
	if pub.count(events.TypeOrderDeleted) != 1 {
		t.Fatalf("expected 1 order-deleted event, got %d", pub.count(events.TypeOrderDeleted))
	}
	if _, err := repo.FindByID(order.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("discarded order should be gone")
	}
}

func TestResetBookingPublishesAfterCommit(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)

	reservationID := uint(42)
	stored, _ := repo.FindByID(order.ID)
	stored.ReservationID = &reservationID
	repo.Update(stored)
	repo.reservations[reservationID] = true

	handler := NewResetBookingHandler(repo, pub)
	result, err := handler.Handle(ResetBookingCommand{OrderID: order.ID})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if result.TableNumber != 7 || result.ReservationID == nil || *result.ReservationID != reservationID {
		t.Fatalf("unexpected reset result: %+v", result)
	}

	if pub.count(events.TypeReservationDeleted) != 1 ||
		pub.count(events.TypeOrderUpdated) != 1 ||
		pub.count(events.TypeTableStatusUpdated) != 1 {
		t.Fatalf("expected exactly one event of each kind, got %v", pub.published)
	}

	if _, ok := repo.orders[order.ID]; ok {
		t.Fatalf("order should be deleted")
	}
	if repo.reservations[reservationID] {
		t.Fatalf("reservation should be deleted")
	}
	if repo.tables[7] {
		t.Fatalf("table occupancy should be deleted")
	}
}

func TestResetBookingFailureLeavesStateAndSilence(t *testing.T) {
	repo := newMemoryOrders()
	pub := &recordingPublisher{}
	order := placeTestOrder(t, repo, pub)
	eventsBefore := len(pub.published)

	repo.failReset = true
	handler := NewResetBookingHandler(repo, pub)
	if _, err := handler.Handle(ResetBookingCommand{OrderID: order.ID}); err == nil {
		t.Fatalf("expected reset to fail")
	}

	// Rolled back: order and table untouched, no events escaped.
	if _, ok := repo.orders[order.ID]; !ok {
		t.Fatalf("order must survive a failed reset")
	}
	if !repo.tables[7] {
		t.Fatalf("table occupancy must survive a failed reset")
	}
	if len(pub.published) != eventsBefore {
		t.Fatalf("no events may be published on a failed reset")
	}
}
