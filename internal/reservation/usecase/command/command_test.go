package command

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/obeddx/notarichCafe-sub002/events"
	"github.com/obeddx/notarichCafe-sub002/internal/reservation/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// memoryReservations is an in-memory ReservationRepository.
type memoryReservations struct {
	reservations map[uint]*domain.Reservation
	nextID       uint

	failUpdate map[uint]bool
}

func newMemoryReservations() *memoryReservations {
	return &memoryReservations{
		reservations: make(map[uint]*domain.Reservation),
		failUpdate:   make(map[uint]bool),
	}
}

func (m *memoryReservations) Create(r *domain.Reservation) error {
	m.nextID++
	r.ID = m.nextID
	clone := *r
	m.reservations[r.ID] = &clone
	return nil
}

func (m *memoryReservations) FindByID(id uint) (*domain.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, apperr.NotFound("reservation %d not found", id)
}

func (m *memoryReservations) FindByCode(code string) (*domain.Reservation, error) {
	for _, r := range m.reservations {
		if r.BookingCode == code {
			clone := *r
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("reservation with code %s not found", code)
}

func (m *memoryReservations) FindAll(limit, offset int) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.reservations[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryReservations) Update(r *domain.Reservation) error {
	if m.failUpdate[r.ID] {
		return errors.New("injected update failure")
	}
	if _, ok := m.reservations[r.ID]; !ok {
		return apperr.NotFound("reservation %d not found", r.ID)
	}
	clone := *r
	m.reservations[r.ID] = &clone
	return nil
}

func (m *memoryReservations) Delete(id uint) error {
	if _, ok := m.reservations[id]; !ok {
		return apperr.NotFound("reservation %d not found", id)
	}
	delete(m.reservations, id)
	return nil
}

func (m *memoryReservations) FindExpired(now time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.reservations[id]; ok && r.Date.Before(now) && r.Status.Active() {
			out = append(out, *r)
		}
	}
	return out, nil
}

// fakeTables records occupy/release calls.
type fakeTables struct {
	occupied map[int]bool
}

func newFakeTables() *fakeTables {
	return &fakeTables{occupied: make(map[int]bool)}
}

func (f *fakeTables) OccupyTable(tableNumber int) error {
	f.occupied[tableNumber] = true
	return nil
}

func (f *fakeTables) ReleaseTable(tableNumber int) error {
	delete(f.occupied, tableNumber)
	return nil
}

type countingPublisher struct {
	counts map[events.Type]int
}

func newCountingPublisher() *countingPublisher {
	return &countingPublisher{counts: make(map[events.Type]int)}
}

func (p *countingPublisher) Publish(eventType events.Type, payload interface{}) {
	p.counts[eventType]++
}

func TestCreateReservationGeneratesCodeAndOccupiesTable(t *testing.T) {
	repo := newMemoryReservations()
	tables := newFakeTables()
	pub := newCountingPublisher()

	handler := NewCreateReservationHandler(repo, tables, pub)
	reservation, err := handler.Handle(CreateReservationCommand{
		CustomerName: "Budi",
		Date:         time.Now().Add(2 * time.Hour),
		PartySize:    4,
		TableNumber:  3,
	})
	if err != nil {
		t.Fatalf("create reservation failed: %v", err)
	}

	if reservation.Status != domain.StatusBooked {
		t.Fatalf("new reservation must be BOOKED, got %s", reservation.Status)
	}
	if !strings.HasPrefix(reservation.BookingCode, "RSV-") || len(reservation.BookingCode) != 12 {
		t.Fatalf("unexpected booking code %q", reservation.BookingCode)
	}
	if reservation.DurationMinutes != 90 {
		t.Fatalf("expected default duration 90, got %d", reservation.DurationMinutes)
	}
	if !tables.occupied[3] {
		t.Fatalf("table 3 should be occupied")
	}
	if pub.counts[events.TypeTableStatusUpdated] != 1 {
		t.Fatalf("expected one table status event")
	}
}

func TestCreateReservationValidation(t *testing.T) {
	handler := NewCreateReservationHandler(newMemoryReservations(), newFakeTables(), newCountingPublisher())

	cases := []CreateReservationCommand{
		{CustomerName: "", Date: time.Now(), PartySize: 2, TableNumber: 1},
		{CustomerName: "Budi", Date: time.Now(), PartySize: 2, TableNumber: 0},
		{CustomerName: "Budi", Date: time.Now(), PartySize: 0, TableNumber: 1},
		{CustomerName: "Budi", PartySize: 2, TableNumber: 1},
	}
	for i, cmd := range cases {
		if _, err := handler.Handle(cmd); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestSweepCompletesExpiredAndReleasesTables(t *testing.T) {
	repo := newMemoryReservations()
	tables := newFakeTables()
	pub := newCountingPublisher()
	now := time.Now()

	expired := &domain.Reservation{
		CustomerName: "Budi", Date: now.Add(-time.Hour),
		TableNumber: 3, Status: domain.StatusBooked,
	}
	upcoming := &domain.Reservation{
		CustomerName: "Sinta", Date: now.Add(time.Hour),
		TableNumber: 4, Status: domain.StatusBooked,
	}
	done := &domain.Reservation{
		CustomerName: "Andi", Date: now.Add(-2 * time.Hour),
		TableNumber: 5, Status: domain.StatusCompleted,
	}
	repo.Create(expired)
	repo.Create(upcoming)
	repo.Create(done)
	tables.OccupyTable(3)
	tables.OccupyTable(4)

	handler := NewSweepExpiredHandler(repo, tables, pub)
	result, err := handler.Handle(now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if result.Completed != 1 {
		t.Fatalf("expected exactly one reservation swept, got %d", result.Completed)
	}
	swept, _ := repo.FindByID(expired.ID)
	if swept.Status != domain.StatusCompleted {
		t.Fatalf("expired reservation not completed: %s", swept.Status)
	}
	untouched, _ := repo.FindByID(upcoming.ID)
	if untouched.Status != domain.StatusBooked {
		t.Fatalf("upcoming reservation must stay booked: %s", untouched.Status)
	}
	if tables.occupied[3] {
		t.Fatalf("table 3 should be released")
	}
	if !tables.occupied[4] {
		t.Fatalf("table 4 must stay occupied")
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	repo := newMemoryReservations()
	tables := newFakeTables()
	now := time.Now()

	first := &domain.Reservation{CustomerName: "A", Date: now.Add(-time.Hour), TableNumber: 1, Status: domain.StatusBooked}
	second := &domain.Reservation{CustomerName: "B", Date: now.Add(-time.Hour), TableNumber: 2, Status: domain.StatusReserved}
	repo.Create(first)
	repo.Create(second)
	repo.failUpdate[first.ID] = true

	handler := NewSweepExpiredHandler(repo, tables, newCountingPublisher())
	result, err := handler.Handle(now)
	if err != nil {
		t.Fatalf("sweep returned error despite best-effort contract: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("expected the healthy reservation swept, got %d", result.Completed)
	}
	if len(result.FailedIDs) != 1 || result.FailedIDs[0] != first.ID {
		t.Fatalf("expected reservation %d reported failed, got %v", first.ID, result.FailedIDs)
	}
}
