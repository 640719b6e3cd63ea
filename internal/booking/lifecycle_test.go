package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/payment"
	"github.com/iliyamo/hotel-reservation/internal/pricing"
)

// fakeStore is an in-memory booking.Store.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Booking
	guests map[uint64][]model.Guest

	failCreate    bool
	failAddGuests bool

	// beforeSwap runs once before the next UpdateBookingStatusIf,
	// letting tests interleave a concurrent transition between a
	// manager's read and its swap.
	beforeSwap func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[uint64]*model.Booking{}, guests: map[uint64][]model.Guest{}}
}

func (s *fakeStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return errors.New("insert failed")
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	cp := *b
	s.rows[b.ID] = &cp
	return nil
}

func (s *fakeStore) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) GetBookingBySession(ctx context.Context, sessionID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.rows {
		if b.PaymentSessionID != nil && *b.PaymentSessionID == sessionID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (s *fakeStore) UpdateBookingStatusIf(ctx context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) (bool, error) {
	s.mu.Lock()
	hook := s.beforeSwap
	s.beforeSwap = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return false, ErrBookingNotFound
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) SetPaymentSession(ctx context.Context, id uint64, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentSessionID = &sessionID
	return nil
}

func (s *fakeStore) AddGuests(ctx context.Context, bookingID uint64, guests []model.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAddGuests {
		return errors.New("guest insert failed")
	}
	s.guests[bookingID] = append(s.guests[bookingID], guests...)
	return nil
}

func (s *fakeStore) guestCount(id uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.guests[id])
}

func (s *fakeStore) setStatus(id uint64, st model.BookingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].Status = st
}

// setCreatedAt rewinds a booking's creation time to simulate age.
func (s *fakeStore) setCreatedAt(id uint64, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].CreatedAt = t
}

func (s *fakeStore) status(id uint64) model.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[id].Status
}

// fakeUsers satisfies UserDirectory.
type fakeUsers struct{}

func (fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return model.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), Name: "Test User"}, nil
}

// fakeGateway satisfies payment.Gateway and records calls.
type fakeGateway struct {
	mu         sync.Mutex
	sessions   int
	refunds    int
	failRefund bool
}

func (g *fakeGateway) CreateSession(ctx context.Context, b *model.Booking, u model.User, successURL, failureURL string) (payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions++
	id := fmt.Sprintf("cs_test_%d", g.sessions)
	return payment.Session{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) RetrieveSession(ctx context.Context, sessionID string) (string, error) {
	return "pi_" + sessionID, nil
}

func (g *fakeGateway) Refund(ctx context.Context, paymentIntent string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failRefund {
		return "", fmt.Errorf("%w: refund declined", payment.ErrGatewayFailure)
	}
	g.refunds++
	return "re_" + paymentIntent, nil
}

type fixture struct {
	ledger  *inventory.MemoryLedger
	store   *fakeStore
	gateway *fakeGateway
	mgr     *Manager
	now     time.Time
	from    time.Time
	to      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:  inventory.NewMemoryLedger(),
		store:   newFakeStore(),
		gateway: &fakeGateway{},
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.from = f.now.AddDate(0, 0, 30)
	f.to = f.from.AddDate(0, 0, 2)
	seedRoom(f.ledger, 1, f.from, 3, 5, 1000)
	engine := NewEngine(f.ledger, pricing.NewPipeline(pricing.DefaultConfig(), func() time.Time { return f.now }))
	f.mgr = NewManager(f.store, fakeUsers{}, engine, f.gateway, func() time.Time { return f.now })
	return f
}

func (f *fixture) initiate(t *testing.T, userID uint64) *model.Booking {
	t.Helper()
	b, err := f.mgr.Initiate(context.Background(), userID, InitiateRequest{
		HotelID: 1, RoomID: 1, CheckIn: f.from, CheckOut: f.to, RoomsCount: 2,
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	return b
}

func (f *fixture) toConfirmed(t *testing.T, userID uint64) *model.Booking {
	t.Helper()
	b := f.initiate(t, userID)
	if _, err := f.mgr.AddGuests(context.Background(), userID, b.ID, []model.Guest{{Name: "A", Age: 30}}); err != nil {
		t.Fatalf("AddGuests: %v", err)
	}
	if _, err := f.mgr.InitiatePayment(context.Background(), userID, b.ID, "s", "f"); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	stored, _ := f.store.GetBooking(context.Background(), b.ID)
	confirmed, err := f.mgr.ConfirmPayment(context.Background(), *stored.PaymentSessionID)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	return confirmed
}

func TestInitiateReservesAndPrices(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)

	if b.Status != model.StatusReserved {
		t.Fatalf("status = %s, want RESERVED", b.Status)
	}
	// 3 nights x 1000 cents x 2 rooms, no adjustments that far out.
	if b.AmountCents != 6000 {
		t.Fatalf("amount = %d, want 6000", b.AmountCents)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 2 {
		t.Fatalf("reserved = %d, want 2", r.ReservedCount)
	}
}

func TestInitiateReleasesOnCreateFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failCreate = true

	_, err := f.mgr.Initiate(context.Background(), 7, InitiateRequest{
		HotelID: 1, RoomID: 1, CheckIn: f.from, CheckOut: f.to, RoomsCount: 2,
	})
	if err == nil {
		t.Fatal("expected create failure")
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 {
		t.Fatalf("reserved = %d after compensating release, want 0", r.ReservedCount)
	}
}

func TestFullLifecycleToConfirmed(t *testing.T) {
	f := newFixture(t)
	b := f.toConfirmed(t, 7)

	if b.Status != model.StatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", b.Status)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 2 || r.BookedCount != 2 {
		t.Fatalf("reserved=%d booked=%d, want 2 and 2", r.ReservedCount, r.BookedCount)
	}
}

func TestAddGuestsWrongOwner(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)

	_, err := f.mgr.AddGuests(context.Background(), 8, b.ID, []model.Guest{{Name: "X"}})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAddGuestsTwiceIsInvalid(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)

	if _, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	_, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "B"}})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestAddGuestsRevertsOnInsertFailure(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	f.store.failAddGuests = true

	_, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}})
	if err == nil {
		t.Fatal("expected guest insert failure")
	}
	if got := f.store.status(b.ID); got != model.StatusReserved {
		t.Fatalf("status = %s after failed insert, want RESERVED", got)
	}
	if n := f.store.guestCount(b.ID); n != 0 {
		t.Fatalf("guest rows = %d, want 0", n)
	}

	// The booking is still usable once the insert succeeds.
	f.store.failAddGuests = false
	if _, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}}); err != nil {
		t.Fatalf("AddGuests retry: %v", err)
	}
}

func TestAddGuestsLostSwapLeavesNoGuests(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	// A concurrent expiry wins between the manager's read and its swap.
	f.store.beforeSwap = func() { f.store.setStatus(b.ID, model.StatusExpired) }

	_, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if n := f.store.guestCount(b.ID); n != 0 {
		t.Fatalf("guest rows = %d on a booking that never reached GUESTS_ADDED, want 0", n)
	}
}

func TestConfirmPaymentFromWrongState(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	// Session recorded but booking never moved to PAYMENTS_PENDING.
	_ = f.store.SetPaymentSession(context.Background(), b.ID, "cs_rogue")

	_, err := f.mgr.ConfirmPayment(context.Background(), "cs_rogue")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestExpiredBookingRejectsGuestsAndReleases(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	f.store.setCreatedAt(b.ID, f.now.Add(-11*time.Minute))

	_, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}})
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
	if got := f.store.status(b.ID); got != model.StatusExpired {
		t.Fatalf("status = %s, want EXPIRED", got)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 {
		t.Fatalf("reserved = %d after expiry release, want 0", r.ReservedCount)
	}
}

func TestStatusAppliesLazyExpiry(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)

	// Inside the window the booking reads as RESERVED.
	st, err := f.mgr.Status(context.Background(), 7, b.ID)
	if err != nil || st != model.StatusReserved {
		t.Fatalf("Status = %s, %v; want RESERVED", st, err)
	}

	f.store.setCreatedAt(b.ID, f.now.Add(-11*time.Minute))
	st, err = f.mgr.Status(context.Background(), 7, b.ID)
	if err != nil || st != model.StatusExpired {
		t.Fatalf("Status = %s, %v; want EXPIRED", st, err)
	}
}

func TestExpiryReleasesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	f.store.setCreatedAt(b.ID, f.now.Add(-11*time.Minute))

	// Both a status poll and the sweep observe the stale booking; only
	// the swap winner releases, so the counter drops by exactly one
	// booking's worth.
	if _, err := f.mgr.Status(context.Background(), 7, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.Expire(context.Background(), b.ID); err != nil {
		t.Fatal(err)
	}

	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 {
		t.Fatalf("reserved = %d, want 0 (released exactly once)", r.ReservedCount)
	}
}

func TestConfirmedBookingDoesNotExpire(t *testing.T) {
	f := newFixture(t)
	b := f.toConfirmed(t, 7)
	f.store.setCreatedAt(b.ID, f.now.Add(-2*time.Hour))

	st, err := f.mgr.Status(context.Background(), 7, b.ID)
	if err != nil || st != model.StatusConfirmed {
		t.Fatalf("Status = %s, %v; want CONFIRMED", st, err)
	}
}

func TestLostExpirySwapReportsWinnerStatus(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)
	if _, err := f.mgr.AddGuests(context.Background(), 7, b.ID, []model.Guest{{Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.InitiatePayment(context.Background(), 7, b.ID, "s", "f"); err != nil {
		t.Fatal(err)
	}
	f.store.setCreatedAt(b.ID, f.now.Add(-11*time.Minute))
	// A payment confirmation wins between the expiry read and its swap.
	f.store.beforeSwap = func() { f.store.setStatus(b.ID, model.StatusConfirmed) }

	st, err := f.mgr.Status(context.Background(), 7, b.ID)
	if err != nil || st != model.StatusConfirmed {
		t.Fatalf("Status = %s, %v; want CONFIRMED after lost expiry swap", st, err)
	}
	// The loser must not release the winner's hold.
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 2 {
		t.Fatalf("reserved = %d, want 2 (no release on lost swap)", r.ReservedCount)
	}
}

func TestCancelReleasesAndRefunds(t *testing.T) {
	f := newFixture(t)
	b := f.toConfirmed(t, 7)

	if err := f.mgr.Cancel(context.Background(), 7, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := f.store.status(b.ID); got != model.StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", got)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 || r.BookedCount != 0 {
		t.Fatalf("reserved=%d booked=%d after cancel, want 0 and 0", r.ReservedCount, r.BookedCount)
	}
	if f.gateway.refunds != 1 {
		t.Fatalf("refunds = %d, want 1", f.gateway.refunds)
	}
}

func TestCancelCommitsEvenWhenRefundFails(t *testing.T) {
	f := newFixture(t)
	b := f.toConfirmed(t, 7)
	f.gateway.failRefund = true

	err := f.mgr.Cancel(context.Background(), 7, b.ID)
	if !errors.Is(err, payment.ErrGatewayFailure) {
		t.Fatalf("err = %v, want ErrGatewayFailure", err)
	}
	// The cancellation itself must have stuck.
	if got := f.store.status(b.ID); got != model.StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED despite refund failure", got)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 || r.BookedCount != 0 {
		t.Fatalf("ledger not released despite refund failure: reserved=%d booked=%d", r.ReservedCount, r.BookedCount)
	}
}

func TestCancelBeforeConfirmationIsInvalid(t *testing.T) {
	f := newFixture(t)
	b := f.initiate(t, 7)

	err := f.mgr.Cancel(context.Background(), 7, b.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestDoubleCancel(t *testing.T) {
	f := newFixture(t)
	b := f.toConfirmed(t, 7)

	if err := f.mgr.Cancel(context.Background(), 7, b.ID); err != nil {
		t.Fatal(err)
	}
	err := f.mgr.Cancel(context.Background(), 7, b.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second cancel = %v, want ErrInvalidState", err)
	}
	r, _ := f.ledger.Get(1, f.from)
	if r.ReservedCount != 0 {
		t.Fatalf("reserved = %d, double release happened", r.ReservedCount)
	}
}
