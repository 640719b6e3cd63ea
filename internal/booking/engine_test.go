package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/inventory"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/pricing"
)

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testEngine(l *inventory.MemoryLedger) *Engine {
	return NewEngine(l, pricing.NewPipeline(pricing.DefaultConfig(), testNow))
}

func seedRoom(l *inventory.MemoryLedger, roomID uint64, from time.Time, days, total int, baseCents int64) {
	for i := 0; i < days; i++ {
		l.Seed(model.InventoryDay{
			RoomID:         roomID,
			Date:           from.AddDate(0, 0, i),
			TotalCount:     total,
			BasePriceCents: baseCents,
			SurgeFactor:    1.0,
		})
	}
}

func TestReserveRangeIncrementsEveryDay(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 3, 5, 1000)
	e := testEngine(l)

	rows, total, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 2), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// Far future, no surge or occupancy: 1000 per night, 3 nights, 2 rooms.
	if total != 6000 {
		t.Fatalf("total = %d, want 6000", total)
	}
	for i := 0; i < 3; i++ {
		r, _ := l.Get(1, from.AddDate(0, 0, i))
		if r.ReservedCount != 2 {
			t.Fatalf("day %d: reserved = %d, want 2", i, r.ReservedCount)
		}
	}
}

func TestReserveRangeMissingDayLeavesNothing(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 2, 5, 1000) // third day missing
	e := testEngine(l)

	_, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 2), 1)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
	for i := 0; i < 2; i++ {
		r, _ := l.Get(1, from.AddDate(0, 0, i))
		if r.ReservedCount != 0 {
			t.Fatalf("day %d mutated after failed reserve", i)
		}
	}
}

func TestReserveRangeInsufficientCapacity(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 3, 5, 1000)
	// Middle day already holds 4 of 5.
	l.Seed(model.InventoryDay{RoomID: 1, Date: from.AddDate(0, 0, 1), TotalCount: 5, ReservedCount: 4, BasePriceCents: 1000, SurgeFactor: 1.0})
	e := testEngine(l)

	_, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 2), 2)
	if !errors.Is(err, inventory.ErrInsufficientCapacity) {
		t.Fatalf("err = %v, want ErrInsufficientCapacity", err)
	}
	r, _ := l.Get(1, from)
	if r.ReservedCount != 0 {
		t.Fatal("first day mutated after failed reserve")
	}
}

func TestReserveRangeInvertedRange(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 3, 5, 1000)
	e := testEngine(l)

	_, _, err := e.ReserveRange(context.Background(), 1, from.AddDate(0, 0, 2), from, 1)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
}

func TestReleaseRoundTrip(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 3, 5, 1000)
	e := testEngine(l)

	if _, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 2), 2); err != nil {
		t.Fatal(err)
	}
	if err := e.ReleaseRange(context.Background(), 1, from, from.AddDate(0, 0, 2), 2, false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		r, _ := l.Get(1, from.AddDate(0, 0, i))
		if r.ReservedCount != 0 {
			t.Fatalf("day %d: reserved = %d after release, want 0", i, r.ReservedCount)
		}
	}
}

func TestConfirmRange(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 2, 5, 1000)
	e := testEngine(l)

	if _, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 1), 1); err != nil {
		t.Fatal(err)
	}
	if err := e.ConfirmRange(context.Background(), 1, from, from.AddDate(0, 0, 1), 1); err != nil {
		t.Fatal(err)
	}
	r, _ := l.Get(1, from)
	if r.BookedCount != 1 || r.ReservedCount != 1 {
		t.Fatalf("after confirm: reserved=%d booked=%d, want 1 and 1", r.ReservedCount, r.BookedCount)
	}
}

// TestConcurrentReservationsNeverOversell races many goroutines for the
// same 5-unit room. Exactly capacity/roomsCount of them may win and the
// reserved counters must never exceed total.
func TestConcurrentReservationsNeverOversell(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 4, 5, 1000)
	e := testEngine(l)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 3), 1)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, inventory.ErrInsufficientCapacity) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 5 {
		t.Fatalf("wins = %d, want 5", wins)
	}
	for i := 0; i < 4; i++ {
		r, _ := l.Get(1, from.AddDate(0, 0, i))
		if r.ReservedCount != 5 {
			t.Fatalf("day %d: reserved = %d, want 5", i, r.ReservedCount)
		}
	}
}

// Two customers race for the last 3 units with 2 rooms each: one wins,
// one gets ErrInsufficientCapacity, and 1 unit stays free.
func TestConcurrentPartialCapacity(t *testing.T) {
	l := inventory.NewMemoryLedger()
	from := testNow().AddDate(0, 0, 30)
	seedRoom(l, 1, from, 2, 3, 1000)
	e := testEngine(l)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, _, err := e.ReserveRange(context.Background(), 1, from, from.AddDate(0, 0, 1), 2)
			errs <- err
		}()
	}
	var okCount, fullCount int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			okCount++
		case errors.Is(err, inventory.ErrInsufficientCapacity):
			fullCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || fullCount != 1 {
		t.Fatalf("okCount=%d fullCount=%d, want 1 and 1", okCount, fullCount)
	}
	r, _ := l.Get(1, from)
	if r.ReservedCount != 2 {
		t.Fatalf("reserved = %d, want 2", r.ReservedCount)
	}
}

func TestPricingAppliedPerDay(t *testing.T) {
	l := inventory.NewMemoryLedger()
	near := testNow().AddDate(0, 0, 2) // inside the 7-day urgency window
	l.Seed(model.InventoryDay{RoomID: 1, Date: near, TotalCount: 10, BasePriceCents: 1000, SurgeFactor: 1.2})
	e := testEngine(l)

	_, total, err := e.ReserveRange(context.Background(), 1, near, near, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 * 1.2 surge * 1.15 urgency = 1380.
	if total != 1380 {
		t.Fatalf("total = %d, want 1380", total)
	}
}
