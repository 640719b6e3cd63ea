package pricing

import (
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// fixedNow pins the urgency reference date so tests are deterministic.
func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func day(date time.Time, baseCents int64, surge float64, booked, total int) model.InventoryDay {
	return model.InventoryDay{
		Date:           date,
		BasePriceCents: baseCents,
		SurgeFactor:    surge,
		BookedCount:    booked,
		TotalCount:     total,
	}
}

func TestNightlyCentsBaseSurgeUrgency(t *testing.T) {
	// 1000 base * 1.2 surge * 1.0 occupancy (empty) * 1.15 urgency = 1380.
	cfg := DefaultConfig()
	p := NewPipeline(cfg, fixedNow)

	d := day(fixedNow().AddDate(0, 0, 2), 1000, 1.2, 0, 10)
	if got := p.NightlyCents(d); got != 1380 {
		t.Fatalf("NightlyCents = %d, want 1380", got)
	}
}

func TestNightlyCentsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg, fixedNow)
	d := day(fixedNow().AddDate(0, 0, 3), 12345, 1.37, 4, 9)

	first := p.NightlyCents(d)
	for i := 0; i < 10; i++ {
		if got := p.NightlyCents(d); got != first {
			t.Fatalf("run %d: NightlyCents = %d, want %d", i, got, first)
		}
	}
}

func TestOccupancyBandsPickLastQualifying(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg, fixedNow)
	far := fixedNow().AddDate(0, 0, 30) // outside urgency window

	cases := []struct {
		booked, total int
		want          int64
	}{
		{0, 10, 1000},  // ratio 0.0 -> x1.0
		{4, 10, 1000},  // ratio 0.4 -> x1.0
		{5, 10, 1100},  // ratio 0.5 -> x1.1
		{7, 10, 1100},  // ratio 0.7 -> x1.1
		{8, 10, 1250},  // ratio 0.8 -> x1.25
		{10, 10, 1250}, // ratio 1.0 -> x1.25
	}
	for _, tc := range cases {
		d := day(far, 1000, 1.0, tc.booked, tc.total)
		if got := p.NightlyCents(d); got != tc.want {
			t.Errorf("booked=%d/%d: NightlyCents = %d, want %d", tc.booked, tc.total, got, tc.want)
		}
	}
}

func TestUrgencyWindowBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg, fixedNow)

	// Day 6 is inside the 7-day window, day 7 is the first day outside.
	inside := day(fixedNow().AddDate(0, 0, 6), 1000, 1.0, 0, 10)
	outside := day(fixedNow().AddDate(0, 0, 7), 1000, 1.0, 0, 10)

	if got := p.NightlyCents(inside); got != 1150 {
		t.Errorf("inside window: NightlyCents = %d, want 1150", got)
	}
	if got := p.NightlyCents(outside); got != 1000 {
		t.Errorf("outside window: NightlyCents = %d, want 1000", got)
	}
}

func TestHolidayMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Holidays = map[string]bool{"2025-12-25": true}
	p := NewPipeline(cfg, fixedNow)

	holiday := day(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), 1000, 1.0, 0, 10)
	plain := day(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), 1000, 1.0, 0, 10)

	if got := p.NightlyCents(holiday); got != 1250 {
		t.Errorf("holiday: NightlyCents = %d, want 1250", got)
	}
	if got := p.NightlyCents(plain); got != 1000 {
		t.Errorf("plain day: NightlyCents = %d, want 1000", got)
	}
}

func TestStageOrderMatters(t *testing.T) {
	// With both urgency and holiday multiplicative, order does not change
	// the product; prove order sensitivity with an additive test stage
	// instead: surcharge-then-surge differs from surge-then-surcharge.
	surcharge := func(price float64, _ model.InventoryDay) float64 { return price + 500 }

	d := day(fixedNow(), 1000, 2.0, 0, 10)

	first := NewPipelineStages(Base(), surcharge, Surge())
	second := NewPipelineStages(Base(), Surge(), surcharge)

	a := first.NightlyCents(d)  // (1000+500)*2 = 3000
	b := second.NightlyCents(d) // 1000*2+500 = 2500
	if a != 3000 || b != 2500 {
		t.Fatalf("stage order: got %d and %d, want 3000 and 2500", a, b)
	}
}

func TestTotalCentsMultipliesRooms(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg, fixedNow)
	far := fixedNow().AddDate(0, 0, 30)

	rows := []model.InventoryDay{
		day(far, 1000, 1.0, 0, 10),
		day(far.AddDate(0, 0, 1), 1000, 1.0, 5, 10),
	}
	// 1000 + 1100 per room, times 3 rooms.
	if got := p.TotalCents(rows, 3); got != 6300 {
		t.Fatalf("TotalCents = %d, want 6300", got)
	}
}

func TestZeroTotalDayKeepsPrice(t *testing.T) {
	p := NewPipelineStages(Base(), Occupancy(DefaultConfig().OccupancyBands))
	d := day(fixedNow(), 1000, 1.0, 0, 0)
	if got := p.NightlyCents(d); got != 1000 {
		t.Fatalf("NightlyCents = %d, want 1000", got)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	good := DefaultConfig()
	if err := good.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	unsorted := DefaultConfig()
	unsorted.OccupancyBands = []OccupancyBand{
		{Threshold: 0.8, Multiplier: 1.25},
		{Threshold: 0.5, Multiplier: 1.1},
	}
	if err := unsorted.Validate(); err == nil {
		t.Error("unsorted bands accepted")
	}

	negMult := DefaultConfig()
	negMult.UrgencyMultiplier = -1
	if err := negMult.Validate(); err == nil {
		t.Error("negative urgency multiplier accepted")
	}

	badDate := DefaultConfig()
	badDate.Holidays = map[string]bool{"not-a-date": true}
	if err := badDate.Validate(); err == nil {
		t.Error("malformed holiday date accepted")
	}

	empty := DefaultConfig()
	empty.OccupancyBands = nil
	if err := empty.Validate(); err == nil {
		t.Error("empty bands accepted")
	}
}

func TestParseOccupancyBands(t *testing.T) {
	bands, err := ParseOccupancyBands("0.8:1.25, 0:1.0, 0.5:1.1")
	if err != nil {
		t.Fatalf("ParseOccupancyBands: %v", err)
	}
	if len(bands) != 3 || bands[0].Threshold != 0 || bands[2].Multiplier != 1.25 {
		t.Fatalf("bands not sorted or parsed: %+v", bands)
	}
	if _, err := ParseOccupancyBands("0.5"); err == nil {
		t.Error("band without multiplier accepted")
	}
}

func TestParseHolidays(t *testing.T) {
	h, err := ParseHolidays("2025-12-25, 2026-01-01")
	if err != nil {
		t.Fatalf("ParseHolidays: %v", err)
	}
	if !h["2025-12-25"] || !h["2026-01-01"] {
		t.Fatalf("holidays missing: %v", h)
	}
	if _, err := ParseHolidays("25-12-2025"); err == nil {
		t.Error("malformed date accepted")
	}
}
