package pricing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OccupancyBand maps an occupancy ratio threshold to a multiplier.
// A band applies to days whose booked/total ratio is at or above its
// threshold, until the next band takes over.
type OccupancyBand struct {
	Threshold  float64
	Multiplier float64
}

// Config carries every tunable of the pipeline. The occupancy curve
// and the holiday calendar are deployment configuration, not code;
// Validate is called once at startup so that price calculation itself
// can never fail.
type Config struct {
	UrgencyWindowDays int
	UrgencyMultiplier float64
	HolidayMultiplier float64
	Holidays          map[string]bool // keys are YYYY-MM-DD
	OccupancyBands    []OccupancyBand // sorted by ascending threshold
}

// DefaultConfig returns the built-in tuning: a 7-day urgency window at
// x1.15, holidays at x1.25 and a three-band occupancy curve.
func DefaultConfig() Config {
	return Config{
		UrgencyWindowDays: 7,
		UrgencyMultiplier: 1.15,
		HolidayMultiplier: 1.25,
		Holidays:          map[string]bool{},
		OccupancyBands: []OccupancyBand{
			{Threshold: 0.0, Multiplier: 1.0},
			{Threshold: 0.5, Multiplier: 1.1},
			{Threshold: 0.8, Multiplier: 1.25},
		},
	}
}

// Validate rejects configurations that would make pricing undefined at
// calculation time: non-positive multipliers, an unsorted occupancy
// curve or thresholds outside [0, 1].
func (c Config) Validate() error {
	if c.UrgencyWindowDays < 0 {
		return fmt.Errorf("pricing: urgency window must not be negative, got %d", c.UrgencyWindowDays)
	}
	if c.UrgencyMultiplier <= 0 {
		return fmt.Errorf("pricing: urgency multiplier must be positive, got %g", c.UrgencyMultiplier)
	}
	if c.HolidayMultiplier <= 0 {
		return fmt.Errorf("pricing: holiday multiplier must be positive, got %g", c.HolidayMultiplier)
	}
	if len(c.OccupancyBands) == 0 {
		return fmt.Errorf("pricing: at least one occupancy band is required")
	}
	prev := -1.0
	for _, b := range c.OccupancyBands {
		if b.Threshold < 0 || b.Threshold > 1 {
			return fmt.Errorf("pricing: occupancy threshold %g outside [0,1]", b.Threshold)
		}
		if b.Threshold <= prev {
			return fmt.Errorf("pricing: occupancy bands must be sorted by ascending threshold")
		}
		if b.Multiplier <= 0 {
			return fmt.Errorf("pricing: occupancy multiplier must be positive, got %g", b.Multiplier)
		}
		prev = b.Threshold
	}
	for d := range c.Holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("pricing: invalid holiday date %q", d)
		}
	}
	return nil
}

// ParseOccupancyBands parses a "threshold:multiplier,..." string such
// as "0:1.0,0.5:1.1,0.8:1.25" into a sorted band list.
func ParseOccupancyBands(s string) ([]OccupancyBand, error) {
	var bands []OccupancyBand
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		th, mult, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("pricing: invalid occupancy band %q", part)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(th), 64)
		if err != nil {
			return nil, fmt.Errorf("pricing: invalid occupancy threshold %q", th)
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(mult), 64)
		if err != nil {
			return nil, fmt.Errorf("pricing: invalid occupancy multiplier %q", mult)
		}
		bands = append(bands, OccupancyBand{Threshold: t, Multiplier: m})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Threshold < bands[j].Threshold })
	return bands, nil
}

// ParseHolidays parses a comma-separated list of YYYY-MM-DD dates.
func ParseHolidays(s string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", part); err != nil {
			return nil, fmt.Errorf("pricing: invalid holiday date %q", part)
		}
		out[part] = true
	}
	return out, nil
}
