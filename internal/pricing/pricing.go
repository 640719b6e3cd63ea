// Package pricing computes nightly prices for inventory days by folding
// an ordered chain of adjustment stages over a base rate. Each stage
// receives the already-adjusted price from the stage before it, so the
// composition is order-sensitive; swapping two stages with both
// conditions active yields a different total.
package pricing

import (
	"math"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Stage is one pricing adjustment. It receives the price produced by
// the previous stage and the inventory day being priced, and returns
// the adjusted price. Stages never fail for valid input; anything that
// could fail is validated when the configuration is loaded.
type Stage func(price float64, day model.InventoryDay) float64

// Pipeline applies its stages in order. The default order is
// Base, Surge, Occupancy, Urgency, Holiday.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds the default pipeline from cfg. The now function
// supplies the reference date for the urgency stage; pass time.Now in
// production.
func NewPipeline(cfg Config, now func() time.Time) *Pipeline {
	return NewPipelineStages(
		Base(),
		Surge(),
		Occupancy(cfg.OccupancyBands),
		Urgency(cfg.UrgencyWindowDays, cfg.UrgencyMultiplier, now),
		Holiday(cfg.Holidays, cfg.HolidayMultiplier),
	)
}

// NewPipelineStages builds a pipeline with an explicit stage order.
func NewPipelineStages(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// NightlyCents returns the fully adjusted price for one day, rounded to
// the nearest cent.
func (p *Pipeline) NightlyCents(day model.InventoryDay) int64 {
	price := 0.0
	for _, s := range p.stages {
		price = s(price, day)
	}
	return int64(math.Round(price))
}

// TotalCents sums the nightly price of every row times roomsCount.
func (p *Pipeline) TotalCents(rows []model.InventoryDay, roomsCount int) int64 {
	var total int64
	for _, day := range rows {
		total += p.NightlyCents(day) * int64(roomsCount)
	}
	return total
}

// Base seeds the chain with the day's base rate, ignoring whatever
// came before it.
func Base() Stage {
	return func(_ float64, day model.InventoryDay) float64 {
		return float64(day.BasePriceCents)
	}
}

// Surge multiplies by the day's externally supplied demand factor.
func Surge() Stage {
	return func(price float64, day model.InventoryDay) float64 {
		return price * day.SurgeFactor
	}
}

// Occupancy multiplies by a factor derived from how full the day
// already is. Bands must be sorted by ascending threshold; the last
// band whose threshold does not exceed booked/total wins.
func Occupancy(bands []OccupancyBand) Stage {
	return func(price float64, day model.InventoryDay) float64 {
		if day.TotalCount <= 0 {
			return price
		}
		ratio := float64(day.BookedCount) / float64(day.TotalCount)
		mult := 1.0
		for _, b := range bands {
			if ratio >= b.Threshold {
				mult = b.Multiplier
			}
		}
		return price * mult
	}
}

// Urgency multiplies near-term stays. A day falling within
// [today, today+windowDays) gets the multiplier; everything else is
// unchanged.
func Urgency(windowDays int, multiplier float64, now func() time.Time) Stage {
	return func(price float64, day model.InventoryDay) float64 {
		today := dateOnly(now())
		d := dateOnly(day.Date)
		if !d.Before(today) && d.Before(today.AddDate(0, 0, windowDays)) {
			return price * multiplier
		}
		return price
	}
}

// Holiday multiplies designated peak dates.
func Holiday(holidays map[string]bool, multiplier float64) Stage {
	return func(price float64, day model.InventoryDay) float64 {
		if holidays[dateOnly(day.Date).Format("2006-01-02")] {
			return price * multiplier
		}
		return price
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
