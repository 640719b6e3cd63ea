package repository

import (
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Search rows carry room prices unchanged, in the same signed cents
// representation the rest of the money path uses.
func TestSearchRowCarriesRoomPrice(t *testing.T) {
	rm := model.Room{BasePriceCents: 12345}
	row := AvailableRoomRow{
		BasePriceCents: rm.BasePriceCents,
		BasePrice:      float64(rm.BasePriceCents) / 100.0,
	}
	if row.BasePriceCents != 12345 {
		t.Fatalf("base_price_cents = %d, want 12345", row.BasePriceCents)
	}
	if row.BasePrice != 123.45 {
		t.Fatalf("base_price = %v, want 123.45", row.BasePrice)
	}
}
