package booking

import (
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from   model.BookingStatus
		action Action
		to     model.BookingStatus
		ok     bool
	}{
		{model.StatusReserved, ActionAddGuests, model.StatusGuestsAdded, true},
		{model.StatusReserved, ActionInitiatePayment, model.StatusPaymentsPending, true},
		{model.StatusReserved, ActionExpire, model.StatusExpired, true},
		{model.StatusGuestsAdded, ActionInitiatePayment, model.StatusPaymentsPending, true},
		{model.StatusGuestsAdded, ActionExpire, model.StatusExpired, true},
		{model.StatusPaymentsPending, ActionConfirmPayment, model.StatusConfirmed, true},
		{model.StatusPaymentsPending, ActionExpire, model.StatusExpired, true},
		{model.StatusConfirmed, ActionCancel, model.StatusCancelled, true},

		// Illegal moves.
		{model.StatusReserved, ActionConfirmPayment, "", false},
		{model.StatusReserved, ActionCancel, "", false},
		{model.StatusGuestsAdded, ActionAddGuests, "", false},
		{model.StatusPaymentsPending, ActionAddGuests, "", false},
		{model.StatusConfirmed, ActionExpire, "", false},
		{model.StatusConfirmed, ActionConfirmPayment, "", false},
		{model.StatusCancelled, ActionCancel, "", false},
		{model.StatusExpired, ActionAddGuests, "", false},
	}
	for _, tc := range cases {
		got, err := Next(tc.from, tc.action)
		if tc.ok {
			if err != nil {
				t.Errorf("Next(%s, %s): unexpected error %v", tc.from, tc.action, err)
			} else if got != tc.to {
				t.Errorf("Next(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.to)
			}
			continue
		}
		if err != ErrInvalidState {
			t.Errorf("Next(%s, %s) = %v, want ErrInvalidState", tc.from, tc.action, err)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !model.StatusCancelled.Terminal() || !model.StatusExpired.Terminal() {
		t.Error("CANCELLED and EXPIRED must be terminal")
	}
	for _, s := range []model.BookingStatus{
		model.StatusReserved, model.StatusGuestsAdded, model.StatusPaymentsPending, model.StatusConfirmed,
	} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
