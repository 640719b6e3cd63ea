package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// Action names a lifecycle operation applied to a booking. Together
// with the current status it indexes the transition table below.
type Action string

const (
	ActionAddGuests       Action = "ADD_GUESTS"
	ActionInitiatePayment Action = "INITIATE_PAYMENT"
	ActionConfirmPayment  Action = "CONFIRM_PAYMENT"
	ActionCancel          Action = "CANCEL"
	ActionExpire          Action = "EXPIRE"
)

// transitions is the explicit state machine: current status x action
// -> next status. Anything absent from the table is an illegal move
// and surfaces as ErrInvalidState; terminal states have no outgoing
// edges except that EXPIRE is implicit on every non-terminal state
// (handled by the lazy expiry guard, not by this table).
var transitions = map[model.BookingStatus]map[Action]model.BookingStatus{
	model.StatusReserved: {
		ActionAddGuests:       model.StatusGuestsAdded,
		ActionInitiatePayment: model.StatusPaymentsPending,
		ActionExpire:          model.StatusExpired,
	},
	model.StatusGuestsAdded: {
		ActionInitiatePayment: model.StatusPaymentsPending,
		ActionExpire:          model.StatusExpired,
	},
	model.StatusPaymentsPending: {
		ActionConfirmPayment: model.StatusConfirmed,
		ActionExpire:         model.StatusExpired,
	},
	model.StatusConfirmed: {
		ActionCancel: model.StatusCancelled,
	},
}

// Next resolves the status a booking moves to when action is applied
// in the given state. It returns ErrInvalidState for moves the table
// does not permit.
func Next(current model.BookingStatus, action Action) (model.BookingStatus, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	return "", ErrInvalidState
}
