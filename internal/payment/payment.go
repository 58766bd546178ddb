// Package payment holds the payment axis of an order and the settlement
// instructions sent to buyers. Money is settled outside the system; staff
// record the outcome.
package payment

import (
	"tradehub-be/internal/apperr"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusFailed},
	StatusFailed:  {StatusPaid},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// Transition checks a payment status change. Paid is final; a failed
// payment may still be settled later.
func Transition(from, to Status) error {
	if !to.IsValid() {
		return apperr.Validation("paymentStatus", "invalid payment status %q", to)
	}
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return apperr.InvalidTransition("paymentStatus", from, to)
}
