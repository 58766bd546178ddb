package order

import (
	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/payment"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var next = map[Status]Status{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Transition decides whether role may move an order from one status to
// another. The back office advances orders one step at a time and may cancel
// any open order; a customer may only cancel while the order is pending or
// confirmed. Delivery requires a paid order unless override is set.
func Transition(from, to Status, role access.Role, paid payment.Status, override bool) error {
	if !to.IsValid() {
		return apperr.Validation("status", "invalid order status %q", to)
	}
	if from.IsTerminal() || from == to {
		return apperr.InvalidTransition("status", from, to)
	}

	if to == StatusCancelled {
		switch {
		case role.IsStaff():
			return nil
		case role == access.RoleCustomer && (from == StatusPending || from == StatusConfirmed):
			return nil
		}
		return apperr.InvalidTransition("status", from, to)
	}

	if !role.IsStaff() || next[from] != to {
		return apperr.InvalidTransition("status", from, to)
	}
	if to == StatusDelivered && paid != payment.StatusPaid && !override {
		return apperr.New(apperr.KindInvalidTransition, "paymentStatus",
			"order cannot be delivered while payment is %s", paid)
	}
	return nil
}
