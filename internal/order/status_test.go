package order

import (
	"testing"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/payment"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func TestTransition_Staff(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:    true,
		{StatusConfirmed, StatusProcessing}: true,
		{StatusProcessing, StatusShipped}:   true,
		{StatusShipped, StatusDelivered}:    true,
		{StatusPending, StatusCancelled}:    true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusProcessing, StatusCancelled}: true,
		{StatusShipped, StatusCancelled}:    true,
	}

	for _, role := range []access.Role{access.RoleStaff, access.RoleAdmin, access.RoleSuperAdmin} {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				err := Transition(from, to, role, payment.StatusPaid, false)
				if allowed[[2]Status{from, to}] {
					assert.NoError(t, err, "%s: %s -> %s", role, from, to)
				} else {
					assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s: %s -> %s", role, from, to)
				}
			}
		}
	}
}

func TestTransition_Customer(t *testing.T) {
	assert.NoError(t, Transition(StatusPending, StatusCancelled, access.RoleCustomer, payment.StatusPending, false))
	assert.NoError(t, Transition(StatusConfirmed, StatusCancelled, access.RoleCustomer, payment.StatusPending, false))

	for _, from := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		err := Transition(from, StatusCancelled, access.RoleCustomer, payment.StatusPending, false)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition, from)
	}

	// Customers never advance an order.
	err := Transition(StatusPending, StatusConfirmed, access.RoleCustomer, payment.StatusPaid, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestTransition_DeliveredIsTerminal(t *testing.T) {
	for _, role := range []access.Role{access.RoleCustomer, access.RoleStaff, access.RoleSuperAdmin} {
		for _, to := range allStatuses {
			err := Transition(StatusDelivered, to, role, payment.StatusPaid, true)
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		}
	}
}

func TestTransition_DeliveryNeedsPayment(t *testing.T) {
	err := Transition(StatusShipped, StatusDelivered, access.RoleStaff, payment.StatusPending, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, "paymentStatus", apperr.FieldOf(err))

	err = Transition(StatusShipped, StatusDelivered, access.RoleStaff, payment.StatusFailed, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	assert.NoError(t, Transition(StatusShipped, StatusDelivered, access.RoleStaff, payment.StatusPending, true))
}

func TestTransition_UnknownStatus(t *testing.T) {
	err := Transition(StatusPending, "lost", access.RoleStaff, payment.StatusPaid, false)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
