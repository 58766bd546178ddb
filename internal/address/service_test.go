package address

import (
	"context"
	"testing"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer = access.Actor{UserID: "cust-1", Role: access.RoleCustomer}
	other    = access.Actor{UserID: "cust-2", Role: access.RoleCustomer}
	staff    = access.Actor{UserID: "staff-1", Role: access.RoleStaff}
)

func input(line1 string, def bool) Input {
	return Input{
		ReceiverName: "Abebe",
		Phone:        "+251911000000",
		Line1:        line1,
		City:         "Addis Ababa",
		Country:      "Ethiopia",
		SetAsDefault: def,
	}
}

func setup() (Service, Repository) {
	repo := NewRepository(docstore.NewMemory())
	return NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("First address becomes default", func(t *testing.T) {
		svc, _ := setup()
		a, err := svc.Create(ctx, customer, input("Bole Road 1", false))
		require.NoError(t, err)
		assert.True(t, a.IsDefault)
		assert.True(t, a.IsActive)
		assert.Equal(t, "cust-1", a.UserID)

		b, err := svc.Create(ctx, customer, input("Bole Road 2", false))
		require.NoError(t, err)
		assert.False(t, b.IsDefault)
	})

	t.Run("New default clears the old one", func(t *testing.T) {
		svc, _ := setup()
		a, err := svc.Create(ctx, customer, input("Bole Road 1", false))
		require.NoError(t, err)
		b, err := svc.Create(ctx, customer, input("Bole Road 2", true))
		require.NoError(t, err)

		list, err := svc.List(ctx, customer)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.True(t, list[0].IsDefault)
		assert.Equal(t, a.ID, list[1].ID)
		assert.False(t, list[1].IsDefault)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := setup()
		in := input("", false)
		_, err := svc.Create(ctx, customer, in)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Anonymous", func(t *testing.T) {
		svc, _ := setup()
		_, err := svc.Create(ctx, access.Actor{}, input("Bole Road 1", false))
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		_, err = svc.List(ctx, access.Actor{})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()
	a, err := svc.Create(ctx, customer, input("Bole Road 1", false))
	require.NoError(t, err)

	got, err := svc.Get(ctx, customer, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Line1, got.Line1)

	_, err = svc.Get(ctx, other, a.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = svc.Get(ctx, staff, a.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, customer, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup()
	old, err := svc.Create(ctx, customer, input("Bole Road 1", false))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, customer, old.ID, input("Bole Road 9", false))
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, updated.ID)
	assert.True(t, updated.IsDefault, "default flag carries over")

	stored, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "Bole Road 1", stored.Line1)

	_, err = svc.Get(ctx, customer, old.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = svc.Update(ctx, other, updated.ID, input("Elsewhere", false))
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = svc.Update(ctx, staff, updated.ID, input("Elsewhere", false))
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestService_DeleteAndSetDefault(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()
	a, err := svc.Create(ctx, customer, input("Bole Road 1", false))
	require.NoError(t, err)
	b, err := svc.Create(ctx, customer, input("Bole Road 2", false))
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, customer, b.ID))
	list, err := svc.List(ctx, customer)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	assert.ErrorIs(t, svc.SetDefault(ctx, other, a.ID), apperr.ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, customer, b.ID))
	list, err = svc.List(ctx, customer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, customer, b.ID), ErrAddressNotFound)
	assert.ErrorIs(t, svc.SetDefault(ctx, customer, b.ID), ErrAddressNotFound)
}

func TestShippingLine(t *testing.T) {
	a := &Address{
		ReceiverName: "Abebe",
		Phone:        "+251911000000",
		Line1:        "Bole Road 1",
		Line2:        utils.StrPtr("Floor 3"),
		City:         "Addis Ababa",
		PostalCode:   utils.StrPtr("1000"),
		Country:      "Ethiopia",
	}
	assert.Equal(t, "Abebe, +251911000000, Bole Road 1, Floor 3, Addis Ababa 1000, Ethiopia", ShippingLine(a))

	a.Line2 = nil
	a.PostalCode = nil
	a.Province = utils.StrPtr("Oromia")
	assert.Equal(t, "Abebe, +251911000000, Bole Road 1, Addis Ababa, Oromia, Ethiopia", ShippingLine(a))
}
