package user

import (
	"context"
	"testing"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string, role access.Role) *User {
	return &User{Email: email, DisplayName: "Test", Role: role, PasswordHash: "hash"}
}

func TestRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	u := newUser("a@b.co", access.RoleCustomer)
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	got, err := repo.FindByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByEmail(ctx, "none@b.co")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	ok, err := repo.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", byID.Email)
}

func TestRepository_CreateRejectsInvalid(t *testing.T) {
	repo := NewRepository(docstore.NewMemory())

	err := repo.Create(context.Background(), newUser("not-an-email", access.RoleCustomer))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "email", apperr.FieldOf(err))

	err = repo.Create(context.Background(), newUser("a@b.co", access.Role("pirate")))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "role", apperr.FieldOf(err))
}

func TestRepository_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	a := newUser("a@b.co", access.RoleCustomer)
	b := newUser("b@b.co", access.RoleStaff)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	a.Role = access.RoleSupplier
	require.NoError(t, repo.Update(ctx, a))

	role := access.RoleSupplier
	suppliers, err := repo.List(ctx, ListFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, a.ID, suppliers[0].ID)

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
