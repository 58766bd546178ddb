package review

import (
	"context"
	"testing"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/product"
	"tradehub-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

var (
	customer = access.Actor{UserID: "cust-1", Email: "buyer@example.com", Role: access.RoleCustomer}
	other    = access.Actor{UserID: "cust-2", Role: access.RoleCustomer}
	staff    = access.Actor{UserID: "staff-1", Role: access.RoleStaff}
	sup      = access.Actor{UserID: "sup-1", Role: access.RoleSupplier}
)

func setup(t *testing.T) Service {
	t.Helper()
	products := new(MockProductLookup)
	products.On("GetByID", mock.Anything, "p-active").Return(&product.Product{Meta: docstore.Meta{ID: "p-active"}, IsActive: true}, nil)
	products.On("GetByID", mock.Anything, "p-hidden").Return(&product.Product{Meta: docstore.Meta{ID: "p-hidden"}}, nil)
	products.On("GetByID", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("product"))
	return NewService(NewRepository(docstore.NewMemory()), products)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("customer reviews an active product", func(t *testing.T) {
		svc := setup(t)
		r, err := svc.Create(ctx, customer, CreateInput{ProductID: "p-active", Rating: 4, Comment: utils.StrPtr("Good beans")})
		require.NoError(t, err)
		assert.Equal(t, "cust-1", r.CustomerID)
		assert.Equal(t, "buyer@example.com", utils.PtrString(r.CustomerName))

		_, err = svc.Create(ctx, customer, CreateInput{ProductID: "p-active", Rating: 5})
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})

	t.Run("rating bounds", func(t *testing.T) {
		svc := setup(t)
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Create(ctx, customer, CreateInput{ProductID: "p-active", Rating: rating})
			assert.Equal(t, "rating", apperr.FieldOf(err), "rating %d", rating)
		}
	})

	t.Run("inactive or missing product", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.Create(ctx, customer, CreateInput{ProductID: "p-hidden", Rating: 3})
		assert.ErrorIs(t, err, ErrProductUnavailable)
		_, err = svc.Create(ctx, customer, CreateInput{ProductID: "nope", Rating: 3})
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("only customers review", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.Create(ctx, staff, CreateInput{ProductID: "p-active", Rating: 3})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
		_, err = svc.Create(ctx, access.Actor{UserID: "admin-1", Role: access.RoleAdmin}, CreateInput{ProductID: "p-active", Rating: 3})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
		_, err = svc.Create(ctx, sup, CreateInput{ProductID: "p-active", Rating: 3})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
		_, err = svc.Create(ctx, access.Actor{}, CreateInput{ProductID: "p-active", Rating: 3})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestService_Read(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Create(ctx, customer, CreateInput{ProductID: "p-active", Rating: 4})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, other, CreateInput{ProductID: "p-active", Rating: 5})
	require.NoError(t, err)

	all, err := svc.ListByProduct(ctx, staff, "p-active")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListByProduct(ctx, customer, "p-active")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "cust-1", own[0].CustomerID)

	_, err = svc.ListByProduct(ctx, access.Actor{}, "p-active")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	mine, err := svc.ListMine(ctx, other)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, theirs.ID, mine[0].ID)

	sum, err := svc.Summary(ctx, "p-active")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 4.5, sum.Average, 0.001)

	assert.ErrorIs(t, svc.Delete(ctx, customer, theirs.ID), apperr.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, staff, theirs.ID))
	assert.ErrorIs(t, svc.Delete(ctx, staff, theirs.ID), apperr.ErrNotFound)

	sum, err = svc.Summary(ctx, "p-active")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
}
