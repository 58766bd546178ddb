package supplier

import (
	"context"
	"testing"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserChecker struct {
	mock.Mock
}

func (m *MockUserChecker) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

var (
	admin         = access.Actor{UserID: "admin-1", Role: access.RoleAdmin}
	staff         = access.Actor{UserID: "staff-1", Role: access.RoleStaff}
	supplierActor = access.Actor{UserID: "user-sup", Role: access.RoleSupplier}
	otherSupplier = access.Actor{UserID: "user-other", Role: access.RoleSupplier}
	customer      = access.Actor{UserID: "cust-1", Role: access.RoleCustomer}
)

func setup(t *testing.T) (Service, *MockUserChecker) {
	t.Helper()
	users := new(MockUserChecker)
	return NewService(NewRepository(docstore.NewMemory()), users), users
}

func createLinked(t *testing.T, svc Service, users *MockUserChecker) *Supplier {
	t.Helper()
	users.On("Exists", mock.Anything, "user-sup").Return(true, nil).Once()
	sup, err := svc.Create(context.Background(), admin, CreateInput{
		CompanyName: "Abyssinia Coffee Exporters",
		UserID:      utils.StrPtr("user-sup"),
	})
	require.NoError(t, err)
	return sup
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusApproved}:   true,
		{StatusPending, StatusRejected}:   true,
		{StatusApproved, StatusSuspended}: true,
	}
	all := []Status{StatusPending, StatusApproved, StatusRejected, StatusSuspended}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("StartsPending", func(t *testing.T) {
		svc, users := setup(t)
		sup := createLinked(t, svc, users)
		assert.Equal(t, StatusPending, sup.Status)
	})

	t.Run("UserLinkedTwice", func(t *testing.T) {
		svc, users := setup(t)
		createLinked(t, svc, users)

		users.On("Exists", mock.Anything, "user-sup").Return(true, nil)
		_, err := svc.Create(ctx, admin, CreateInput{CompanyName: "Dup", UserID: utils.StrPtr("user-sup")})
		assert.ErrorIs(t, err, ErrUserAlreadyLinked)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, users := setup(t)
		users.On("Exists", mock.Anything, "ghost").Return(false, nil)

		_, err := svc.Create(ctx, admin, CreateInput{CompanyName: "X", UserID: utils.StrPtr("ghost")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("SupplierCannotCreate", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Create(ctx, supplierActor, CreateInput{CompanyName: "X"})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})
}

func TestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc, users := setup(t)
	sup := createLinked(t, svc, users)

	_, err := svc.ChangeStatus(ctx, staff, sup.ID, StatusSuspended, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err := svc.ChangeStatus(ctx, staff, sup.ID, StatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	got, err = svc.ChangeStatus(ctx, staff, sup.ID, StatusSuspended, utils.StrPtr("late shipments"))
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, got.Status)

	_, err = svc.ChangeStatus(ctx, staff, sup.ID, StatusApproved, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.ChangeStatus(ctx, supplierActor, sup.ID, StatusApproved, nil)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, users := setup(t)
	sup := createLinked(t, svc, users)

	got, err := svc.UpdateProfile(ctx, supplierActor, sup.ID, ProfileInput{Phone: utils.StrPtr("+251 11 000")})
	require.NoError(t, err)
	assert.Equal(t, "+251 11 000", *got.Phone)
	assert.Equal(t, StatusPending, got.Status)

	_, err = svc.UpdateProfile(ctx, otherSupplier, sup.ID, ProfileInput{Phone: utils.StrPtr("1")})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = svc.UpdateProfile(ctx, supplierActor, sup.ID, ProfileInput{Website: utils.StrPtr("not a url")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Read(t *testing.T) {
	ctx := context.Background()
	svc, users := setup(t)
	sup := createLinked(t, svc, users)

	_, err := svc.Get(ctx, supplierActor, sup.ID)
	assert.NoError(t, err)

	_, err = svc.GetByUser(ctx, supplierActor, "user-sup")
	assert.NoError(t, err)

	_, err = svc.Get(ctx, customer, sup.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = svc.List(ctx, supplierActor, ListFilter{})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	pending := StatusPending
	list, err := svc.List(ctx, staff, ListFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
