package address

import (
	"context"

	"tradehub-be/internal/docstore"
	"tradehub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Address, error)
	GetByID(ctx context.Context, id string) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Deactivate(ctx context.Context, id string) error
	ClearDefault(ctx context.Context, userID string) error
	SetDefault(ctx context.Context, userID, id string) error
}

type repository struct {
	addresses *docstore.Collection[Address, *Address]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{addresses: docstore.NewCollection[Address](store, Collection, "address")}
}

// ListByUser returns the active addresses, default first, then newest.
func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Address, error) {
	return r.addresses.Find(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("userId", userID), docstore.Eq("isActive", true)},
		Sort: []docstore.Sort{
			{Field: "isDefault", Desc: true},
			{Field: docstore.FieldCreatedAt, Desc: true},
		},
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Address, error) {
	return r.addresses.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, a *Address) error {
	return r.addresses.Insert(ctx, a)
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	a, err := r.addresses.Get(ctx, id)
	if err != nil {
		return err
	}
	a.IsActive = false
	a.IsDefault = false
	_, err = r.addresses.Save(ctx, a)
	return err
}

func (r *repository) ClearDefault(ctx context.Context, userID string) error {
	return r.addresses.Each(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("userId", userID), docstore.Eq("isDefault", true)},
	}, func(a *Address) error {
		a.IsDefault = false
		_, err := r.addresses.Save(ctx, a)
		return err
	})
}

func (r *repository) SetDefault(ctx context.Context, userID, id string) error {
	a, err := r.addresses.Get(ctx, id)
	if err != nil {
		return err
	}
	if !a.OwnedBy(userID) || !a.IsActive {
		return ErrAddressNotFound
	}
	if err := r.ClearDefault(ctx, userID); err != nil {
		return err
	}

	// Clearing may have rewritten a.
	if a, err = r.addresses.Get(ctx, id); err != nil {
		return err
	}
	a.IsDefault = true
	if _, err := r.addresses.Save(ctx, a); err != nil {
		logger.FromCtx(ctx).Error("failed to set default address",
			zap.String("address_id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}
