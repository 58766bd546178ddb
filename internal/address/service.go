package address

import (
	"context"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

// Service manages the caller's own address book.
type Service interface {
	List(ctx context.Context, actor access.Actor) ([]*Address, error)
	Get(ctx context.Context, actor access.Actor, id string) (*Address, error)
	Create(ctx context.Context, actor access.Actor, in Input) (*Address, error)
	Update(ctx context.Context, actor access.Actor, id string, in Input) (*Address, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
	SetDefault(ctx context.Context, actor access.Actor, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]*Address, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthenticated()
	}
	if err := access.Check(actor, access.EntityAddress, access.OpRead, true, false); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Debug("listing addresses",
		zap.String("layer", "service"),
		zap.String("user_id", actor.UserID),
	)
	return s.repo.ListByUser(ctx, actor.UserID)
}

// Get hides other users' and deactivated entries behind NotFound.
func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetAddress"),
		zap.String("address_id", id),
	)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityAddress, access.OpRead, a.OwnedBy(actor.UserID), false); err != nil {
		log.Warn("address access denied", zap.String("user_id", actor.UserID))
		return nil, ErrAddressNotFound
	}
	if !a.IsActive {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

// Create stores a new address. The first address a user saves becomes the
// default.
func (s *service) Create(ctx context.Context, actor access.Actor, in Input) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateAddress"),
		zap.String("user_id", actor.UserID),
	)

	if err := access.Check(actor, access.EntityAddress, access.OpCreate, true, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, log, actor.UserID, in, len(existing) == 0)
}

// Update replaces the entry: the old address is deactivated and a new one
// takes its place, inheriting the default flag.
func (s *service) Update(ctx context.Context, actor access.Actor, id string, in Input) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateAddress"),
		zap.String("address_id", id),
	)

	old, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if err := s.repo.Deactivate(ctx, old.ID); err != nil {
		log.Error("failed to deactivate address", zap.Error(err))
		return nil, err
	}
	a, err := s.store(ctx, log, actor.UserID, in, old.IsDefault)
	if err != nil {
		return nil, err
	}

	log.Info("address replaced", zap.String("new_id", a.ID))
	return a, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteAddress"),
		zap.String("address_id", id),
	)

	if _, err := s.owned(ctx, actor, id, access.OpDelete); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		log.Error("failed to deactivate address", zap.Error(err))
		return err
	}

	log.Info("address deleted")
	return nil
}

func (s *service) SetDefault(ctx context.Context, actor access.Actor, id string) error {
	if _, err := s.owned(ctx, actor, id, access.OpUpdate); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, actor.UserID, id)
}

func (s *service) owned(ctx context.Context, actor access.Actor, id string, op access.Operation) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityAddress, op, a.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

func (s *service) store(ctx context.Context, log *zap.Logger, userID string, in Input, makeDefault bool) (*Address, error) {
	a := fromInput(userID, in)
	a.IsDefault = a.IsDefault || makeDefault
	if a.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		log.Error("failed to create address", zap.Error(err))
		return nil, err
	}
	log.Info("address created", zap.String("address_id", a.ID), zap.Bool("default", a.IsDefault))
	return a, nil
}
