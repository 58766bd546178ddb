package supplier

import (
	"context"
	"errors"
	"strings"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

// UserChecker confirms a user account exists before it is linked.
type UserChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Supplier, error)
	UpdateProfile(ctx context.Context, actor access.Actor, id string, in ProfileInput) (*Supplier, error)
	ChangeStatus(ctx context.Context, actor access.Actor, id string, status Status, reason *string) (*Supplier, error)
	Get(ctx context.Context, actor access.Actor, id string) (*Supplier, error)
	GetByUser(ctx context.Context, actor access.Actor, userID string) (*Supplier, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Supplier, error)
}

type service struct {
	repo  Repository
	users UserChecker
}

func NewService(repo Repository, users UserChecker) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Supplier, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateSupplier"),
	)

	if err := access.Check(actor, access.EntitySupplier, access.OpCreate, false, false); err != nil {
		return nil, err
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if in.UserID != nil {
		if err := s.checkLinkable(ctx, *in.UserID); err != nil {
			log.Warn("supplier link rejected", zap.String("user_id", *in.UserID), zap.Error(err))
			return nil, err
		}
	}

	sup := &Supplier{
		CompanyName:       in.CompanyName,
		UserID:            in.UserID,
		ContactName:       in.ContactName,
		Email:             in.Email,
		Phone:             in.Phone,
		Country:           in.Country,
		Address:           in.Address,
		Website:           in.Website,
		Description:       in.Description,
		ProductCategories: in.ProductCategories,
		Status:            StatusPending,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		log.Error("failed to create supplier", zap.Error(err))
		return nil, err
	}

	log.Info("supplier created", zap.String("supplier_id", sup.ID))
	return sup, nil
}

func (s *service) UpdateProfile(ctx context.Context, actor access.Actor, id string, in ProfileInput) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntitySupplier, access.OpUpdate, sup.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if in.CompanyName != nil {
		sup.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.ContactName != nil {
		sup.ContactName = in.ContactName
	}
	if in.Email != nil {
		sup.Email = in.Email
	}
	if in.Phone != nil {
		sup.Phone = in.Phone
	}
	if in.Country != nil {
		sup.Country = in.Country
	}
	if in.Address != nil {
		sup.Address = in.Address
	}
	if in.Website != nil {
		sup.Website = in.Website
	}
	if in.Description != nil {
		sup.Description = in.Description
	}
	if in.ProductCategories != nil {
		sup.ProductCategories = in.ProductCategories
	}

	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// ChangeStatus applies pending→approved|rejected or approved→suspended.
// Owners may edit their profile but never their status.
func (s *service) ChangeStatus(ctx context.Context, actor access.Actor, id string, status Status, reason *string) (*Supplier, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangeSupplierStatus"),
		zap.String("supplier_id", id),
	)

	if err := access.Check(actor, access.EntitySupplier, access.OpUpdate, false, false); err != nil {
		return nil, err
	}

	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(sup.Status, status) {
		log.Warn("invalid supplier transition",
			zap.String("from", string(sup.Status)),
			zap.String("to", string(status)),
		)
		return nil, apperr.InvalidTransition("status", sup.Status, status)
	}

	prev := sup.Status
	sup.Status = status
	sup.StatusReason = reason
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}

	log.Info("supplier status changed",
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
	)
	return sup, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntitySupplier, access.OpRead, sup.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetByUser(ctx context.Context, actor access.Actor, userID string) (*Supplier, error) {
	sup, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntitySupplier, access.OpRead, sup.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Supplier, error) {
	if err := access.Check(actor, access.EntitySupplier, access.OpRead, false, false); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

func (s *service) checkLinkable(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	_, err = s.repo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		return ErrUserAlreadyLinked
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}
