package user

import (
	"context"
	"errors"
	"strings"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/auth"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

// Tokens issues and verifies session tokens.
type Tokens interface {
	Generate(userID, email, role string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type Service interface {
	SignUp(ctx context.Context, in SignUpInput) (string, *User, error)
	SignIn(ctx context.Context, email, password string) (string, *User, error)
	CurrentSession(ctx context.Context, token string) (access.Actor, error)
	SessionUser(ctx context.Context, token string) (*User, error)
	Get(ctx context.Context, actor access.Actor, id string) (*User, error)
	UpdateProfile(ctx context.Context, actor access.Actor, id string, in UpdateProfileInput) (*User, error)
	ChangeRole(ctx context.Context, actor access.Actor, id string, role access.Role) (*User, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*User, error)
}

type service struct {
	repo   Repository
	tokens Tokens
}

func NewService(repo Repository, tokens Tokens) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) SignUp(ctx context.Context, in SignUpInput) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignUp"),
	)

	in.Email = utils.NormalizeEmail(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validation.Struct(in); err != nil {
		return "", nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		log.Warn("email already registered", zap.String("email", in.Email))
		return "", nil, ErrEmailExists
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return "", nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, apperr.Infrastructure("hash password", err)
	}

	u := &User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		Role:         access.RoleCustomer,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if apperr.FieldOf(err) == "email" {
			return "", nil, ErrEmailExists
		}
		return "", nil, err
	}

	token, err := s.tokens.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, apperr.Infrastructure("issue token", err)
	}

	log.Info("sign up completed", zap.String("user_id", u.ID))
	return token, u, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignIn"),
	)

	u, err := s.repo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Warn("sign in failed: unknown email")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("sign in failed: password mismatch", zap.String("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, apperr.Infrastructure("issue token", err)
	}
	return token, u, nil
}

// CurrentSession resolves a token to an Actor. The role comes from the user
// record, so a role change takes effect on the next request.
func (s *service) CurrentSession(ctx context.Context, token string) (access.Actor, error) {
	u, err := s.SessionUser(ctx, token)
	if err != nil {
		return access.Anonymous, err
	}
	return u.Actor(), nil
}

// SessionUser returns the user a token belongs to. The session is its own
// authority, so no policy check applies.
func (s *service) SessionUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperr.Unauthenticated()
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		logger.FromCtx(ctx).Debug("invalid session token", zap.Error(err))
		return nil, apperr.Unauthenticated()
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated()
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*User, error) {
	if err := access.Check(actor, access.EntityUser, access.OpRead, actor.UserID == id, false); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, actor access.Actor, id string, in UpdateProfileInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
	)

	if err := access.Check(actor, access.EntityUser, access.OpUpdate, actor.UserID == id, false); err != nil {
		log.Warn("profile update denied", zap.String("target", id))
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			u.Phone = nil
		} else {
			u.Phone = &phone
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangeRole(ctx context.Context, actor access.Actor, id string, role access.Role) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangeRole"),
	)

	// A role change is never an owner update. Callers without admin rights are
	// rejected before the lookup so the answer does not reveal whether id exists.
	if err := access.Check(actor, access.EntityUser, access.OpUpdate, false, false); err != nil {
		log.Warn("role change denied", zap.String("target", id), zap.String("to", string(role)))
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.CanAssignRole(actor, id, u.Role, role); err != nil {
		log.Warn("role change rejected",
			zap.String("target", id),
			zap.String("from", string(u.Role)),
			zap.String("to", string(role)),
		)
		return nil, err
	}

	prev := u.Role
	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	log.Info("role changed",
		zap.String("target", id),
		zap.String("from", string(prev)),
		zap.String("to", string(role)),
	)
	return u, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*User, error) {
	if err := access.Check(actor, access.EntityUser, access.OpRead, false, false); err != nil {
		return nil, err
	}
	if filter.Role != nil && !filter.Role.IsValid() {
		return nil, apperr.Validation("role", "invalid role %q", *filter.Role)
	}
	return s.repo.List(ctx, filter)
}
