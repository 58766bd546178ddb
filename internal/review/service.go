package review

import (
	"context"
	"errors"
	"math"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/product"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Review, error)
	ListByProduct(ctx context.Context, actor access.Actor, productID string) ([]*Review, error)
	ListMine(ctx context.Context, actor access.Actor) ([]*Review, error)
	Summary(ctx context.Context, productID string) (Summary, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
}

type service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) Service {
	return &service{repo: repo, products: products}
}

// Create records a customer's review of an active product. Each customer
// reviews a product once.
func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateReview"),
		zap.String("product_id", in.ProductID),
	)

	if err := access.Check(actor, access.EntityReview, access.OpCreate, false, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, in.ProductID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil, ErrProductUnavailable
	case err != nil:
		return nil, err
	case !p.IsActive:
		return nil, ErrProductUnavailable
	}

	_, err = s.repo.Find(ctx, in.ProductID, actor.UserID)
	switch {
	case err == nil:
		return nil, ErrAlreadyReviewed
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	r := &Review{
		ProductID:  in.ProductID,
		CustomerID: actor.UserID,
		Rating:     in.Rating,
		Title:      in.Title,
		Comment:    in.Comment,
	}
	if actor.Email != "" {
		name := actor.Email
		r.CustomerName = &name
	}
	if err := s.repo.Create(ctx, r); err != nil {
		log.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	log.Info("review created", zap.String("review_id", r.ID), zap.Int("rating", r.Rating))
	return r, nil
}

// ListByProduct returns every review of the product to the back office and
// only the caller's own review to anyone else.
func (s *service) ListByProduct(ctx context.Context, actor access.Actor, productID string) ([]*Review, error) {
	if actor.Role.IsStaff() {
		if err := access.Check(actor, access.EntityReview, access.OpRead, false, false); err != nil {
			return nil, err
		}
		return s.repo.ListByProduct(ctx, productID)
	}

	if err := access.Check(actor, access.EntityReview, access.OpRead, true, false); err != nil {
		return nil, err
	}
	r, err := s.repo.Find(ctx, productID, actor.UserID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return []*Review{}, nil
	case err != nil:
		return nil, err
	}
	return []*Review{r}, nil
}

func (s *service) ListMine(ctx context.Context, actor access.Actor) ([]*Review, error) {
	if err := access.Check(actor, access.EntityReview, access.OpRead, true, false); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, actor.UserID)
}

// Summary aggregates ratings for a product page.
func (s *service) Summary(ctx context.Context, productID string) (Summary, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return Summary{}, err
	}
	if len(reviews) == 0 {
		return Summary{}, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return Summary{Count: len(reviews), Average: math.Round(avg*100) / 100}, nil
}

// Delete is back-office moderation.
func (s *service) Delete(ctx context.Context, actor access.Actor, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteReview"),
		zap.String("review_id", id),
	)

	if err := access.Check(actor, access.EntityReview, access.OpDelete, false, false); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info("review removed", zap.String("by", actor.UserID))
	return nil
}
