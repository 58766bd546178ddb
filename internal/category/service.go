package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/cache"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const (
	cachePrefix  = "category:"
	maxTreeDepth = 32
)

// ProductCounter reports how many products reference a category.
type ProductCounter interface {
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Category, error)
	Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Category, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
	Get(ctx context.Context, actor access.Actor, id string) (*Category, error)
	GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Category, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Category, error)
}

type service struct {
	repo     Repository
	products ProductCounter
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, products ProductCounter, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{repo: repo, products: products, cache: c, cacheTTL: cacheTTL}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCategory"),
	)

	if err := access.Check(actor, access.EntityCategory, access.OpCreate, false, false); err != nil {
		log.Warn("create category denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := &Category{
		Name:        in.Name,
		Slug:        utils.Slugify(in.Name, in.Slug),
		Description: in.Description,
		Type:        in.Type,
		Order:       in.Order,
		IsActive:    in.IsActive == nil || *in.IsActive,
		ImageURL:    in.ImageURL,
	}
	if err := s.ensureSlugFree(ctx, c.Slug, ""); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, "", *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = in.ParentID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	log.Info("category created", zap.String("category_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateCategory"),
		zap.String("category_id", id),
	)

	if err := access.Check(actor, access.EntityCategory, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Name != nil || in.Slug != nil {
		next := utils.Slugify(c.Name, in.Slug)
		if next != c.Slug {
			if err := s.ensureSlugFree(ctx, next, c.ID); err != nil {
				return nil, err
			}
			c.Slug = next
		}
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
	switch {
	case in.ClearParent:
		c.ParentID = nil
	case in.ParentID != nil:
		if err := s.checkParent(ctx, c.ID, *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = in.ParentID
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.ImageURL != nil {
		c.ImageURL = in.ImageURL
	}

	if err := s.repo.Update(ctx, c); err != nil {
		log.Error("failed to update category", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	log.Info("category updated")
	return c, nil
}

// Delete removes a category that nothing references.
func (s *service) Delete(ctx context.Context, actor access.Actor, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteCategory"),
		zap.String("category_id", id),
	)

	if err := access.Check(actor, access.EntityCategory, access.OpDelete, false, false); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		log.Warn("delete blocked by child categories", zap.Int64("children", children))
		return ErrHasChildren
	}

	products, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		log.Warn("delete blocked by products", zap.Int64("products", products))
		return ErrHasProducts
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	log.Info("category deleted")
	return nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityCategory, access.OpRead, false, c.IsPublic()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Category, error) {
	c, err := cache.GetOrLoad(ctx, s.cache, cachePrefix+"slug:"+slug, s.cacheTTL, func() (*Category, error) {
		return s.repo.GetBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityCategory, access.OpRead, false, c.IsPublic()); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns categories ordered by (order, name). Callers outside the back
// office only ever see active categories.
func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Category, error) {
	if !actor.Role.IsStaff() || actor.IsAnonymous() {
		filter.ActiveOnly = true
	}
	if err := access.Check(actor, access.EntityCategory, access.OpRead, false, filter.ActiveOnly); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%slist:%s:%s:%t:%t", cachePrefix, ptrType(filter.Type), utils.PtrString(filter.ParentID), filter.RootOnly, filter.ActiveOnly)
	return cache.GetOrLoad(ctx, s.cache, key, s.cacheTTL, func() ([]*Category, error) {
		return s.repo.List(ctx, filter)
	})
}

func (s *service) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	if slug == "" {
		return apperr.Validation("slug", "slug cannot be derived from name")
	}
	existing, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case err == nil && existing.ID != selfID:
		return ErrSlugTaken
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return err
	}
	return nil
}

// checkParent verifies parentID exists and that attaching selfID under it
// does not create a cycle.
func (s *service) checkParent(ctx context.Context, selfID, parentID string) error {
	if parentID == "" {
		return ErrParentNotFound
	}
	if parentID == selfID {
		return ErrParentCycle
	}

	cur := parentID
	for depth := 0; cur != ""; depth++ {
		if depth >= maxTreeDepth {
			return ErrParentCycle
		}
		p, err := s.repo.GetByID(ctx, cur)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				if cur == parentID {
					return ErrParentNotFound
				}
				return nil
			}
			return err
		}
		if selfID != "" && p.ID == selfID {
			return ErrParentCycle
		}
		cur = utils.PtrString(p.ParentID)
	}
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, nil, cachePrefix)
}

func ptrType(t *Type) string {
	if t == nil {
		return ""
	}
	return string(*t)
}
