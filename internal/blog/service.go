package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Post, error)
	Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Post, error)
	Publish(ctx context.Context, actor access.Actor, id string) (*Post, error)
	Unpublish(ctx context.Context, actor access.Actor, id string) (*Post, error)
	GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Post, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Post, error)
	RecordView(ctx context.Context, actor access.Actor, id string) (*Post, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePost"),
	)

	if err := access.Check(actor, access.EntityBlogPost, access.OpCreate, false, false); err != nil {
		log.Warn("create post denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p := &Post{
		Title:      in.Title,
		Slug:       utils.Slugify(in.Title, in.Slug),
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		AuthorID:   actor.UserID,
		Category:   in.Category,
		Tags:       in.Tags,
	}
	if actor.Email != "" {
		p.AuthorName = utils.StrPtr(actor.Email)
	}
	if in.Publish {
		p.publish(s.now().UTC())
	}
	if err := s.ensureSlugFree(ctx, p.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create post", zap.Error(err))
		return nil, err
	}
	log.Info("post created", zap.String("post_id", p.ID), zap.Bool("published", p.IsPublished))
	return p, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdatePost"),
		zap.String("post_id", id),
	)

	if err := access.Check(actor, access.EntityBlogPost, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Title != nil || in.Slug != nil {
		next := utils.Slugify(p.Title, in.Slug)
		if next != p.Slug {
			if err := s.ensureSlugFree(ctx, next, p.ID); err != nil {
				return nil, err
			}
			p.Slug = next
		}
	}
	if in.Excerpt != nil {
		p.Excerpt = in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.CoverImage != nil {
		p.CoverImage = in.CoverImage
	}
	if in.Category != nil {
		p.Category = in.Category
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to update post", zap.Error(err))
		return nil, err
	}
	log.Info("post updated")
	return p, nil
}

// Publish makes p public. publishedAt is stamped on the first publish only.
func (s *service) Publish(ctx context.Context, actor access.Actor, id string) (*Post, error) {
	return s.setPublished(ctx, actor, id, true)
}

// Unpublish hides p again and keeps its original publishedAt.
func (s *service) Unpublish(ctx context.Context, actor access.Actor, id string) (*Post, error) {
	return s.setPublished(ctx, actor, id, false)
}

func (s *service) setPublished(ctx context.Context, actor access.Actor, id string, publish bool) (*Post, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetPublished"),
		zap.String("post_id", id),
		zap.Bool("publish", publish),
	)

	if err := access.Check(actor, access.EntityBlogPost, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsPublished == publish {
		return p, nil
	}

	if publish {
		p.publish(s.now().UTC())
	} else {
		p.IsPublished = false
	}
	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to change publish state", zap.Error(err))
		return nil, err
	}
	log.Info("post publish state changed")
	return p, nil
}

func (s *service) GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityBlogPost, access.OpRead, false, p.IsPublic()); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns posts newest first. Drafts are listed for the back office only.
func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Post, error) {
	if !actor.Role.IsStaff() {
		filter.PublishedOnly = true
	}
	if err := access.Check(actor, access.EntityBlogPost, access.OpRead, false, filter.PublishedOnly); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	} else if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *service) RecordView(ctx context.Context, actor access.Actor, id string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityBlogPost, access.OpRead, false, p.IsPublic()); err != nil {
		return nil, err
	}

	p.Views++
	if err := s.repo.Update(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to record post view", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *service) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	if slug == "" {
		return apperr.Validation("slug", "slug cannot be derived from title")
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

func (p *Post) publish(at time.Time) {
	p.IsPublished = true
	if p.PublishedAt == nil {
		p.PublishedAt = &at
	}
}
