package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/cache"
	"tradehub-be/internal/category"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/storage"
	"tradehub-be/internal/supplier"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const (
	cachePrefix  = "product:"
	imageFolder  = "products"
	defaultLimit = 20
	maxLimit     = 100
)

type CategoryLookup interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
}

type SupplierLookup interface {
	GetByID(ctx context.Context, id string) (*supplier.Supplier, error)
	GetByUser(ctx context.Context, userID string) (*supplier.Supplier, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Product, error)
	Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Product, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
	Get(ctx context.Context, actor access.Actor, id string) (*Product, error)
	GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Product, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) (*ListResult, error)
	ListBySupplier(ctx context.Context, actor access.Actor, supplierID string, page, limit int) (*ListResult, error)
	RecordView(ctx context.Context, actor access.Actor, id string) (int64, error)
	AttachImage(ctx context.Context, actor access.Actor, id, filename, contentType string, body io.Reader) (*Product, error)
	RemoveImage(ctx context.Context, actor access.Actor, id, publicID string) (*Product, error)
}

type service struct {
	repo       Repository
	categories CategoryLookup
	suppliers  SupplierLookup
	uploader   storage.Uploader
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewService(repo Repository, categories CategoryLookup, suppliers SupplierLookup, uploader storage.Uploader, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{
		repo:       repo,
		categories: categories,
		suppliers:  suppliers,
		uploader:   uploader,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if err := access.Check(actor, access.EntityProduct, access.OpCreate, false, false); err != nil {
		log.Warn("create product denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p := &Product{
		Name:             in.Name,
		Slug:             utils.Slugify(in.Name, in.Slug),
		Description:      in.Description,
		CategoryID:       in.CategoryID,
		SupplierID:       in.SupplierID,
		Price:            in.Price.Round(2),
		Currency:         in.Currency,
		Unit:             strings.TrimSpace(in.Unit),
		MinOrderQuantity: 1,
		Origin:           in.Origin,
		IsActive:         in.IsActive == nil || *in.IsActive,
		IsFeatured:       in.IsFeatured,
		Tags:             normalizeTags(in.Tags),
		Specifications:   in.Specifications,
		Images:           []storage.Object{},
	}
	if in.MinOrderQuantity != nil {
		p.MinOrderQuantity = *in.MinOrderQuantity
	}

	if err := s.checkRefs(ctx, p.CategoryID, p.SupplierID); err != nil {
		log.Warn("product references rejected", zap.Error(err))
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, p.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	log.Info("product created", zap.String("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (s *service) Update(ctx context.Context, actor access.Actor, id string, in UpdateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	if err := access.Check(actor, access.EntityProduct, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, apperr.Validation("price", "price must not be negative")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Name != nil || in.Slug != nil {
		next := utils.Slugify(p.Name, in.Slug)
		if next != p.Slug {
			if err := s.ensureSlugFree(ctx, next, p.ID); err != nil {
				return nil, err
			}
			p.Slug = next
		}
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.CategoryID != nil || in.SupplierID != nil {
		catID := p.CategoryID
		if in.CategoryID != nil {
			catID = *in.CategoryID
		}
		var supID *string
		if in.SupplierID != nil && *in.SupplierID != "" {
			supID = in.SupplierID
		}
		if err := s.checkRefs(ctx, catID, supID); err != nil {
			log.Warn("product references rejected", zap.Error(err))
			return nil, err
		}
		p.CategoryID = catID
		if in.SupplierID != nil {
			p.SupplierID = supID
		}
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinOrderQuantity != nil {
		p.MinOrderQuantity = *in.MinOrderQuantity
	}
	if in.Origin != nil {
		p.Origin = in.Origin
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(in.Tags)
	}
	if in.Specifications != nil {
		p.Specifications = in.Specifications
	}

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	log.Info("product updated")
	return p, nil
}

// Delete hard-deletes the product and then drops its media. A media delete
// failure is logged and does not fail the call.
func (s *service) Delete(ctx context.Context, actor access.Actor, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.String("product_id", id),
	)

	if err := access.Check(actor, access.EntityProduct, access.OpDelete, false, false); err != nil {
		return err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete product", zap.Error(err))
		return err
	}

	for _, img := range p.Images {
		if err := s.uploader.Delete(ctx, img.PublicID); err != nil {
			log.Warn("failed to delete product image", zap.String("public_id", img.PublicID), zap.Error(err))
		}
	}

	s.invalidate(ctx)
	log.Info("product deleted")
	return nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRead(ctx, actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetBySlug(ctx context.Context, actor access.Actor, slug string) (*Product, error) {
	p, err := cache.GetOrLoad(ctx, s.cache, cachePrefix+"slug:"+slug, s.cacheTTL, func() (*Product, error) {
		return s.repo.GetBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkRead(ctx, actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List pages through the catalog. Only back-office callers see inactive
// products.
func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) (*ListResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
	)

	if actor.IsAnonymous() || !actor.Role.IsStaff() {
		filter.ActiveOnly = true
	}
	if err := access.Check(actor, access.EntityProduct, access.OpRead, false, filter.ActiveOnly); err != nil {
		return nil, err
	}
	normalizePage(&filter)

	start := time.Now()
	res, err := cache.GetOrLoad(ctx, s.cache, listKey(filter), s.cacheTTL, func() (*ListResult, error) {
		return s.list(ctx, filter)
	})
	if err != nil {
		log.Error("failed to list products", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	log.Debug("list products success",
		zap.Int("count", len(res.Items)),
		zap.Int64("total", res.Total),
		zap.Int("page", filter.Page),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// ListBySupplier lists a supplier's products. The supplier itself and the
// back office see inactive ones as well.
func (s *service) ListBySupplier(ctx context.Context, actor access.Actor, supplierID string, page, limit int) (*ListResult, error) {
	filter := ListFilter{SupplierID: &supplierID, Page: page, Limit: limit}

	isOwner, err := s.ownsSupplier(ctx, actor, supplierID)
	if err != nil {
		return nil, err
	}
	if !isOwner && (actor.IsAnonymous() || !actor.Role.IsStaff()) {
		filter.ActiveOnly = true
	}
	if err := access.Check(actor, access.EntityProduct, access.OpRead, isOwner, filter.ActiveOnly); err != nil {
		return nil, err
	}
	normalizePage(&filter)
	return s.list(ctx, filter)
}

// RecordView bumps the view counter of a product the actor may read and
// returns the new count.
func (s *service) RecordView(ctx context.Context, actor access.Actor, id string) (int64, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return 0, err
	}
	p.Views++
	if err := s.repo.Update(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to record product view", zap.String("product_id", id), zap.Error(err))
		return 0, err
	}
	cache.Invalidate(ctx, s.cache, []string{cachePrefix + "slug:" + p.Slug}, cachePrefix+"list:")
	return p.Views, nil
}

// AttachImage uploads an image and appends it to the product. If the product
// cannot be saved afterwards the uploaded object is removed again.
func (s *service) AttachImage(ctx context.Context, actor access.Actor, id, filename, contentType string, body io.Reader) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AttachProductImage"),
		zap.String("product_id", id),
	)

	if err := access.Check(actor, access.EntityProduct, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("file", "only image uploads are accepted")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	obj, err := s.uploader.Upload(ctx, imageFolder, filename, contentType, io.LimitReader(body, storage.MaxUploadSize))
	if err != nil {
		log.Error("image upload failed", zap.Error(err))
		return nil, err
	}

	p.Images = append(p.Images, obj)
	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to save product image, removing upload",
			zap.String("public_id", obj.PublicID),
			zap.Error(err),
		)
		if derr := s.uploader.Delete(ctx, obj.PublicID); derr != nil {
			log.Error("compensating image delete failed", zap.String("public_id", obj.PublicID), zap.Error(derr))
		}
		return nil, err
	}

	s.invalidate(ctx)
	log.Info("product image attached", zap.String("public_id", obj.PublicID))
	return p, nil
}

func (s *service) RemoveImage(ctx context.Context, actor access.Actor, id, publicID string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RemoveProductImage"),
		zap.String("product_id", id),
	)

	if err := access.Check(actor, access.EntityProduct, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make([]storage.Object, 0, len(p.Images))
	for _, img := range p.Images {
		if img.PublicID != publicID {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(p.Images) {
		return nil, ErrImageNotFound
	}
	p.Images = kept

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to remove product image", zap.Error(err))
		return nil, err
	}
	if err := s.uploader.Delete(ctx, publicID); err != nil {
		log.Warn("stored image left behind", zap.String("public_id", publicID), zap.Error(err))
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *service) list(ctx context.Context, filter ListFilter) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *service) checkRead(ctx context.Context, actor access.Actor, p *Product) error {
	isOwner := false
	if p.SupplierID != nil {
		owns, err := s.ownsSupplier(ctx, actor, *p.SupplierID)
		if err != nil {
			return err
		}
		isOwner = owns
	}
	return access.Check(actor, access.EntityProduct, access.OpRead, isOwner, p.IsPublic())
}

// ownsSupplier reports whether actor is the user linked to supplierID.
func (s *service) ownsSupplier(ctx context.Context, actor access.Actor, supplierID string) (bool, error) {
	if actor.IsAnonymous() || actor.Role != access.RoleSupplier {
		return false, nil
	}
	sup, err := s.suppliers.GetByUser(ctx, actor.UserID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return sup.ID == supplierID, nil
}

func (s *service) checkRefs(ctx context.Context, categoryID string, supplierID *string) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if supplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, *supplierID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return ErrSupplierNotFound
			}
			return err
		}
	}
	return nil
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

func (s *service) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, nil, cachePrefix)
}

func normalizePage(f *ListFilter) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	} else if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func listKey(f ListFilter) string {
	featured := ""
	if f.Featured != nil {
		featured = fmt.Sprint(*f.Featured)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%t:%s:%d:%d",
		cachePrefix,
		utils.PtrString(f.CategoryID),
		utils.PtrString(f.SupplierID),
		utils.PtrString(f.Currency),
		featured,
		f.ActiveOnly,
		f.Sort,
		f.Page,
		f.Limit,
	)
}
