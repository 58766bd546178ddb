package category

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Category, error)
	CountChildren(ctx context.Context, id string) (int64, error)
}

type repository struct {
	categories *docstore.Collection[Category, *Category]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{categories: docstore.NewCollection[Category](store, Collection, "category")}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	return r.categories.Insert(ctx, c)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	return r.categories.Get(ctx, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return r.categories.FindOne(ctx, docstore.Eq("slug", slug))
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	_, err := r.categories.Save(ctx, c)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.categories.Delete(ctx, id)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Category, error) {
	q := docstore.Query{Sort: []docstore.Sort{
		{Field: "order", Numeric: true},
		{Field: "name"},
	}}
	if filter.Type != nil {
		q.Filters = append(q.Filters, docstore.Eq("type", string(*filter.Type)))
	}
	switch {
	case filter.RootOnly:
		q.Filters = append(q.Filters, docstore.Eq("parentId", nil))
	case filter.ParentID != nil:
		q.Filters = append(q.Filters, docstore.Eq("parentId", *filter.ParentID))
	}
	if filter.ActiveOnly {
		q.Filters = append(q.Filters, docstore.Eq("isActive", true))
	}
	return r.categories.Find(ctx, q)
}

func (r *repository) CountChildren(ctx context.Context, id string) (int64, error) {
	return r.categories.Count(ctx, docstore.Eq("parentId", id))
}
