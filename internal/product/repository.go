package product

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	products *docstore.Collection[Product, *Product]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{products: docstore.NewCollection[Product](store, Collection, "product")}
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.products.Insert(ctx, p)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.products.Get(ctx, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.products.FindOne(ctx, docstore.Eq("slug", slug))
}

// Update saves p. The view counter never moves backwards: a write carrying a
// stale count keeps the stored one.
func (r *repository) Update(ctx context.Context, p *Product) error {
	stored, err := r.products.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	if stored.Views > p.Views {
		p.Views = stored.Views
	}
	_, err = r.products.Save(ctx, p)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.products.Delete(ctx, id)
}

// List returns one page of products and the total match count. filter.Page
// and filter.Limit are expected to be normalized already.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Product, int64, error) {
	var filters []docstore.Filter
	if filter.CategoryID != nil {
		filters = append(filters, docstore.Eq("categoryId", *filter.CategoryID))
	}
	if filter.SupplierID != nil {
		filters = append(filters, docstore.Eq("supplierId", *filter.SupplierID))
	}
	if filter.Currency != nil {
		filters = append(filters, docstore.Eq("currency", *filter.Currency))
	}
	if filter.Featured != nil {
		filters = append(filters, docstore.Eq("isFeatured", *filter.Featured))
	}
	if filter.ActiveOnly {
		filters = append(filters, docstore.Eq("isActive", true))
	}

	total, err := r.products.Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	q := docstore.Query{
		Filters: filters,
		Sort:    sortFor(filter.Sort),
		Limit:   filter.Limit,
		Offset:  (filter.Page - 1) * filter.Limit,
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	items, err := r.products.Find(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.products.Count(ctx, docstore.Eq("categoryId", categoryID))
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	return r.products.Count(ctx)
}

func sortFor(s SortBy) []docstore.Sort {
	switch s {
	case SortPriceAsc:
		return []docstore.Sort{{Field: "price", Numeric: true}}
	case SortPriceDesc:
		return []docstore.Sort{{Field: "price", Numeric: true, Desc: true}}
	case SortPopular:
		return []docstore.Sort{{Field: "views", Numeric: true, Desc: true}}
	case SortName:
		return []docstore.Sort{{Field: "name"}}
	default:
		return []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}}
	}
}
