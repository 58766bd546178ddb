package supplier

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, id string) (*Supplier, error)
	GetByUser(ctx context.Context, userID string) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	List(ctx context.Context, filter ListFilter) ([]*Supplier, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	suppliers *docstore.Collection[Supplier, *Supplier]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{suppliers: docstore.NewCollection[Supplier](store, Collection, "supplier")}
}

func (r *repository) Create(ctx context.Context, s *Supplier) error {
	return r.suppliers.Insert(ctx, s)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Supplier, error) {
	return r.suppliers.Get(ctx, id)
}

func (r *repository) GetByUser(ctx context.Context, userID string) (*Supplier, error) {
	return r.suppliers.FindOne(ctx, docstore.Eq("userId", userID))
}

func (r *repository) Update(ctx context.Context, s *Supplier) error {
	_, err := r.suppliers.Save(ctx, s)
	return err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Supplier, error) {
	q := docstore.Query{
		Sort:   []docstore.Sort{{Field: "companyName"}},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Status != nil {
		q.Filters = append(q.Filters, docstore.Eq("status", string(*filter.Status)))
	}
	return r.suppliers.Find(ctx, q)
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.suppliers.Count(ctx, docstore.Eq("status", string(status)))
}
