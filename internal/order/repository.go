package order

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	Each(ctx context.Context, filter ListFilter, fn func(*Order) error) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	orders *docstore.Collection[Order, *Order]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{orders: docstore.NewCollection[Order](store, Collection, "order")}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	return r.orders.Insert(ctx, o)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	return r.orders.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, o *Order) error {
	_, err := r.orders.Save(ctx, o)
	return err
}

// List returns orders newest first.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return r.orders.Find(ctx, query(filter))
}

func (r *repository) Each(ctx context.Context, filter ListFilter, fn func(*Order) error) error {
	return r.orders.Each(ctx, query(filter), fn)
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.orders.Count(ctx, docstore.Eq("status", string(status)))
}

func query(filter ListFilter) docstore.Query {
	q := docstore.Query{
		Sort:   []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.CustomerID != nil {
		q.Filters = append(q.Filters, docstore.Eq("customerId", *filter.CustomerID))
	}
	if filter.Status != nil {
		q.Filters = append(q.Filters, docstore.Eq("status", string(*filter.Status)))
	}
	if filter.PaymentStatus != nil {
		q.Filters = append(q.Filters, docstore.Eq("paymentStatus", string(*filter.PaymentStatus)))
	}
	return q
}
