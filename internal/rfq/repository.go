package rfq

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, r *RFQ) error
	GetByID(ctx context.Context, id string) (*RFQ, error)
	Update(ctx context.Context, r *RFQ) error
	List(ctx context.Context, filter ListFilter) ([]*RFQ, error)
	EachOpen(ctx context.Context, fn func(*RFQ) error) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	rfqs *docstore.Collection[RFQ, *RFQ]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{rfqs: docstore.NewCollection[RFQ](store, Collection, "rfq")}
}

func (r *repository) Create(ctx context.Context, q *RFQ) error {
	return r.rfqs.Insert(ctx, q)
}

func (r *repository) GetByID(ctx context.Context, id string) (*RFQ, error) {
	return r.rfqs.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, q *RFQ) error {
	_, err := r.rfqs.Save(ctx, q)
	return err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*RFQ, error) {
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
	return r.rfqs.Find(ctx, q)
}

// EachOpen visits every RFQ that may still expire, oldest first.
func (r *repository) EachOpen(ctx context.Context, fn func(*RFQ) error) error {
	open := make([]string, len(OpenStatuses))
	for i, s := range OpenStatuses {
		open[i] = string(s)
	}
	return r.rfqs.Each(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.In("status", open...)},
		Sort:    []docstore.Sort{{Field: docstore.FieldCreatedAt}},
	}, fn)
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.rfqs.Count(ctx, docstore.Eq("status", string(status)))
}
