package review

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]*Review, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Review, error)
	Find(ctx context.Context, productID, customerID string) (*Review, error)
}

type repository struct {
	reviews *docstore.Collection[Review, *Review]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{reviews: docstore.NewCollection[Review](store, Collection, "review")}
}

func (r *repository) Create(ctx context.Context, rv *Review) error {
	return r.reviews.Insert(ctx, rv)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	return r.reviews.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.reviews.Delete(ctx, id)
}

func (r *repository) ListByProduct(ctx context.Context, productID string) ([]*Review, error) {
	return r.reviews.Find(ctx, newestFirst(docstore.Eq("productId", productID)))
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]*Review, error) {
	return r.reviews.Find(ctx, newestFirst(docstore.Eq("customerId", customerID)))
}

func (r *repository) Find(ctx context.Context, productID, customerID string) (*Review, error) {
	return r.reviews.FindOne(ctx, docstore.Eq("productId", productID), docstore.Eq("customerId", customerID))
}

func newestFirst(filters ...docstore.Filter) docstore.Query {
	return docstore.Query{
		Filters: filters,
		Sort:    []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}},
	}
}
