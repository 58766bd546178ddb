package shipment

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, s *Shipment) error
	GetByID(ctx context.Context, id string) (*Shipment, error)
	GetByTracking(ctx context.Context, trackingNumber string) (*Shipment, error)
	Update(ctx context.Context, s *Shipment) error
	ListByOrder(ctx context.Context, orderID string) ([]*Shipment, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

type repository struct {
	shipments *docstore.Collection[Shipment, *Shipment]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{shipments: docstore.NewCollection[Shipment](store, Collection, "shipment")}
}

func (r *repository) Create(ctx context.Context, s *Shipment) error {
	return r.shipments.Insert(ctx, s)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Shipment, error) {
	return r.shipments.Get(ctx, id)
}

func (r *repository) GetByTracking(ctx context.Context, trackingNumber string) (*Shipment, error) {
	return r.shipments.FindOne(ctx, docstore.Eq("trackingNumber", trackingNumber))
}

func (r *repository) Update(ctx context.Context, s *Shipment) error {
	_, err := r.shipments.Save(ctx, s)
	return err
}

func (r *repository) ListByOrder(ctx context.Context, orderID string) ([]*Shipment, error) {
	return r.shipments.Find(ctx, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("orderId", orderID)},
		Sort:    []docstore.Sort{{Field: docstore.FieldCreatedAt}},
	})
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return r.shipments.Count(ctx, docstore.Eq("status", string(status)))
}
