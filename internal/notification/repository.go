package notification

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	Update(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error)
}

type repository struct {
	notifications *docstore.Collection[Notification, *Notification]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{notifications: docstore.NewCollection[Notification](store, Collection, "notification")}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.notifications.Insert(ctx, n)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Notification, error) {
	return r.notifications.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, n *Notification) error {
	_, err := r.notifications.Save(ctx, n)
	return err
}

// ListByUser returns the newest notifications first.
func (r *repository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error) {
	q := docstore.Query{
		Filters: []docstore.Filter{docstore.Eq("userId", userID)},
		Sort:    []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}},
		Limit:   limit,
	}
	if unreadOnly {
		q.Filters = append(q.Filters, docstore.Eq("isRead", false))
	}
	return r.notifications.Find(ctx, q)
}
