package user

import (
	"context"

	"tradehub-be/internal/docstore"
	"tradehub-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, filter ListFilter) ([]*User, error)
}

type repository struct {
	users *docstore.Collection[User, *User]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{users: docstore.NewCollection[User](store, Collection, "user")}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	if err := r.users.Insert(ctx, u); err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.users.Get(ctx, id)
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	return r.users.Exists(ctx, id)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.users.FindOne(ctx, docstore.Eq("email", email))
}

func (r *repository) Update(ctx context.Context, u *User) error {
	_, err := r.users.Save(ctx, u)
	return err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	q := docstore.Query{
		Sort:   []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Role != nil {
		q.Filters = append(q.Filters, docstore.Eq("role", string(*filter.Role)))
	}
	return r.users.Find(ctx, q)
}
