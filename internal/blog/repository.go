package blog

import (
	"context"

	"tradehub-be/internal/docstore"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Update(ctx context.Context, p *Post) error
	List(ctx context.Context, filter ListFilter) ([]*Post, error)
}

type repository struct {
	posts *docstore.Collection[Post, *Post]
}

func NewRepository(store docstore.Store) Repository {
	return &repository{posts: docstore.NewCollection[Post](store, Collection, "blog_post")}
}

func (r *repository) Create(ctx context.Context, p *Post) error {
	return r.posts.Insert(ctx, p)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Post, error) {
	return r.posts.Get(ctx, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.posts.FindOne(ctx, docstore.Eq("slug", slug))
}

// Update saves p against the stored post: publishedAt never changes once
// set and the view counter never moves backwards.
func (r *repository) Update(ctx context.Context, p *Post) error {
	stored, err := r.posts.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	if stored.PublishedAt != nil && (p.PublishedAt == nil || !p.PublishedAt.Equal(*stored.PublishedAt)) {
		return ErrPublishedAtImmutable
	}
	if stored.Views > p.Views {
		p.Views = stored.Views
	}
	_, err = r.posts.Save(ctx, p)
	return err
}

// List returns posts newest first.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Post, error) {
	q := docstore.Query{
		Sort:   []docstore.Sort{{Field: docstore.FieldCreatedAt, Desc: true}},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.PublishedOnly {
		q.Filters = append(q.Filters, docstore.Eq("isPublished", true))
	}
	if filter.Category != nil {
		q.Filters = append(q.Filters, docstore.Eq("category", *filter.Category))
	}
	return r.posts.Find(ctx, q)
}
