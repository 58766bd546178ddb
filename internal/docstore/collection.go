package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"

	"go.uber.org/zap"
)

// Meta is embedded by every stored entity. ID and the timestamps are owned by
// the store; Version is the optimistic version seen at the last read.
type Meta struct {
	ID        string    `json:"id"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) DocID() string { return m.ID }

func (m *Meta) DocMeta() Meta { return *m }

func (m *Meta) SetDocMeta(meta Meta) { *m = meta }

type Record interface {
	DocID() string
	DocMeta() Meta
	SetDocMeta(Meta)
	Validate() error
}

// Deriver is implemented by records with derived fields. Derive recomputes
// them from their sources and reports whether anything changed.
type Deriver interface {
	Derive() bool
}

// Collection is a typed view over one store collection. Records are validated
// after every read and before every write.
type Collection[T any, PT interface {
	*T
	Record
}] struct {
	store  Store
	name   string
	entity string
}

func NewCollection[T any, PT interface {
	*T
	Record
}](store Store, name, entity string) *Collection[T, PT] {
	return &Collection[T, PT]{store: store, name: name, entity: entity}
}

func (c *Collection[T, PT]) Name() string { return c.name }

func (c *Collection[T, PT]) Insert(ctx context.Context, rec PT) error {
	derive(rec)
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return apperr.Infrastructure("encode "+c.entity, err)
	}

	doc, err := c.store.Create(ctx, c.name, rec.DocID(), data)
	if err != nil {
		return err
	}
	rec.SetDocMeta(Meta{ID: doc.ID, Version: doc.Version, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt})
	return nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return c.decode(ctx, doc)
}

// Save writes the whole record back. The write always applies; a concurrent
// update since the record was read is logged and counted.
func (c *Collection[T, PT]) Save(ctx context.Context, rec PT) (WriteResult, error) {
	derive(rec)
	if err := rec.Validate(); err != nil {
		return WriteResult{}, err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return WriteResult{}, apperr.Infrastructure("encode "+c.entity, err)
	}

	meta := rec.DocMeta()
	res, err := c.store.Update(ctx, c.name, meta.ID, data, meta.Version)
	if err != nil {
		return WriteResult{}, c.mapErr(err)
	}

	if res.Conflict {
		metrics.Default.Counter(metrics.ConflictsDetected).Inc()
		logger.FromCtx(ctx).Warn("concurrent update detected, last write wins",
			zap.String("collection", c.name),
			zap.String("id", meta.ID),
			zap.Int64("expected_version", meta.Version),
			zap.Int64("written_version", res.Version),
		)
	}

	meta.Version = res.Version
	meta.UpdatedAt = res.UpdatedAt
	rec.SetDocMeta(meta)
	return res, nil
}

func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	return c.mapErr(c.store.Delete(ctx, c.name, id))
}

// Each decodes query results one at a time until fn returns an error.
func (c *Collection[T, PT]) Each(ctx context.Context, q Query, fn func(PT) error) error {
	cur, err := c.store.Query(ctx, c.name, q)
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
		rec, err := c.decode(ctx, cur.Document())
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return apperr.Infrastructure("iterate "+c.name, err)
	}
	return nil
}

func (c *Collection[T, PT]) Find(ctx context.Context, q Query) ([]PT, error) {
	out := []PT{}
	err := c.Each(ctx, q, func(rec PT) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the first match or a NotFound error for the entity.
func (c *Collection[T, PT]) FindOne(ctx context.Context, filters ...Filter) (PT, error) {
	recs, err := c.Find(ctx, Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperr.NotFound(c.entity)
	}
	return recs[0], nil
}

func (c *Collection[T, PT]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	return c.store.Count(ctx, c.name, filters...)
}

func (c *Collection[T, PT]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.store.Get(ctx, c.name, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (c *Collection[T, PT]) decode(ctx context.Context, doc Document) (PT, error) {
	rec := PT(new(T))
	if err := json.Unmarshal(doc.Data, rec); err != nil {
		logger.FromCtx(ctx).Error("malformed document",
			zap.String("collection", c.name),
			zap.String("id", doc.ID),
			zap.Error(err),
		)
		return nil, apperr.Infrastructure("decode "+c.entity, err)
	}
	rec.SetDocMeta(Meta{ID: doc.ID, Version: doc.Version, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt})

	if derive(rec) {
		logger.FromCtx(ctx).Warn("stale derived fields corrected on read",
			zap.String("collection", c.name),
			zap.String("id", doc.ID),
		)
		if _, err := c.Save(ctx, rec); err != nil {
			logger.FromCtx(ctx).Error("write back of corrected document failed",
				zap.String("collection", c.name),
				zap.String("id", doc.ID),
				zap.Error(err),
			)
		}
	}

	if err := rec.Validate(); err != nil {
		logger.FromCtx(ctx).Error("stored document violates schema",
			zap.String("collection", c.name),
			zap.String("id", doc.ID),
			zap.Error(err),
		)
		return nil, apperr.Infrastructure("decode "+c.entity, err)
	}
	return rec, nil
}

func (c *Collection[T, PT]) mapErr(err error) error {
	if err != nil && errors.Is(err, ErrNotFound) {
		return apperr.NotFound(c.entity)
	}
	return err
}

func derive(rec any) bool {
	if d, ok := rec.(Deriver); ok {
		return d.Derive()
	}
	return false
}
