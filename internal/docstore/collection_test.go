package docstore

import (
	"context"
	"testing"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type widget struct {
	Meta
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Total    int    `json:"total"`
}

func (w *widget) Validate() error {
	if w.Name == "" {
		return apperr.Validation("name", "name is required")
	}
	if w.Total != w.Price*w.Quantity {
		return apperr.Validation("total", "total mismatch")
	}
	return nil
}

func (w *widget) Derive() bool {
	total := w.Price * w.Quantity
	changed := total != w.Total
	w.Total = total
	return changed
}

func newWidgets() (*Collection[widget, *widget], *Memory) {
	m := NewMemory()
	return NewCollection[widget](m, "widgets", "widget"), m
}

func TestCollection_InsertGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newWidgets()

	w := &widget{Name: "bolt", Quantity: 3, Price: 10}
	require.NoError(t, c.Insert(ctx, w))
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, int64(1), w.Version)
	assert.Equal(t, 30, w.Total)

	got, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "bolt", got.Name)
	assert.Equal(t, w.ID, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "widget", apperr.FieldOf(err))
}

func TestCollection_ValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	c, m := newWidgets()

	err := c.Insert(ctx, &widget{Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "name", apperr.FieldOf(err))

	n, err := m.Count(ctx, "widgets")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollection_ValidatesAfterRead(t *testing.T) {
	ctx := context.Background()
	c, m := newWidgets()

	_, err := m.Create(ctx, "widgets", "w1", []byte(`{"name":"","quantity":1}`))
	require.NoError(t, err)

	_, err = c.Get(ctx, "w1")
	assert.ErrorIs(t, err, apperr.ErrInfrastructure)

	_, err = m.Create(ctx, "widgets", "w2", []byte(`{"name":5}`))
	require.NoError(t, err)

	_, err = c.Get(ctx, "w2")
	assert.ErrorIs(t, err, apperr.ErrInfrastructure)
}

func TestCollection_CorrectsStaleDerivedFields(t *testing.T) {
	ctx := context.Background()
	c, m := newWidgets()

	_, err := m.Create(ctx, "widgets", "w1", []byte(`{"name":"nut","quantity":2,"price":5,"total":99}`))
	require.NoError(t, err)

	got, err := c.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Total)

	doc, err := m.Get(ctx, "widgets", "w1")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), `"total":10`)
}

func TestCollection_SaveLogsConflict(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	ctx := context.Background()
	c, _ := newWidgets()

	w := &widget{Name: "gear", Quantity: 1, Price: 1}
	require.NoError(t, c.Insert(ctx, w))

	first, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	second, err := c.Get(ctx, w.ID)
	require.NoError(t, err)

	before := metrics.Default.Counter(metrics.ConflictsDetected).Load()

	first.Quantity = 2
	res, err := c.Save(ctx, first)
	require.NoError(t, err)
	assert.False(t, res.Conflict)
	assert.Equal(t, int64(2), first.Version)

	second.Quantity = 7
	res, err = c.Save(ctx, second)
	require.NoError(t, err)
	assert.True(t, res.Conflict)

	assert.Equal(t, before+1, metrics.Default.Counter(metrics.ConflictsDetected).Load())
	assert.Equal(t, 1, logs.FilterMessage("concurrent update detected, last write wins").Len())

	got, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, 7, got.Total)
}

func TestCollection_FindAndFindOne(t *testing.T) {
	ctx := context.Background()
	c, _ := newWidgets()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, c.Insert(ctx, &widget{Name: name, Quantity: 1, Price: 1}))
	}

	all, err := c.Find(ctx, Query{Sort: []Sort{{Field: "name", Desc: true}}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)

	one, err := c.FindOne(ctx, Eq("name", "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", one.Name)

	_, err = c.FindOne(ctx, Eq("name", "zzz"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	ok, err := c.Exists(ctx, one.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, one.ID))
	ok, err = c.Exists(ctx, one.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, c.Delete(ctx, one.ID), apperr.ErrNotFound)
}
