package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIDs(t *testing.T, cur Cursor) []string {
	t.Helper()
	defer cur.Close()

	var ids []string
	for cur.Next() {
		ids = append(ids, cur.Document().ID)
	}
	require.NoError(t, cur.Err())
	return ids
}

func TestMemory_CreateGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	doc, err := m.Create(ctx, "users", "", []byte(`{"email":"a@b.co"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, int64(1), doc.Version)

	got, err := m.Get(ctx, "users", doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.co"}`, string(got.Data))

	_, err = m.Create(ctx, "users", doc.ID, []byte(`{}`))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = m.Get(ctx, "users", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Create(ctx, "users", "", []byte(`[1,2]`))
	assert.Error(t, err)
}

func TestMemory_UpdateMergesAndDetectsConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Create(ctx, "rfqs", "r1", []byte(`{"status":"new","quantity":5}`))
	require.NoError(t, err)

	res, err := m.Update(ctx, "rfqs", "r1", []byte(`{"status":"quoted"}`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Version)
	assert.False(t, res.Conflict)

	// A second writer that still holds version 1.
	res, err = m.Update(ctx, "rfqs", "r1", []byte(`{"status":"reviewing"}`), 1)
	require.NoError(t, err)
	assert.True(t, res.Conflict)

	doc, err := m.Get(ctx, "rfqs", "r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"reviewing","quantity":5}`, string(doc.Data))

	_, err = m.Update(ctx, "rfqs", "missing", []byte(`{}`), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Query(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, d := range []struct{ id, data string }{
		{"a", `{"status":"pending","total":"96.00","customerId":"u1"}`},
		{"b", `{"status":"shipped","total":"10.50","customerId":"u2"}`},
		{"c", `{"status":"pending","total":"150","customerId":"u2"}`},
		{"d", `{"status":"pending","total":"5","customerId":null}`},
	} {
		_, err := m.Create(ctx, "orders", d.id, []byte(d.data))
		require.NoError(t, err)
	}

	t.Run("InsertionOrderByDefault", func(t *testing.T) {
		cur, err := m.Query(ctx, "orders", Query{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, collectIDs(t, cur))
	})

	t.Run("EqAndIn", func(t *testing.T) {
		cur, err := m.Query(ctx, "orders", Query{Filters: []Filter{
			Eq("status", "pending"),
			In("customerId", "u1", "u2"),
		}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, collectIDs(t, cur))
	})

	t.Run("NullFilter", func(t *testing.T) {
		cur, err := m.Query(ctx, "orders", Query{Filters: []Filter{Eq("customerId", nil)}})
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, collectIDs(t, cur))
	})

	t.Run("NumericSortDescWithPaging", func(t *testing.T) {
		cur, err := m.Query(ctx, "orders", Query{
			Sort:   []Sort{{Field: "total", Desc: true, Numeric: true}},
			Limit:  2,
			Offset: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, collectIDs(t, cur))
	})

	t.Run("Count", func(t *testing.T) {
		n, err := m.Count(ctx, "orders", Eq("status", "pending"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("OffsetBeyondEnd", func(t *testing.T) {
		cur, err := m.Query(ctx, "orders", Query{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, collectIDs(t, cur))
	})
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Create(ctx, "categories", "c1", []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "categories", "c1"))
	assert.ErrorIs(t, m.Delete(ctx, "categories", "c1"), ErrNotFound)
}
