package product

import (
	"context"
	"testing"

	"tradehub-be/internal/docstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name, categoryID string, price int64, views int64) *Product {
	return &Product{
		Name:             name,
		Slug:             name,
		CategoryID:       categoryID,
		Price:            decimal.NewFromInt(price),
		Currency:         CurrencyETB,
		Unit:             "pcs",
		MinOrderQuantity: 1,
		IsActive:         true,
		Views:            views,
	}
}

func TestRepository_CountsAndSort(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	require.NoError(t, repo.Create(ctx, newProduct("a", "cat-1", 9, 5)))
	require.NoError(t, repo.Create(ctx, newProduct("b", "cat-1", 10, 50)))
	require.NoError(t, repo.Create(ctx, newProduct("c", "cat-2", 100, 1)))

	n, err := repo.CountByCategory(ctx, "cat-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	items, total, err := repo.List(ctx, ListFilter{Sort: SortPopular, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{items[0].Name, items[1].Name, items[2].Name})

	// "9" sorts after "10" as text; the numeric sort must not.
	items, _, err = repo.List(ctx, ListFilter{Sort: SortPriceAsc, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "a", items[0].Name)
}

func TestProduct_Validate(t *testing.T) {
	p := newProduct("ok", "cat", 1, 0)
	require.NoError(t, p.Validate())

	p.Slug = "Not A Slug"
	assert.Error(t, p.Validate())

	p = newProduct("ok", "cat", 1, 0)
	p.Price = decimal.RequireFromString("1.005")
	assert.Error(t, p.Validate())

	p = newProduct("ok", "cat", 1, 0)
	p.Views = -1
	assert.Error(t, p.Validate())
}
