package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_Scenario(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("p1", "Item A", 3, dec("10")))
	require.NoError(t, c.Add("p2", "Item B", 2, dec("5")))

	got := c.Totals()
	assert.True(t, got.Subtotal.Equal(dec("40")), got.Subtotal.String())
	assert.True(t, got.Shipping.Equal(dec("50")), got.Shipping.String())
	assert.True(t, got.Tax.Equal(dec("6")), got.Tax.String())
	assert.True(t, got.Total.Equal(dec("96")), got.Total.String())
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Shipping.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())

	// Free items produce no shipping charge either.
	got = Compute([]LineItem{{ProductID: "p", Quantity: 4, UnitPrice: decimal.Zero}})
	assert.True(t, got.Total.IsZero())
}

func TestCompute_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 200; n++ {
		items := make([]LineItem, rng.Intn(6)+1)
		for i := range items {
			items[i] = LineItem{
				ProductID: string(rune('a' + i)),
				Quantity:  rng.Intn(20) + 1,
				UnitPrice: decimal.New(rng.Int63n(100000), -2),
			}
		}

		got := Compute(items)

		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		assert.True(t, got.Subtotal.Equal(sum), "subtotal %s != %s", got.Subtotal, sum)
		assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.Shipping)))
		assert.True(t, got.Tax.Equal(got.Tax.Round(2)))

		// Same items, any order, same totals.
		shuffled := append([]LineItem(nil), items...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.True(t, Compute(shuffled).Equal(got))
		assert.True(t, Compute(items).Equal(got))
	}
}

func TestCart_Mutations(t *testing.T) {
	t.Run("re-adding merges and keeps first price", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("p1", "A", 1, dec("10")))
		require.NoError(t, c.Add("p1", "A", 2, dec("12")))

		items := c.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.True(t, items[0].Total.Equal(dec("30")))
	})

	t.Run("non positive quantity removes", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("p1", "A", 1, dec("10")))
		require.NoError(t, c.Add("p2", "B", 1, dec("5")))

		require.NoError(t, c.SetQuantity("p1", 0))
		require.NoError(t, c.SetQuantity("p2", -3))
		assert.Zero(t, c.Len())
		assert.True(t, c.Totals().Total.IsZero())
	})

	t.Run("set quantity recomputes line total", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("p1", "A", 1, dec("2.50")))
		require.NoError(t, c.SetQuantity("p1", 4))
		assert.True(t, c.Items()[0].Total.Equal(dec("10")))
	})

	t.Run("unknown item", func(t *testing.T) {
		var c Cart
		assert.ErrorIs(t, c.Remove("nope"), ErrItemNotFound)
	})

	t.Run("invalid add", func(t *testing.T) {
		var c Cart
		assert.ErrorIs(t, c.Add("p1", "A", 0, dec("1")), ErrInvalidQuantity)
		assert.ErrorIs(t, c.Add("p1", "A", 1, dec("-1")), ErrNegativePrice)
		assert.Zero(t, c.Len())
	})

	t.Run("items is a copy", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("p1", "A", 1, dec("1")))
		items := c.Items()
		items[0].Quantity = 99
		assert.Equal(t, 1, c.Items()[0].Quantity)
	})
}
