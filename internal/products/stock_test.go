package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
)

func TestApplyQuantity(t *testing.T) {
	cases := []struct {
		name    string
		current int
		op      enums.StockOperation
		amount  int
		want    int
	}{
		{"set", 50, enums.StockOperationSet, 7, 7},
		{"set to zero", 50, enums.StockOperationSet, 0, 0},
		{"add", 10, enums.StockOperationAdd, 5, 15},
		{"add clamps at cap", 999990, enums.StockOperationAdd, 20, 999999},
		{"subtract", 10, enums.StockOperationSubtract, 4, 6},
		{"subtract floors at zero", 5, enums.StockOperationSubtract, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyQuantity(tc.current, tc.op, tc.amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyQuantityRejectsBadInput(t *testing.T) {
	_, err := ApplyQuantity(10, enums.StockOperationAdd, -1)
	assert.Error(t, err)

	_, err = ApplyQuantity(10, enums.StockOperationAdd, MaxQuantity+1)
	assert.Error(t, err)

	_, err = ApplyQuantity(10, enums.StockOperation("multiply"), 2)
	assert.Error(t, err)
}

func TestApplyDiscountAnchorsOriginalPrice(t *testing.T) {
	p := &models.Product{Price: decimal.NewFromInt(100)}

	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(25), true))
	require.NotNil(t, p.OriginalPrice)
	assert.True(t, p.OriginalPrice.Equal(decimal.NewFromInt(100)), "original price should anchor to 100")
	assert.True(t, p.Price.Equal(decimal.NewFromInt(75)), "price should be 75, got %s", p.Price)
}

func TestApplyDiscountDoesNotCompound(t *testing.T) {
	p := &models.Product{Price: decimal.NewFromInt(100)}
	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(25), true))

	// A second discount computes against the anchored 100, not the 75.
	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(10), true))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(90)), "price should be 90, got %s", p.Price)
	assert.True(t, p.OriginalPrice.Equal(decimal.NewFromInt(100)))
}

func TestApplyDiscountWithoutAnchor(t *testing.T) {
	p := &models.Product{Price: decimal.NewFromInt(100)}

	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(25), false))
	assert.Nil(t, p.OriginalPrice, "original price must stay unset without the anchor")
	assert.True(t, p.Price.Equal(decimal.NewFromInt(75)))

	// With no anchor the next discount compounds off the current price.
	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(10), false))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("67.50")), "got %s", p.Price)

	// An already-recorded original price wins regardless of the flag.
	anchor := decimal.NewFromInt(200)
	q := &models.Product{Price: decimal.NewFromInt(150), OriginalPrice: &anchor}
	require.NoError(t, ApplyDiscount(q, decimal.NewFromInt(50), false))
	assert.True(t, q.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, q.OriginalPrice.Equal(anchor))
}

func TestApplyDiscountRounding(t *testing.T) {
	p := &models.Product{Price: decimal.RequireFromString("19.99")}
	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(33), true))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("13.39")), "got %s", p.Price)
}

func TestApplyDiscountBounds(t *testing.T) {
	p := &models.Product{Price: decimal.NewFromInt(100)}
	assert.Error(t, ApplyDiscount(p, decimal.NewFromInt(-1), true))
	assert.Error(t, ApplyDiscount(p, decimal.NewFromInt(101), true))

	require.NoError(t, ApplyDiscount(p, decimal.NewFromInt(100), true))
	assert.True(t, p.Price.IsZero())

	q := &models.Product{Price: decimal.NewFromInt(100)}
	require.NoError(t, ApplyDiscount(q, decimal.Zero, true))
	assert.True(t, q.Price.Equal(decimal.NewFromInt(100)))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(decimal.Zero))
	assert.NoError(t, ValidatePrice(decimal.RequireFromString("99999999.99")))
	assert.Error(t, ValidatePrice(decimal.RequireFromString("-0.01")))
	assert.Error(t, ValidatePrice(decimal.RequireFromString("100000000.00")))
}
