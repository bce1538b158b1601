package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdauto/catalog-backend/pkg/db/models"
	"github.com/sdauto/catalog-backend/pkg/enums"
	pkgerrors "github.com/sdauto/catalog-backend/pkg/errors"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createProducts(t *testing.T, f *serviceFixture, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		created, err := f.svc.Create(context.Background(), validCreateInput())
		require.NoError(t, err)
		ids[i] = created.ID
	}
	return ids
}

func TestBulkActivateDeactivate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 3)

	result, err := f.svc.Bulk(ctx, BulkInput{Action: enums.BulkActionDeactivate, IDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Affected)

	var active int64
	require.NoError(t, f.conn.Model(&models.Product{}).Where("is_active = ?", true).Count(&active).Error)
	assert.EqualValues(t, 0, active)

	result, err = f.svc.Bulk(ctx, BulkInput{Action: enums.BulkActionActivate, IDs: ids[:2]})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)
}

func TestBulkDelete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 2)

	result, err := f.svc.Bulk(ctx, BulkInput{Action: enums.BulkActionDelete, IDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)

	var live int64
	require.NoError(t, f.conn.Model(&models.Product{}).Count(&live).Error)
	assert.EqualValues(t, 0, live)
}

func TestBulkUpdateStock(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 2)

	qty := 5
	op := enums.StockOperationAdd
	result, err := f.svc.Bulk(ctx, BulkInput{
		Action:    enums.BulkActionUpdateStock,
		IDs:       ids,
		Quantity:  &qty,
		Operation: &op,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)

	for _, id := range ids {
		dto, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 30, dto.Quantity)
	}
}

func TestBulkUpdateStockMissingIDIsAtomic(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 2)

	qty := 5
	op := enums.StockOperationAdd
	_, err := f.svc.Bulk(ctx, BulkInput{
		Action:    enums.BulkActionUpdateStock,
		IDs:       []uuid.UUID{ids[0], uuid.New(), ids[1]},
		Quantity:  &qty,
		Operation: &op,
	})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	// The whole batch rolled back; the existing products are untouched.
	for _, id := range ids {
		dto, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 25, dto.Quantity)
	}
}

func TestBulkUpdatePrice(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 2)

	price := decimal.RequireFromString("49.99")
	original := decimal.RequireFromString("59.99")
	result, err := f.svc.Bulk(ctx, BulkInput{
		Action:        enums.BulkActionUpdatePrice,
		IDs:           ids,
		Price:         &price,
		OriginalPrice: &original,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)

	dto, err := f.svc.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, dto.Price.Equal(price))
	require.NotNil(t, dto.OriginalPrice)
	assert.True(t, dto.OriginalPrice.Equal(original))
}

func TestBulkApplyDiscountAnchorsPerProduct(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 2)

	pct := decimal.NewFromInt(25)
	result, err := f.svc.Bulk(ctx, BulkInput{
		Action:             enums.BulkActionApplyDiscount,
		IDs:                ids,
		DiscountPercentage: &pct,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Affected)

	for _, id := range ids {
		dto, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, dto.Price.Equal(decimal.RequireFromString("67.49")), "got %s", dto.Price)
		require.NotNil(t, dto.OriginalPrice)
		assert.True(t, dto.OriginalPrice.Equal(decimal.RequireFromString("89.99")))
	}
}

func TestBulkApplyDiscountWithoutAnchor(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 1)

	pct := decimal.NewFromInt(50)
	noAnchor := false
	_, err := f.svc.Bulk(ctx, BulkInput{
		Action:             enums.BulkActionApplyDiscount,
		IDs:                ids,
		DiscountPercentage: &pct,
		SetOriginalPrice:   &noAnchor,
	})
	require.NoError(t, err)

	dto, err := f.svc.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, dto.Price.Equal(decimal.RequireFromString("45.00")), "got %s", dto.Price)
	assert.Nil(t, dto.OriginalPrice)
}

func TestBulkValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	ids := createProducts(t, f, 1)

	cases := []struct {
		name  string
		input BulkInput
	}{
		{"unknown action", BulkInput{Action: enums.BulkAction("explode"), IDs: ids}},
		{"no ids", BulkInput{Action: enums.BulkActionActivate}},
		{"too many ids", BulkInput{Action: enums.BulkActionActivate, IDs: make([]uuid.UUID, MaxBulkIDs+1)}},
		{"update_stock without params", BulkInput{Action: enums.BulkActionUpdateStock, IDs: ids}},
		{"update_price without price", BulkInput{Action: enums.BulkActionUpdatePrice, IDs: ids}},
		{"update_price above original", BulkInput{
			Action:        enums.BulkActionUpdatePrice,
			IDs:           ids,
			Price:         decimalPtr("80.00"),
			OriginalPrice: decimalPtr("60.00"),
		}},
		{"apply_discount without pct", BulkInput{Action: enums.BulkActionApplyDiscount, IDs: ids}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Bulk(ctx, tc.input)
			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}
