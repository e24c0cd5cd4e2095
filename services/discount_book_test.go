package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/food-kiosk-api/services"
)

func intPtr(n int) *int { return &n }

func TestDiscountBookCreateAndList(t *testing.T) {
	ctx := context.Background()
	book := services.NewDiscountBook(newTestDB(t))

	d, err := book.Create(ctx, "hemat10", money("10"), intPtr(5))
	require.NoError(t, err)
	assert.Equal(t, "HEMAT10", d.Code)
	assert.True(t, d.IsActive)

	_, err = book.Create(ctx, "AKHIRPEKAN", money("25.5"), nil)
	require.NoError(t, err)

	_, err = book.Create(ctx, "HEMAT10", money("15"), nil)
	requireKind(t, err, services.KindConflict)

	_, err = book.Create(ctx, "X", money("15"), nil)
	requireKind(t, err, services.KindValidation)
	_, err = book.Create(ctx, "TOOMUCH", money("100.01"), nil)
	requireKind(t, err, services.KindValidation)

	list, err := book.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AKHIRPEKAN", list[0].Code)
}

func TestDiscountRedeemUntilExhausted(t *testing.T) {
	ctx := context.Background()
	book := services.NewDiscountBook(newTestDB(t))
	d, err := book.Create(ctx, "LIMIT2", money("5"), intPtr(2))
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		got, err := book.Redeem(ctx, "LIMIT2")
		require.NoError(t, err)
		assert.Equal(t, i, got.UsageCount)
	}

	_, err = book.Redeem(ctx, "LIMIT2")
	assert.True(t, errors.Is(err, services.ErrDiscountExhausted))

	_, err = book.GetByCode(ctx, "limit2")
	requireKind(t, err, services.KindBusinessRule)

	usage, err := book.Usage(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.UsageCount)
	require.NotNil(t, usage.Remaining)
	assert.Equal(t, 0, *usage.Remaining)
}

func TestDiscountLookupInactiveAndUnknown(t *testing.T) {
	ctx := context.Background()
	book := services.NewDiscountBook(newTestDB(t))
	d, err := book.Create(ctx, "OFFNOW", money("5"), nil)
	require.NoError(t, err)

	got, err := book.GetByCode(ctx, "OFFNOW")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	inactive := false
	_, err = book.Update(ctx, d.ID, services.DiscountPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = book.GetByCode(ctx, "OFFNOW")
	requireKind(t, err, services.KindNotFound)
	_, err = book.Redeem(ctx, "OFFNOW")
	requireKind(t, err, services.KindNotFound)

	_, err = book.GetByCode(ctx, "")
	requireKind(t, err, services.KindValidation)
}

func TestDiscountUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	book := services.NewDiscountBook(newTestDB(t))
	a, err := book.Create(ctx, "ALPHA", money("5"), nil)
	require.NoError(t, err)
	_, err = book.Create(ctx, "BETA", money("5"), nil)
	require.NoError(t, err)

	_, err = book.Update(ctx, a.ID, services.DiscountPatch{})
	requireKind(t, err, services.KindValidation)

	taken := "BETA"
	_, err = book.Update(ctx, a.ID, services.DiscountPatch{Code: &taken})
	requireKind(t, err, services.KindConflict)

	pct := money("12.5")
	got, err := book.Update(ctx, a.ID, services.DiscountPatch{Percentage: &pct, UsageLimit: intPtr(3)})
	require.NoError(t, err)
	requireMoney(t, "12.5", got.Percentage)
	require.NotNil(t, got.UsageLimit)
	assert.Equal(t, 3, *got.UsageLimit)
	assert.Equal(t, "ALPHA", got.Code)

	_, err = book.Update(ctx, 999, services.DiscountPatch{Percentage: &pct})
	requireKind(t, err, services.KindNotFound)

	require.NoError(t, book.Delete(ctx, a.ID))
	requireKind(t, book.Delete(ctx, a.ID), services.KindNotFound)
	_, err = book.Usage(ctx, a.ID)
	requireKind(t, err, services.KindNotFound)
}
