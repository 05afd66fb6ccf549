package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo, func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc, repo
}

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCreateUppercasesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Code:          " welcome10 ",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)

	_, err = svc.Create(ctx, CreateInput{
		Code:          "Welcome10",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
		IsActive:      true,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "expected conflict, got %v", err)
}

func TestCreateValidatesAmounts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateInput{
		{Code: "A", DiscountType: "bogus", DiscountValue: decimal.NewFromInt(5)},
		{Code: "B", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.Zero},
		{Code: "C", DiscountType: enums.DiscountTypePercentage, DiscountValue: decimal.NewFromInt(120)},
		{Code: "D", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(5), UsageLimit: intPtr(-1)},
		{Code: "  ", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(5)},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v: got %v", input, err)
	}
}

func TestValidateRejectionOrderAndStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	past := fixedNow.Add(-time.Hour)

	_, err := svc.Create(ctx, CreateInput{Code: "OFF", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Code: "OLD", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(5), IsActive: true, ExpiresAt: &past})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Code: "USED", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(5), IsActive: true, UsageLimit: intPtr(0)})
	require.NoError(t, err)

	cases := []struct {
		code    string
		status  pkgerrors.Code
		message string
	}{
		{"nope", pkgerrors.CodeNotFound, "Invalid or expired coupon code"},
		{"off", pkgerrors.CodeValidation, "This coupon is no longer active"},
		{"old", pkgerrors.CodeValidation, "This coupon has expired"},
		{"used", pkgerrors.CodeValidation, "Coupon usage limit reached"},
	}
	for _, tc := range cases {
		_, err := svc.Validate(ctx, tc.code, nil)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "code %s", tc.code)
		assert.Equal(t, tc.status, typed.Code(), "code %s", tc.code)
		assert.Equal(t, tc.message, typed.Message(), "code %s", tc.code)
	}
}

func TestValidateWithSubtotalComputesDiscount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		Code:          "SAVE20",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		MinOrderValue: decimal.NewFromInt(200),
		MaxDiscount:   decPtr("50"),
		IsActive:      true,
	})
	require.NoError(t, err)

	subtotal := decimal.NewFromInt(1000)
	result, err := svc.Validate(ctx, "save20", &subtotal)
	require.NoError(t, err)
	require.NotNil(t, result.DiscountAmount)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(50)), "capped discount, got %s", result.DiscountAmount)

	small := decimal.NewFromInt(150)
	_, err = svc.Validate(ctx, "SAVE20", &small)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "Minimum order")

	// Without a subtotal the minimum is not checked.
	result, err = svc.Validate(ctx, "SAVE20", nil)
	require.NoError(t, err)
	assert.Nil(t, result.DiscountAmount)
}

func TestIncrementUsageRespectsLimit(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Code:          "ONCE",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(10),
		UsageLimit:    intPtr(1),
		IsActive:      true,
	})
	require.NoError(t, err)

	ok, err := repo.IncrementUsage(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementUsage(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second redemption must be refused")

	row, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, row.UsedCount)
}

func TestUpdateMergesAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Code: "FLAT", DiscountType: enums.DiscountTypeFixed, DiscountValue: decimal.NewFromInt(150), IsActive: true})
	require.NoError(t, err)

	percentage := enums.DiscountTypePercentage
	_, err = svc.Update(ctx, created.ID, UpdateInput{DiscountType: &percentage})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "150%% must be rejected, got %v", err)

	inactive := false
	updated, err := svc.Update(ctx, created.ID, UpdateInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "FLAT", updated.Code)

	_, err = svc.Update(ctx, 404, UpdateInput{IsActive: &inactive})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
