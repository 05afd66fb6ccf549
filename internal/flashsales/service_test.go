package flashsales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

var fixedNow = time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc
}

func TestActiveReturnsNewestLiveSale(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	none, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.Create(ctx, CreateInput{
		Title: "Diwali Glow", DiscountPercent: decimal.NewFromInt(20),
		StartDate: fixedNow.Add(-48 * time.Hour), EndDate: fixedNow.Add(48 * time.Hour), IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{
		Title: "Next Month", DiscountPercent: decimal.NewFromInt(30),
		StartDate: fixedNow.Add(30 * 24 * time.Hour), EndDate: fixedNow.Add(31 * 24 * time.Hour), IsActive: true,
	})
	require.NoError(t, err)
	paused, err := svc.Create(ctx, CreateInput{
		Title: "Paused", DiscountPercent: decimal.NewFromInt(10),
		StartDate: fixedNow.Add(-time.Hour), EndDate: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)

	live, err := svc.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, "Diwali Glow", live.Title)

	on := true
	_, err = svc.Update(ctx, paused.ID, UpdateInput{IsActive: &on})
	require.NoError(t, err)
	live, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Paused", live.Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateAndUpdateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "Backwards", DiscountPercent: decimal.NewFromInt(10), StartDate: fixedNow, EndDate: fixedNow.Add(-time.Hour)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateInput{Title: "Too much", DiscountPercent: decimal.NewFromInt(120), StartDate: fixedNow, EndDate: fixedNow.Add(time.Hour)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, 99, UpdateInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, 99), pkgerrors.CodeNotFound))
}
