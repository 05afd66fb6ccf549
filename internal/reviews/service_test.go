package reviews

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

func newTestService(t *testing.T) (Service, models.Product) {
	t.Helper()
	conn := dbtest.Open(t)
	product := models.Product{Name: "Sandalwood Calm", Price: decimal.NewFromInt(549), Stock: 4, IsActive: true, Images: []string{}}
	require.NoError(t, conn.Create(&product).Error)

	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)
	return svc, product
}

func TestSubmitStaysHiddenUntilApproved(t *testing.T) {
	svc, product := newTestService(t)
	ctx := context.Background()

	blank := "  "
	review, err := svc.Submit(ctx, SubmitInput{ProductID: product.ID, CustomerName: " Meera ", Email: &blank, Rating: 5, Comment: "Burns evenly."})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)
	assert.Equal(t, "Meera", review.CustomerName)
	assert.Nil(t, review.Email)

	visible, err := svc.ListApproved(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	approved, err := svc.Approve(ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	visible, err = svc.ListApproved(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, review.ID, visible[0].ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubmitValidation(t *testing.T) {
	svc, product := newTestService(t)
	ctx := context.Background()
	bad := "not-an-email"

	cases := map[string]struct {
		input SubmitInput
		code  pkgerrors.Code
	}{
		"rating too low":  {SubmitInput{ProductID: product.ID, CustomerName: "A", Rating: 0}, pkgerrors.CodeValidation},
		"rating too high": {SubmitInput{ProductID: product.ID, CustomerName: "A", Rating: 6}, pkgerrors.CodeValidation},
		"missing name":    {SubmitInput{ProductID: product.ID, Rating: 4}, pkgerrors.CodeValidation},
		"bad email":       {SubmitInput{ProductID: product.ID, CustomerName: "A", Email: &bad, Rating: 4}, pkgerrors.CodeValidation},
		"unknown product": {SubmitInput{ProductID: product.ID + 100, CustomerName: "A", Rating: 4}, pkgerrors.CodeNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.input)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestApproveAndDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Approve(ctx, 404)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, 404), pkgerrors.CodeNotFound))
}
