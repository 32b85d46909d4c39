package repository

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderGorm_CreateBulkAndListAll(t *testing.T) {
	gdb := newTestDB(t)
	a := seedProduct(t, gdb, "A", "a", "10")
	b := seedProduct(t, gdb, "B", "b", "20")
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()

	orders := []model.Order{
		{ProductID: a.ID, Qty: 2, CustomerName: "Asha", CustomerEmail: "a@x.com", CustomerPhone: "1", CustomerAddress: "addr", Total: decimal.NewFromInt(20), Status: model.OrderStatusPending},
		{ProductID: b.ID, Qty: 1, CustomerName: "Asha", CustomerEmail: "a@x.com", CustomerPhone: "1", CustomerAddress: "addr", Total: decimal.NewFromInt(20), Status: model.OrderStatusPending},
	}
	created, err := r.CreateBulk(ctx, orders)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotZero(t, created[0].ID)
	assert.NotZero(t, created[1].ID)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Product.Name)
	assert.Equal(t, "Pending", all[1].Status)
}

func TestOrderGorm_CreateBulkUnknownProductFails(t *testing.T) {
	gdb := newTestDB(t)
	r := NewOrderGormRepository(gdb)

	_, err := r.CreateBulk(context.Background(), []model.Order{
		{ProductID: 404, Qty: 1, CustomerName: "x", CustomerEmail: "x", CustomerPhone: "x", CustomerAddress: "x", Total: decimal.Zero, Status: "Pending"},
	})
	assert.Error(t, err)
}

func TestOrderGorm_UpdateStatusAcceptsFreeText(t *testing.T) {
	gdb := newTestDB(t)
	p := seedProduct(t, gdb, "A", "a", "10")
	o := seedOrder(t, gdb, p.ID, 1)
	r := NewOrderGormRepository(gdb)
	ctx := context.Background()

	require.NoError(t, r.UpdateStatus(ctx, o.ID, "Shipped via courier"))
	got, err := r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped via courier", got.Status)

	assert.ErrorIs(t, r.UpdateStatus(ctx, 999, "x"), repo.ErrNotFound)
}

func TestOrderGorm_CountByProductID(t *testing.T) {
	gdb := newTestDB(t)
	a := seedProduct(t, gdb, "A", "a", "10")
	b := seedProduct(t, gdb, "B", "b", "10")
	seedOrder(t, gdb, a.ID, 1)
	seedOrder(t, gdb, a.ID, 3)
	r := NewOrderGormRepository(gdb)

	n, err := r.CountByProductID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = r.CountByProductID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
