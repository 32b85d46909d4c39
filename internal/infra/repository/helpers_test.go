package repository

import (
	"fmt"
	"strings"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テストごとに別のインメモリDBを作る
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Connect(config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, name, slug, price string) model.Product {
	t.Helper()
	p := model.Product{
		Name:  name,
		Slug:  slug,
		Price: decimal.RequireFromString(price),
		Stock: 5,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, gdb *gorm.DB, productID int64, qty int64) model.Order {
	t.Helper()
	o := model.Order{
		ProductID:       productID,
		Qty:             qty,
		CustomerName:    "Asha",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9999999999",
		CustomerAddress: "1 Temple St",
		Total:           decimal.NewFromInt(100),
		Status:          model.OrderStatusPending,
	}
	require.NoError(t, gdb.Omit("Product").Create(&o).Error)
	return o
}
