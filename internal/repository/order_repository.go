package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// 管理画面用。商品もPreloadする
	ListAll(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// まとめて作成してIDを埋めて返す
	CreateBulk(ctx context.Context, orders []model.Order) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	// 商品を参照している注文の件数
	CountByProductID(ctx context.Context, productID int64) (int64, error)
}
