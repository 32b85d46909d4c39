package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 他の行から参照されていて削除できない
var ErrReferenced = errors.New("referenced by other rows")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// qが空なら全件、あれば名前の部分一致（大文字小文字を区別しない）
	List(ctx context.Context, q string) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)
	// 見つからないIDは結果に含めない
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	// excludeIDの行は除いて重複チェック（0なら除外なし）
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}

// 商品一覧・slug検索のキャッシュ。実装はRedis
type ProductCache interface {
	GetList(ctx context.Context) ([]model.Product, bool)
	SetList(ctx context.Context, products []model.Product)
	GetBySlug(ctx context.Context, slug string) (model.Product, bool)
	SetBySlug(ctx context.Context, p model.Product)
	Invalidate(ctx context.Context)
}
