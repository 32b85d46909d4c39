package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// キャッシュ付きの商品リポジトリ。
// 全件一覧とslug検索だけ読み込み時にキャッシュし、書き込みで全部捨てる
type CachedProductRepository struct {
	repo.ProductRepository
	cache repo.ProductCache
}

func NewCachedProductRepository(inner repo.ProductRepository, cache repo.ProductCache) *CachedProductRepository {
	return &CachedProductRepository{ProductRepository: inner, cache: cache}
}

func (r *CachedProductRepository) List(ctx context.Context, q string) ([]model.Product, error) {
	//検索はキャッシュしない
	if strings.TrimSpace(q) != "" {
		return r.ProductRepository.List(ctx, q)
	}
	if products, ok := r.cache.GetList(ctx); ok {
		return products, nil
	}

	products, err := r.ProductRepository.List(ctx, "")
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, products)
	return products, nil
}

func (r *CachedProductRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	if p, ok := r.cache.GetBySlug(ctx, slug); ok {
		return p, nil
	}

	p, err := r.ProductRepository.FindBySlug(ctx, slug)
	if err != nil {
		return model.Product{}, err
	}
	r.cache.SetBySlug(ctx, p)
	return p, nil
}

func (r *CachedProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	created, err := r.ProductRepository.Create(ctx, p)
	if err != nil {
		return model.Product{}, err
	}
	r.cache.Invalidate(ctx)
	return created, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, p model.Product) error {
	if err := r.ProductRepository.Update(ctx, p); err != nil {
		return err
	}
	r.cache.Invalidate(ctx)
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(ctx)
	return nil
}
