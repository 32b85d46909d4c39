package cache

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/pkg/e"
	"storefront/pkg/logger"

	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	listKey  = "catalog:list"
	slugsKey = "catalog:slugs"
)

// NewRedisClient はRedisクライアントを作る
func NewRedisClient(cfg config.RedisConfig) *r.Client {
	return r.NewClient(&r.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping は起動時の疎通確認
func Ping(ctx context.Context, client *r.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// 商品キャッシュ。
// 一覧は1キー、slugはハッシュにまとめてInvalidateで両方消す。
// Redisのエラーはログだけ出してミス扱いにする
type ProductCache struct {
	client *r.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewProductCache(client *r.Client, ttl time.Duration, logger logger.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

func (c *ProductCache) GetList(ctx context.Context) ([]model.Product, bool) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err != r.Nil {
			c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, products []model.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warnf("Failed to marshal catalog: %v", e.Wrap(whereami.WhereAmI(), err))
		return
	}
	if err := c.client.Set(ctx, listKey, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (c *ProductCache) GetBySlug(ctx context.Context, slug string) (model.Product, bool) {
	data, err := c.client.HGet(ctx, slugsKey, slug).Bytes()
	if err != nil {
		if err != r.Nil {
			c.logger.Warnf("Redis HGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return model.Product{}, false
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return model.Product{}, false
	}
	//別の商品が入っていたら捨てる
	if p.Slug != slug {
		c.logger.Warnf("Cache slug mismatch: key: %s, model: %s", slug, p.Slug)
		if err := c.client.HDel(ctx, slugsKey, slug).Err(); err != nil {
			c.logger.Warnf("Redis HDEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return model.Product{}, false
	}
	return p, true
}

func (c *ProductCache) SetBySlug(ctx context.Context, p model.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warnf("Failed to marshal product for caching (Product ID: %d): %v", p.ID, e.Wrap(whereami.WhereAmI(), err))
		return
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, slugsKey, p.Slug, data)
	pipe.Expire(ctx, slugsKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listKey, slugsKey).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}
