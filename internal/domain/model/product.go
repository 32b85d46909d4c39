package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品。slugは一意で、名前から作る
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(120);not null" json:"name"`
	Slug        string          `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	// 画像URL。無ければnil
	Image     *string   `gorm:"type:varchar(300)" json:"image"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 画像URLを返す（無ければ空文字）
func (p Product) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

// 小計（価格×数量）
func (p Product) Subtotal(qty int64) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(qty))
}
