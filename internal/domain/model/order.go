package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文ステータスの初期値。自由入力なので定数はこれだけ
const OrderStatusPending = "Pending"

// 注文。カートの1行につき1件作る。
// 顧客情報は注文ごとにコピーして持つ。長さは制限しない
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       int64           `gorm:"not null;index" json:"product_id"`
	Product         Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	Qty             int64           `gorm:"not null" json:"qty"`
	CustomerName    string          `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:text;not null" json:"customer_email"`
	CustomerPhone   string          `gorm:"type:text;not null" json:"customer_phone"`
	CustomerAddress string          `gorm:"type:text;not null" json:"customer_address"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status          string          `gorm:"type:varchar(50);not null;default:'Pending'" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
