package model

import "time"

// 管理者アカウント。create-adminコマンドでだけ作る
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(200);not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
