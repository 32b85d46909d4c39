package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	//ユーザー名で1件取得。無ければErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	//is_admin=trueのユーザーだけを対象にする
	FindAdminByUsername(ctx context.Context, username string) (*model.User, error)
	//管理者が1人でもいるか
	AnyAdmin(ctx context.Context) (bool, error)
}
