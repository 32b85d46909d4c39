package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

var (
	ErrUsernameRequired  = errors.New("username required")
	ErrPasswordRequired  = errors.New("password required")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// seedで作る初期管理者
const (
	DefaultAdminUsername = "sps"
	DefaultAdminPassword = "sps123"
)

type CreateAdminUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewCreateAdminUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *CreateAdminUsecase {
	return &CreateAdminUsecase{userRepo: userRepo, hasher: hasher}
}

// 管理者を作る。同じユーザー名があれば ErrUserAlreadyExists
func (u *CreateAdminUsecase) Execute(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	// パスワードをハッシュ化（平文は保存しない）
	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashed,
		IsAdmin:      true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// 管理者が1人もいなければ初期管理者を作る。作ったらtrue
func (u *CreateAdminUsecase) EnsureDefault(ctx context.Context) (bool, error) {
	ok, err := u.userRepo.AnyAdmin(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if _, err := u.Execute(ctx, DefaultAdminUsername, DefaultAdminPassword); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
