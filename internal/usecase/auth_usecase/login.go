package auth

import (
	"context"
	"errors"
	"time"

	"storefront/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

// handlerがセッションに詰める値
type LoginOutput struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// ユーザー名またはパスワードが違う（管理者でない場合も同じ）
var ErrInvalidCredentials = errors.New("invalid credentials")

// トークンを発行する約束
type AdminTokenIssuer interface {
	Issue(username string, now time.Time) (token string, expiresAt time.Time, err error)
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AdminTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AdminTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	//管理者だけを対象に取得
	user, err := u.userRepo.FindAdminByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(user.Username, now)
	if err != nil {
		return out, err
	}

	out.Username = user.Username
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}
