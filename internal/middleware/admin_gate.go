package middleware

import (
	"net/http"
	"time"

	"storefront/internal/session"

	"github.com/labstack/echo/v4"
)

// contextに入れる管理者のユーザー名
const CtxAdminKey = "admin_username"

const adminLoginPath = "/admin_login"

// 管理者トークンを検証する約束
type AdminTokenVerifier interface {
	Verify(token string, now time.Time) (string, error)
}

// AdminGate はセッションの管理者トークンを確認する。
// 無い・無効・期限切れならログイン画面へリダイレクト（エラー画面は出さない）
func AdminGate(sessions *session.Store, verifier AdminTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessions.Get(c.Request(), c.Response())

			token := sess.AdminToken()
			if token == "" {
				return c.Redirect(http.StatusFound, adminLoginPath)
			}

			username, err := verifier.Verify(token, time.Now())
			if err != nil {
				//期限切れなどは消しておく
				sess.ClearAdmin()
				_ = sess.Save()
				return c.Redirect(http.StatusFound, adminLoginPath)
			}

			c.Set(CtxAdminKey, username)
			return next(c)
		}
	}
}

// ゲートを通ったリクエストの管理者名
func AdminUsername(c echo.Context) string {
	s, _ := c.Get(CtxAdminKey).(string)
	return s
}
