package handler

import (
	"errors"
	"net/http"

	"storefront/internal/session"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	adminLoginPath     = "/admin_login"
	adminDashboardPath = "/admin_dashboard"
)

// 管理者のログイン・ログアウト
type AuthHandler struct {
	*Pages
	loginUC *auth.LoginUsecase
}

// DI
func NewAuthHandler(pages *Pages, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{Pages: pages, loginUC: loginUC}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET(adminLoginPath, h.loginForm)
	e.POST(adminLoginPath, h.login)
	e.GET("/admin/logout", h.logout)
}

func (h *AuthHandler) loginForm(c echo.Context) error {
	return h.render(c, h.session(c), http.StatusOK, "admin_login", "Admin login", nil)
}

// ログイン。失敗理由は区別しない
func (h *AuthHandler) login(c echo.Context) error {
	sess := h.session(c)

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	})
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return h.render(c, sess, http.StatusOK, "admin_login", "Admin login", nil,
			session.Flash{Category: "danger", Message: "Invalid credentials"})
	}
	if err != nil {
		return h.writeError(c, err)
	}

	sess.SetAdminToken(out.Token)
	h.logger.Infof("admin login: %s", out.Username)
	return h.redirect(c, sess, adminDashboardPath)
}

func (h *AuthHandler) logout(c echo.Context) error {
	sess := h.session(c)
	sess.ClearAdmin()
	return h.redirect(c, sess, adminLoginPath)
}
