package handler

import (
	"net/http"

	"storefront/internal/session"
	"storefront/pkg/logger"

	"github.com/labstack/echo/v4"
)

// テンプレートに渡す値
type Page struct {
	Title    string
	ShopName string
	Admin    bool // ナビの表示切替のみ（認可はゲートで行う）
	Flashes  []session.Flash
	Data     any
}

// 画面を持つハンドラの共通部品
type Pages struct {
	sessions *session.Store
	shopName string
	logger   logger.Logger
}

// DI
func NewPages(sessions *session.Store, shopName string, logger logger.Logger) *Pages {
	return &Pages{sessions: sessions, shopName: shopName, logger: logger}
}

func (p *Pages) session(c echo.Context) *session.Session {
	return p.sessions.Get(c.Request(), c.Response())
}

// render はflashを取り出してセッションを保存してから描画する。
// extraはこのリクエストで表示するだけのflash
func (p *Pages) render(c echo.Context, sess *session.Session, status int, name, title string, data any, extra ...session.Flash) error {
	flashes := append(sess.Flashes(), extra...)
	if err := sess.Save(); err != nil {
		p.logger.Errorf(err, "save session")
	}

	return c.Render(status, name, Page{
		Title:    title,
		ShopName: p.shopName,
		Admin:    sess.AdminToken() != "",
		Flashes:  flashes,
		Data:     data,
	})
}

func (p *Pages) redirect(c echo.Context, sess *session.Session, to string) error {
	if err := sess.Save(); err != nil {
		p.logger.Errorf(err, "save session")
		return p.writeError(c, err)
	}
	return c.Redirect(http.StatusFound, to)
}

// flashを積んでリダイレクト
func (p *Pages) flashRedirect(c echo.Context, sess *session.Session, category, message, to string) error {
	sess.AddFlash(category, message)
	return p.redirect(c, sess, to)
}
