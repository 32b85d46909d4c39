package server

import (
	"io/fs"

	_ "storefront/docs"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/pkg/logger"
	"storefront/web"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// 画面・APIのハンドラ一式
type Handlers struct {
	Pages         *handler.Pages
	Health        *handler.HealthHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Auth          *handler.AuthHandler
	AdminProduct  *handler.AdminProductHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminGate     echo.MiddlewareFunc
	UploadDir     string // 空ならローカル画像を配信しない（minio）
	UploadURLPath string
}

// New はechoを組み立てる。起動・停止は呼び出し側
func New(l logger.Logger, h Handlers) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := handler.NewRenderer(web.Templates, "templates")
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = h.Pages.HandleHTTPError

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(l))

	RegisterRoutes(e, h)
	return e, nil
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	//静的ファイル（CSSは埋め込み、画像はアップロード先）
	static, _ := fs.Sub(web.Static, "static")
	e.StaticFS("/static", static)
	if h.UploadDir != "" {
		e.Static(h.UploadURLPath, h.UploadDir)
	}

	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)))

	h.Health.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Checkout.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, h.AdminGate)
	h.AdminOrder.RegisterRoutes(e, h.AdminGate)
}
