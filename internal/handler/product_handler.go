package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products の1件
type ProductJSON struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" swaggertype:"number"`
	Image       *string     `json:"image"`
	Stock       int64       `json:"stock"`
}

func toProductJSON(p model.Product) ProductJSON {
	return ProductJSON{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       json.Number(p.Price.StringFixed(2)),
		Image:       p.Image,
		Stock:       p.Stock,
	}
}

// 一覧画面に渡す値
type indexData struct {
	Q        string
	Products []model.Product
}

type productData struct {
	Product model.Product
	// 編集画面だけ
	History []model.AuditLog
}

// 商品一覧・詳細と公開API
type ProductHandler struct {
	*Pages
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(pages *Pages, uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{Pages: pages, uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/product/:slug", h.detail)
	e.GET("/api/products", h.apiList)
}

func (h *ProductHandler) index(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))

	products, err := h.uc.ListProducts(c.Request().Context(), q)
	if err != nil {
		return h.writeError(c, err)
	}

	return h.render(c, h.session(c), http.StatusOK, "index", "", indexData{Q: q, Products: products})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.writeError(c, err)
	}

	return h.render(c, h.session(c), http.StatusOK, "product", p.Name, productData{Product: p})
}

// apiList godoc
//
//	@Summary	全商品の一覧
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}		ProductJSON
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/products [get]
func (h *ProductHandler) apiList(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context(), "")
	if err != nil {
		return h.writeError(c, err)
	}

	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return c.JSON(http.StatusOK, out)
}
