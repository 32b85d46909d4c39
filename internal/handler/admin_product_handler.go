package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// 管理画面の商品追加・編集・削除
type AdminProductHandler struct {
	*Pages
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(pages *Pages, uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{Pages: pages, uc: uc}
}

// adminを登録（gateを通したものだけ）
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	admin := e.Group("/admin", gate)

	admin.GET("/add_product", h.addForm)
	admin.POST("/add_product", h.createProduct)
	admin.GET("/products/edit/:id", h.editForm)
	admin.POST("/products/edit/:id", h.updateProduct)
	admin.POST("/products/delete/:id", h.deleteProduct)
}

func (h *AdminProductHandler) addForm(c echo.Context) error {
	return h.render(c, h.session(c), http.StatusOK, "add_product", "Add product", nil)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	sess := h.session(c)

	in, closeFile, err := readProductInput(c, true)
	if err != nil {
		return h.formError(c, sess, "add_product", "Add product", nil, err)
	}
	defer closeFile()

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), middleware.AdminUsername(c), in)
	if err != nil {
		return h.formError(c, sess, "add_product", "Add product", nil, err)
	}

	h.logger.Infof("product created: id=%d slug=%s", p.ID, p.Slug)
	return h.flashRedirect(c, sess, "success", "Product added successfully!", adminDashboardPath)
}

func (h *AdminProductHandler) editForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	data := productData{Product: p, History: h.uc.ProductHistory(c.Request().Context(), id)}
	return h.render(c, h.session(c), http.StatusOK, "edit_product", "Edit "+p.Name, data)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	sess := h.session(c)

	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	current, err := h.uc.GetProduct(ctx, id)
	if err != nil {
		return h.writeError(c, err)
	}
	data := productData{Product: current}

	in, closeFile, err := readProductInput(c, false)
	if err != nil {
		return h.formError(c, sess, "edit_product", "Edit "+current.Name, data, err)
	}
	defer closeFile()

	if _, err := h.uc.AdminUpdateProduct(ctx, middleware.AdminUsername(c), id, in); err != nil {
		return h.formError(c, sess, "edit_product", "Edit "+current.Name, data, err)
	}

	return h.flashRedirect(c, sess, "success", "Product updated successfully", adminDashboardPath)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	sess := h.session(c)

	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}

	err = h.uc.AdminDeleteProduct(c.Request().Context(), middleware.AdminUsername(c), id)
	if errors.Is(err, usecase.ErrProductHasOrders) {
		return h.flashRedirect(c, sess, "danger", "Cannot delete product because orders exist for it.", adminDashboardPath)
	}
	if err != nil {
		return h.writeError(c, err)
	}

	h.logger.Infof("product deleted: id=%d", id)
	return h.flashRedirect(c, sess, "success", "Product deleted successfully", adminDashboardPath)
}

// 入力エラーはフォームを400で出し直す。それ以外はエラー画面
func (h *AdminProductHandler) formError(c echo.Context, sess *session.Session, name, title string, data any, err error) error {
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		return h.render(c, sess, http.StatusBadRequest, name, title, data,
			session.Flash{Category: "danger", Message: fe.Error()})
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusBadRequest {
		return h.render(c, sess, http.StatusBadRequest, name, title, data,
			session.Flash{Category: "danger", Message: he.Message})
	}
	return h.writeError(c, err)
}

// readProductInput はmultipartの商品フォームを読む。
// 画像が無ければImageはnil。返したcloseは必ず呼ぶ
func readProductInput(c echo.Context, requireNumbers bool) (usecase.ProductInput, func(), error) {
	noop := func() {}

	form, err := c.FormParams()
	if err != nil {
		return usecase.ProductInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	pf, err := validator.ParseProductForm(form, requireNumbers)
	if err != nil {
		return usecase.ProductInput{}, noop, err
	}

	in := usecase.ProductInput{
		Name:        pf.Name,
		Description: pf.Description,
		Price:       pf.Price,
		Stock:       pf.Stock,
	}

	fh, err := c.FormFile("image")
	if err != nil {
		//ファイル無し・multipartでない
		return in, noop, nil
	}
	img, f, err := openUpload(fh)
	if err != nil {
		return usecase.ProductInput{}, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid image")
	}
	in.Image = img
	return in, func() { _ = f.Close() }, nil
}

func openUpload(fh *multipart.FileHeader) (*usecase.ImageUpload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.ImageUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, f, nil
}
