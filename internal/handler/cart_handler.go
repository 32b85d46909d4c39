package handler

import (
	"net/http"

	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

const cartPath = "/cart"

// セッションのカート
type CartHandler struct {
	*Pages
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(pages *Pages, uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{Pages: pages, uc: uc}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.view)
	e.POST("/cart/add/:id", h.add)
	e.POST("/cart/update", h.update)
	e.POST("/cart/delete/:id", h.remove)
}

func (h *CartHandler) view(c echo.Context) error {
	sess := h.session(c)

	view, err := h.uc.View(c.Request().Context(), sess.Cart())
	if err != nil {
		return h.writeError(c, err)
	}
	return h.render(c, sess, http.StatusOK, "cart", "Cart", view)
}

// 商品の存在は確認しない（表示時に解決できない行は出ない）
func (h *CartHandler) add(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	qty, err := validator.ParseAddQty(c.FormValue("qty"))
	if err != nil {
		return h.writeError(c, err)
	}

	sess := h.session(c)
	cart := sess.Cart()
	cart.Add(id, qty)
	sess.SetCart(cart)

	return h.redirect(c, sess, cartPath)
}

func (h *CartHandler) update(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return h.writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid form"))
	}

	sess := h.session(c)
	cart := sess.Cart()
	for id, qty := range validator.ParseCartUpdate(form) {
		cart.Set(id, qty)
	}
	sess.SetCart(cart)

	return h.redirect(c, sess, cartPath)
}

func (h *CartHandler) remove(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}

	sess := h.session(c)
	cart := sess.Cart()
	cart.Remove(id)
	sess.SetCart(cart)

	return h.flashRedirect(c, sess, "info", "Product removed from cart.", cartPath)
}
