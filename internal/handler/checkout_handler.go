package handler

import (
	"errors"
	"net/http"

	"storefront/internal/session"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 購入画面に渡す値
type checkoutData struct {
	Lines   []usecase.CartLine
	Total   decimal.Decimal
	Success bool
}

// 購入確認と注文確定
type CheckoutHandler struct {
	*Pages
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(pages *Pages, uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{Pages: pages, uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout", h.form)
	e.POST("/checkout", h.placeOrder)
}

func (h *CheckoutHandler) emptyCart(c echo.Context, sess *session.Session) error {
	return h.flashRedirect(c, sess, "warning", "Your cart is empty!", "/")
}

func (h *CheckoutHandler) form(c echo.Context) error {
	sess := h.session(c)

	view, err := h.uc.Preview(c.Request().Context(), sess.Cart())
	if errors.Is(err, usecase.ErrEmptyCart) {
		return h.emptyCart(c, sess)
	}
	if err != nil {
		return h.writeError(c, err)
	}

	return h.render(c, sess, http.StatusOK, "checkout", "Checkout", checkoutData{Lines: view.Lines, Total: view.Total})
}

func (h *CheckoutHandler) placeOrder(c echo.Context) error {
	ctx := c.Request().Context()
	sess := h.session(c)
	cart := sess.Cart()
	if cart.IsEmpty() {
		return h.emptyCart(c, sess)
	}

	form, err := c.FormParams()
	if err != nil {
		return h.writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid form"))
	}
	in, err := validator.ParseCheckoutForm(form)
	if err != nil {
		return h.writeError(c, err)
	}

	receipt, err := h.uc.PlaceOrder(ctx, cart, in)
	if errors.Is(err, usecase.ErrEmptyCart) {
		return h.emptyCart(c, sess)
	}
	if err != nil {
		return h.writeError(c, err)
	}

	//コミット後にカートを空にしてから通知
	cart.Clear()
	sess.SetCart(cart)
	h.uc.NotifyOrderPlaced(ctx, receipt)

	return h.render(c, sess, http.StatusOK, "checkout", "Order placed",
		checkoutData{Lines: receipt.Lines, Total: receipt.Total, Success: true},
		session.Flash{Category: "success", Message: "Order placed successfully! Confirmation sent via email."},
	)
}
