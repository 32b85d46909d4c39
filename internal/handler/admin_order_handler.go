package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// 管理画面トップと注文ステータス
type AdminOrderHandler struct {
	*Pages
	uc *usecase.AdminOrderUsecase
}

// DI
func NewAdminOrderHandler(pages *Pages, uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{Pages: pages, uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, gate echo.MiddlewareFunc) {
	e.GET(adminDashboardPath, h.dashboard, gate)
	e.POST("/admin/orders/update/:id", h.updateStatus, gate)
}

func (h *AdminOrderHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return h.render(c, h.session(c), http.StatusOK, "admin_dashboard", "Dashboard", out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.writeError(c, err)
	}
	form, err := c.FormParams()
	if err != nil {
		return h.writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid form"))
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), middleware.AdminUsername(c), id, validator.ParseStatus(form)); err != nil {
		return h.writeError(c, err)
	}

	h.logger.Infof("order %d status updated", id)
	return h.flashRedirect(c, h.session(c), "success", "Order status updated!", adminDashboardPath)
}
