package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// エラー画面に渡す値
type errorData struct {
	Status  int
	Message string
}

// writeError はHTTPErrorをステータスに変換する。/api はJSON、それ以外はエラー画面
func (p *Pages) writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	status, msg := http.StatusInternalServerError, "internal error"
	var fe *validator.FieldError
	var ee *echo.HTTPError
	switch {
	case errors.As(err, &fe):
		status, msg = http.StatusBadRequest, fe.Error()
	case errors.As(err, &ee):
		status, msg = ee.Code, http.StatusText(ee.Code)
	default:
		if he, ok := usecase.AsHTTPError(err); ok {
			status, msg = he.Status, he.Message
		}
	}

	//500
	if status >= http.StatusInternalServerError {
		p.logger.Errorf(err, "%s %s", c.Request().Method, c.Request().URL.Path)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return c.JSON(status, ErrorResponse{Error: msg})
	}
	return c.Render(status, "error", Page{
		Title:    strconv.Itoa(status),
		ShopName: p.shopName,
		Data:     errorData{Status: status, Message: msg},
	})
}

// echoのHTTPErrorHandler（未登録パス・メソッド違いなど）
func (p *Pages) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if werr := p.writeError(c, err); werr != nil {
		p.logger.Errorf(werr, "write error response")
	}
}

// パスの:idを読む。数値でなければ404（ルートに合わない扱い）
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
