package usecase

import (
	"errors"
	"fmt"
)

// handlerがステータスとメッセージに変換するエラー
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	// 注文が残っている商品は消せない
	ErrProductHasOrders = errors.New("product has orders")
	// カートが空
	ErrEmptyCart = errors.New("cart is empty")
)
