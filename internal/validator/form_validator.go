package validator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

// フォームの値が不正
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// カート追加の数量。空なら1。整数でなければエラー（正負は見ない）
func ParseAddQty(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldErr("qty", "must be an integer")
	}
	return n, nil
}

// カート更新フォームの qty_<id> を読む。
// 正の整数ならその数量、それ以外（空・0・負・数値でない）は0＝削除
func ParseCartUpdate(form url.Values) map[int64]int {
	out := map[int64]int{}
	for key, vals := range form {
		if !strings.HasPrefix(key, "qty_") {
			continue
		}
		suffix := strings.TrimPrefix(key, "qty_")
		id, err := strconv.ParseInt(suffix, 10, 64)
		//qty_01 や qty_+1 は別名になるので読まない
		if err != nil || strconv.FormatInt(id, 10) != suffix {
			continue
		}

		qty := 0
		if len(vals) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(vals[0])); err == nil && n > 0 {
				qty = n
			}
		}
		out[id] = qty
	}
	return out
}

// 商品フォーム（画像以外）
type ProductForm struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
}

// ParseProductForm は商品フォームを読む。
// requireNumbersがtrue（追加）ならprice/stockは必須、false（編集）なら無ければ0
func ParseProductForm(form url.Values, requireNumbers bool) (ProductForm, error) {
	var out ProductForm

	out.Name = strings.TrimSpace(form.Get("name"))
	if out.Name == "" {
		return out, fieldErr("name", "required")
	}
	out.Description = form.Get("description")

	price, err := parseDecimalField(form, "price", requireNumbers)
	if err != nil {
		return out, err
	}
	out.Price = price

	stock, err := parseIntField(form, "stock", requireNumbers)
	if err != nil {
		return out, err
	}
	out.Stock = stock

	return out, nil
}

func parseDecimalField(form url.Values, field string, required bool) (decimal.Decimal, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		if required {
			return decimal.Zero, fieldErr(field, "required")
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fieldErr(field, "must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, fieldErr(field, "must be >= 0")
	}
	return d.Round(2), nil
}

func parseIntField(form url.Values, field string, required bool) (int64, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		if required {
			return 0, fieldErr(field, "required")
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fieldErr(field, "must be an integer")
	}
	if n < 0 {
		return 0, fieldErr(field, "must be >= 0")
	}
	return n, nil
}

// 購入フォーム。4項目ともキーが無ければエラー、空文字はそのまま通す
func ParseCheckoutForm(form url.Values) (usecase.CustomerInput, error) {
	var out usecase.CustomerInput
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"name", &out.Name},
		{"email", &out.Email},
		{"phone", &out.Phone},
		{"address", &out.Address},
	} {
		if !form.Has(f.name) {
			return usecase.CustomerInput{}, fieldErr(f.name, "required")
		}
		*f.dst = form.Get(f.name)
	}
	return out, nil
}

// 注文ステータス。キーが無ければnil（今の値のまま）
func ParseStatus(form url.Values) *string {
	if !form.Has("status") {
		return nil
	}
	s := form.Get("status")
	return &s
}
