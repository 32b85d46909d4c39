package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
)

// カートの1行（商品が解決できたものだけ）
type CartLine struct {
	Product  model.Product
	Qty      int64
	Subtotal decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
}

// カート自体はセッションにあるので、ここでは商品の解決と合計だけ行う
type CartUsecase struct {
	productRepo repo.ProductRepository
	logger      logger.Logger
}

func NewCartUsecase(productRepo repo.ProductRepository, logger logger.Logger) *CartUsecase {
	return &CartUsecase{productRepo: productRepo, logger: logger}
}

// View はカートの中身を商品に解決する。
// 消えた商品の行は表示と合計から外すが、カートには残したまま
func (u *CartUsecase) View(ctx context.Context, cart model.Cart) (CartView, error) {
	view, err := resolveCart(ctx, u.productRepo, cart)
	if err != nil {
		u.logger.Errorf(err, "resolve cart")
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return view, nil
}

// 1回のIN検索でまとめて解決する。行は商品ID順
func resolveCart(ctx context.Context, products repo.ProductRepository, cart model.Cart) (CartView, error) {
	view := CartView{Lines: []CartLine{}, Total: decimal.Zero}

	ids := cart.ProductIDs()
	if len(ids) == 0 {
		return view, nil
	}

	items, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}

	for _, p := range items {
		qty := int64(cart.Qty(p.ID))
		if qty <= 0 {
			continue
		}
		subtotal := p.Subtotal(qty)
		view.Lines = append(view.Lines, CartLine{Product: p, Qty: qty, Subtotal: subtotal})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}
