package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
)

// 購入者の入力。形式チェックはしない
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// 注文確定の結果
type Receipt struct {
	Orders   []model.Order
	Lines    []CartLine
	Total    decimal.Decimal
	Customer CustomerInput
}

// 注文確定後の通知（メール・イベント）
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, r Receipt) error
}

type CheckoutUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
	notifier    OrderNotifier
	logger      logger.Logger
}

func NewCheckoutUsecase(
	productRepo repo.ProductRepository,
	tx repo.TransactionManager,
	notifier OrderNotifier,
	logger logger.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		productRepo: productRepo,
		tx:          tx,
		notifier:    notifier,
		logger:      logger,
	}
}

// Preview は確認画面用。空のカートは ErrEmptyCart
func (u *CheckoutUsecase) Preview(ctx context.Context, cart model.Cart) (CartView, error) {
	if cart.IsEmpty() {
		return CartView{}, ErrEmptyCart
	}

	view, err := resolveCart(ctx, u.productRepo, cart)
	if err != nil {
		u.logger.Errorf(err, "resolve cart for checkout")
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return view, nil
}

// PlaceOrder は解決できた行ごとに注文を1件作る。商品の解決と保存は同じトランザクション。
// カートを空にするのと通知は呼び出し側（保存の後）
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, cart model.Cart, in CustomerInput) (Receipt, error) {
	if cart.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}

	var (
		view    CartView
		created []model.Order
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := resolveCart(ctx, r.Products(), cart)
		if err != nil {
			return err
		}

		orders := make([]model.Order, 0, len(v.Lines))
		for _, line := range v.Lines {
			orders = append(orders, model.Order{
				ProductID:       line.Product.ID,
				Qty:             line.Qty,
				CustomerName:    in.Name,
				CustomerEmail:   in.Email,
				CustomerPhone:   in.Phone,
				CustomerAddress: in.Address,
				Total:           line.Subtotal,
				Status:          model.OrderStatusPending,
			})
		}

		out, err := r.Orders().CreateBulk(ctx, orders)
		if err != nil {
			return err
		}
		view, created = v, out
		return nil
	})
	if err != nil {
		u.logger.Errorf(err, "place order for %d cart lines", len(cart))
		return Receipt{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return Receipt{
		Orders:   created,
		Lines:    view.Lines,
		Total:    view.Total,
		Customer: in,
	}, nil
}

// NotifyOrderPlaced は通知を送る。失敗はログに残して握りつぶす
func (u *CheckoutUsecase) NotifyOrderPlaced(ctx context.Context, r Receipt) {
	if u.notifier == nil {
		return
	}
	log := u.logger.With("order_ids", orderIDs(r.Orders))
	if err := u.notifier.OrderPlaced(ctx, r); err != nil {
		log.Warnf("order notification failed: %v", err)
		return
	}
	log.Infof("order notification sent")
}

func orderIDs(orders []model.Order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
