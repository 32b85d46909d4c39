package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/pkg/logger"
)

type AdminOrderUsecase struct {
	tx          repo.TransactionManager
	orderRepo   repo.OrderRepository
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	logger      logger.Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	logger logger.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:          tx,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// 管理画面トップに出すもの
type DashboardOutput struct {
	Orders   []model.Order
	Products []model.Product
	// 最近の管理者操作（新しい順）
	Activity []model.AuditLog
}

// ダッシュボードに出す操作ログの件数
const dashboardActivityLimit = 20

// 注文（商品付き）と商品の全件。操作ログは取れなくても画面は出す
func (u *AdminOrderUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	orders, err := u.orderRepo.ListAll(ctx)
	if err != nil {
		u.logger.Errorf(err, "list orders")
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	products, err := u.productRepo.List(ctx, "")
	if err != nil {
		u.logger.Errorf(err, "list products")
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	activity, err := u.auditRepo.List(ctx, repo.AuditLogFilter{Limit: dashboardActivityLimit})
	if err != nil {
		u.logger.Warnf("list audit logs: %v", err)
		activity = nil
	}
	return DashboardOutput{Orders: orders, Products: products, Activity: activity}, nil
}

// ステータスの最大長（カラム幅）
const maxStatusLen = 50

// UpdateStatus は注文ステータスを上書きする。値は自由入力。
// statusがnilなら今の値のまま
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor string, orderID int64, status *string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if status != nil && len(*status) > maxStatusLen {
		return NewHTTPError(http.StatusBadRequest, "status too long")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return err
		}

		next := o.Status
		if status != nil {
			next = *status
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return err
		}

		//監査ログ（同じトランザクション）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   statusJSON(o.Status),
			AfterJSON:    statusJSON(next),
			CreatedAt:    time.Now(),
		})
	})
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	u.logger.Errorf(err, "update status of order %d", orderID)
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func statusJSON(s string) string {
	b, err := json.Marshal(map[string]string{"status": s})
	if err != nil {
		return ""
	}
	return string(b)
}
