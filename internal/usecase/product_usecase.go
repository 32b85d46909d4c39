package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
)

// 画像の保存先（ローカル or MinIO）
type ImageStore interface {
	// 保存して公開URLを返す
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

const productHistoryLimit = 10

type ProductUsecase struct {
	productRepo repo.ProductRepository
	orderRepo   repo.OrderRepository
	auditRepo   repo.AuditLogRepository
	images      ImageStore
	logger      logger.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	images ImageStore,
	logger logger.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
		images:      images,
		logger:      logger,
	}
}

// カタログ一覧。qがあれば名前の部分一致
func (u *ProductUsecase) ListProducts(ctx context.Context, q string) ([]model.Product, error) {
	items, err := u.productRepo.List(ctx, strings.TrimSpace(q))
	if err != nil {
		u.logger.Errorf(err, "list products")
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	p, err := u.productRepo.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Errorf(err, "find product by slug %q", slug)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Errorf(err, "find product %d", productID)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// アップロードされた画像
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// 管理画面の商品フォーム
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	// 無ければnil
	Image *ImageUpload
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(in.Name) > 120 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

// 商品の作成
func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor string, in ProductInput) (model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	name := strings.TrimSpace(in.Name)
	slug, err := uniqueSlug(ctx, u.productRepo, name, 0)
	if err != nil {
		u.logger.Errorf(err, "derive slug for %q", name)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	image, err := u.saveImage(ctx, in.Image)
	if err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       image,
	})
	if err != nil {
		u.logger.Errorf(err, "create product %q", slug)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionCreateProduct, p.ID, nil, &p)
	return p, nil
}

// 商品の更新。slugは自分の行を除いて作り直す。画像は新しいファイルがあるときだけ差し替え
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor string, productID int64, in ProductInput) (model.Product, error) {
	before, err := u.GetProduct(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	name := strings.TrimSpace(in.Name)
	slug, err := uniqueSlug(ctx, u.productRepo, name, productID)
	if err != nil {
		u.logger.Errorf(err, "derive slug for %q", name)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after := before
	after.Name = name
	after.Slug = slug
	after.Description = in.Description
	after.Price = in.Price
	after.Stock = in.Stock

	image, err := u.saveImage(ctx, in.Image)
	if err != nil {
		return model.Product{}, err
	}
	if image != nil {
		after.Image = image
	}

	err = u.productRepo.Update(ctx, after)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Errorf(err, "update product %d", productID)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after.UpdatedAt = time.Now()
	u.audit(ctx, actor, model.AuditActionUpdateProduct, productID, &before, &after)
	return after, nil
}

// 商品の削除。注文が1件でもあれば ErrProductHasOrders で何も変えない
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor string, productID int64) error {
	before, err := u.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	n, err := u.orderRepo.CountByProductID(ctx, productID)
	if err != nil {
		u.logger.Errorf(err, "count orders for product %d", productID)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if n > 0 {
		return ErrProductHasOrders
	}

	err = u.productRepo.Delete(ctx, productID)
	switch {
	case errors.Is(err, repo.ErrReferenced):
		//チェックの後に注文が入った
		return ErrProductHasOrders
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case err != nil:
		u.logger.Errorf(err, "delete product %d", productID)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionDeleteProduct, productID, &before, nil)
	return nil
}

// ファイル名に . があるときだけ保存する。種類とサイズは見ない
func (u *ProductUsecase) saveImage(ctx context.Context, img *ImageUpload) (*string, error) {
	if img == nil || img.Content == nil || !strings.Contains(img.Filename, ".") {
		return nil, nil
	}

	url, err := u.images.Save(ctx, img.Filename, img.Content, img.Size, img.ContentType)
	if err != nil {
		u.logger.Errorf(err, "save image %q", img.Filename)
		return nil, NewHTTPError(http.StatusBadRequest, "could not save image")
	}
	return &url, nil
}

// 監査ログで残す商品の項目
type productSnapshot struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Image       *string         `json:"image"`
}

func snapshotJSON(p *model.Product) string {
	if p == nil {
		return ""
	}
	b, err := json.Marshal(productSnapshot{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
	})
	if err != nil {
		return ""
	}
	return string(b)
}

// 商品の変更履歴（新しい順）。読めなければ空で返す
func (u *ProductUsecase) ProductHistory(ctx context.Context, productID int64) []model.AuditLog {
	rt := model.AuditResourceProduct
	logs, err := u.auditRepo.List(ctx, repo.AuditLogFilter{
		ResourceType: &rt,
		ResourceID:   &productID,
		Limit:        productHistoryLimit,
	})
	if err != nil {
		u.logger.Warnf("list audit logs for product %d: %v", productID, err)
		return nil
	}
	return logs
}

// 監査ログは失敗しても操作自体は成功扱い（ログだけ残す）
func (u *ProductUsecase) audit(ctx context.Context, actor string, action model.AuditAction, productID int64, before, after *model.Product) {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   snapshotJSON(before),
		AfterJSON:    snapshotJSON(after),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		u.logger.Errorf(err, "write audit log %s for product %d", action, productID)
	}
}
