package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productDeps struct {
	products *ProductRepoMock
	orders   *OrderRepoMock
	audit    *AuditRepoMock
	images   *ImageStoreMock
}

func newProductUsecase() (*usecase.ProductUsecase, productDeps) {
	d := productDeps{
		products: new(ProductRepoMock),
		orders:   new(OrderRepoMock),
		audit:    new(AuditRepoMock),
		images:   new(ImageStoreMock),
	}
	uc := usecase.NewProductUsecase(d.products, d.orders, d.audit, d.images, logger.NewNop())
	return uc, d
}

// =====================
// Catalog
// =====================

func TestProductUsecase_ListProducts_TrimsQuery(t *testing.T) {
	uc, d := newProductUsecase()
	items := []model.Product{{ID: 1, Name: "Silk"}}
	d.products.On("List", mock.Anything, "silk").Return(items, nil)

	got, err := uc.ListProducts(context.Background(), "  silk ")
	require.NoError(t, err)
	assert.Equal(t, items, got)
	d.products.AssertExpectations(t)
}

func TestProductUsecase_ListProducts_DBError(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("List", mock.Anything, "").Return(nil, errors.New("db down"))

	_, err := uc.ListProducts(context.Background(), "")
	assertHTTPStatus(t, err, http.StatusInternalServerError)
}

func TestProductUsecase_GetProductBySlug_NotFound(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindBySlug", mock.Anything, "nope").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductBySlug(context.Background(), "nope")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Admin: create
// =====================

func TestProductUsecase_AdminCreateProduct_SlugCollisionGetsSuffix(t *testing.T) {
	uc, d := newProductUsecase()
	ctx := context.Background()

	d.products.On("SlugExists", mock.Anything, "banarasi-saree", int64(0)).Return(true, nil)
	d.products.On("SlugExists", mock.Anything, "banarasi-saree-1", int64(0)).Return(true, nil)
	d.products.On("SlugExists", mock.Anything, "banarasi-saree-2", int64(0)).Return(false, nil)
	d.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Slug == "banarasi-saree-2" && p.Name == "Banarasi Saree" && p.Image == nil
	})).Return(model.Product{ID: 9, Name: "Banarasi Saree", Slug: "banarasi-saree-2"}, nil)
	d.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Actor == "sps" && l.Action == model.AuditActionCreateProduct && l.ResourceID == 9 && l.BeforeJSON == ""
	})).Return(nil)

	p, err := uc.AdminCreateProduct(ctx, "sps", usecase.ProductInput{
		Name:  " Banarasi Saree ",
		Price: decimal.RequireFromString("15999"),
		Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "banarasi-saree-2", p.Slug)
	d.products.AssertExpectations(t)
	d.audit.AssertExpectations(t)
}

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	cases := map[string]usecase.ProductInput{
		"blank name":     {Name: "  ", Price: decimal.NewFromInt(1)},
		"negative price": {Name: "x", Price: decimal.NewFromInt(-1)},
		"negative stock": {Name: "x", Price: decimal.NewFromInt(1), Stock: -1},
		"long name":      {Name: strings.Repeat("a", 121), Price: decimal.NewFromInt(1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			uc, d := newProductUsecase()
			_, err := uc.AdminCreateProduct(context.Background(), "sps", in)
			assertHTTPStatus(t, err, http.StatusBadRequest)
			d.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductUsecase_AdminCreateProduct_SavesImageWithExtension(t *testing.T) {
	uc, d := newProductUsecase()
	url := "http://localhost:8080/static/images/silk.jpg"

	d.products.On("SlugExists", mock.Anything, "silk", int64(0)).Return(false, nil)
	d.images.On("Save", mock.Anything, "silk.jpg", int64(3), "image/jpeg").Return(url, nil)
	d.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Image != nil && *p.Image == url
	})).Return(model.Product{ID: 1, Slug: "silk", Image: &url}, nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	p, err := uc.AdminCreateProduct(context.Background(), "sps", usecase.ProductInput{
		Name:  "Silk",
		Price: decimal.NewFromInt(10),
		Image: &usecase.ImageUpload{Filename: "silk.jpg", Size: 3, ContentType: "image/jpeg", Content: strings.NewReader("img")},
	})
	require.NoError(t, err)
	assert.Equal(t, url, p.ImageURL())
	d.images.AssertExpectations(t)
}

func TestProductUsecase_AdminCreateProduct_IgnoresFileWithoutExtension(t *testing.T) {
	uc, d := newProductUsecase()

	d.products.On("SlugExists", mock.Anything, "silk", int64(0)).Return(false, nil)
	d.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Image == nil
	})).Return(model.Product{ID: 1, Slug: "silk"}, nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.AdminCreateProduct(context.Background(), "sps", usecase.ProductInput{
		Name:  "Silk",
		Price: decimal.NewFromInt(10),
		Image: &usecase.ImageUpload{Filename: "README", Content: strings.NewReader("x")},
	})
	require.NoError(t, err)
	d.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_AdminCreateProduct_AuditFailureIsNotFatal(t *testing.T) {
	uc, d := newProductUsecase()

	d.products.On("SlugExists", mock.Anything, "silk", int64(0)).Return(false, nil)
	d.products.On("Create", mock.Anything, mock.Anything).Return(model.Product{ID: 1, Slug: "silk"}, nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit down"))

	_, err := uc.AdminCreateProduct(context.Background(), "sps", usecase.ProductInput{Name: "Silk", Price: decimal.NewFromInt(1)})
	assert.NoError(t, err)
}

// =====================
// Admin: update
// =====================

func TestProductUsecase_AdminUpdateProduct_ExcludesOwnRowAndKeepsImage(t *testing.T) {
	uc, d := newProductUsecase()
	img := "http://x/static/images/old.jpg"
	existing := model.Product{ID: 5, Name: "Silk", Slug: "silk", Price: decimal.NewFromInt(10), Stock: 1, Image: &img}

	d.products.On("FindByID", mock.Anything, int64(5)).Return(existing, nil)
	d.products.On("SlugExists", mock.Anything, "silk", int64(5)).Return(false, nil)
	d.products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 5 && p.Slug == "silk" && p.Stock == 8 && p.Image != nil && *p.Image == img &&
			p.Price.Equal(decimal.RequireFromString("12.50"))
	})).Return(nil)
	d.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateProduct &&
			strings.Contains(l.BeforeJSON, `"stock":1`) && strings.Contains(l.AfterJSON, `"stock":8`)
	})).Return(nil)

	p, err := uc.AdminUpdateProduct(context.Background(), "sps", 5, usecase.ProductInput{
		Name:  "Silk",
		Price: decimal.RequireFromString("12.50"),
		Stock: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, img, p.ImageURL())
	d.products.AssertExpectations(t)
	d.audit.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateProduct_RenameRederivesSlug(t *testing.T) {
	uc, d := newProductUsecase()
	existing := model.Product{ID: 5, Name: "Silk", Slug: "silk"}

	d.products.On("FindByID", mock.Anything, int64(5)).Return(existing, nil)
	d.products.On("SlugExists", mock.Anything, "cotton", int64(5)).Return(true, nil)
	d.products.On("SlugExists", mock.Anything, "cotton-1", int64(5)).Return(false, nil)
	d.products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Slug == "cotton-1" && p.Name == "Cotton"
	})).Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	p, err := uc.AdminUpdateProduct(context.Background(), "sps", 5, usecase.ProductInput{Name: "Cotton", Price: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, "cotton-1", p.Slug)
}

func TestProductUsecase_AdminUpdateProduct_NotFound(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AdminUpdateProduct(context.Background(), "sps", 404, usecase.ProductInput{Name: "x"})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Admin: delete
// =====================

func TestProductUsecase_AdminDeleteProduct_BlockedByOrders(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	d.orders.On("CountByProductID", mock.Anything, int64(1)).Return(int64(2), nil)

	err := uc.AdminDeleteProduct(context.Background(), "sps", 1)
	assert.ErrorIs(t, err, usecase.ErrProductHasOrders)
	d.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	d.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_AdminDeleteProduct_FKRaceMapsToHasOrders(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	d.orders.On("CountByProductID", mock.Anything, int64(1)).Return(int64(0), nil)
	d.products.On("Delete", mock.Anything, int64(1)).Return(repo.ErrReferenced)

	err := uc.AdminDeleteProduct(context.Background(), "sps", 1)
	assert.ErrorIs(t, err, usecase.ErrProductHasOrders)
}

func TestProductUsecase_AdminDeleteProduct_Success(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Slug: "silk"}, nil)
	d.orders.On("CountByProductID", mock.Anything, int64(1)).Return(int64(0), nil)
	d.products.On("Delete", mock.Anything, int64(1)).Return(nil)
	d.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct && l.AfterJSON == "" && strings.Contains(l.BeforeJSON, `"slug":"silk"`)
	})).Return(nil)

	require.NoError(t, uc.AdminDeleteProduct(context.Background(), "sps", 1))
	d.products.AssertExpectations(t)
	d.audit.AssertExpectations(t)
}

func TestProductUsecase_AdminDeleteProduct_NotFound(t *testing.T) {
	uc, d := newProductUsecase()
	d.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{}, repo.ErrNotFound)

	err := uc.AdminDeleteProduct(context.Background(), "sps", 3)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_ProductHistory(t *testing.T) {
	uc, d := newProductUsecase()
	d.audit.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.ResourceType != nil && *f.ResourceType == model.AuditResourceProduct &&
			f.ResourceID != nil && *f.ResourceID == 4 && f.Limit == 10
	})).Return([]model.AuditLog{{ID: 2, Action: model.AuditActionUpdateProduct}}, nil)

	logs := uc.ProductHistory(context.Background(), 4)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionUpdateProduct, logs[0].Action)
}

func TestProductUsecase_ProductHistory_FailureIsEmpty(t *testing.T) {
	uc, d := newProductUsecase()
	d.audit.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	assert.Empty(t, uc.ProductHistory(context.Background(), 4))
}
