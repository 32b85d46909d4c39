package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
	"storefront/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartUsecase_View_DropsMissingProductsButKeepsCart(t *testing.T) {
	products := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(products, logger.NewNop())

	cart := model.Cart{"1": 2, "2": 1, "99": 4}
	products.On("FindByIDs", mock.Anything, []int64{1, 2, 99}).Return([]model.Product{
		{ID: 1, Name: "Cotton", Price: decimal.RequireFromString("2499.00")},
		{ID: 2, Name: "Silk", Price: decimal.RequireFromString("100.50")},
	}, nil)

	view, err := uc.View(context.Background(), cart)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(2), view.Lines[0].Qty)
	assert.True(t, decimal.RequireFromString("4998").Equal(view.Lines[0].Subtotal))
	assert.True(t, decimal.RequireFromString("5098.50").Equal(view.Total))

	//消えた商品はカートに残る
	assert.Equal(t, 4, cart.Qty(99))
	products.AssertExpectations(t)
}

func TestCartUsecase_View_EmptyCartSkipsLookup(t *testing.T) {
	products := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(products, logger.NewNop())

	view, err := uc.View(context.Background(), model.Cart{})
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
	products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCartUsecase_View_DBError(t *testing.T) {
	products := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(products, logger.NewNop())
	products.On("FindByIDs", mock.Anything, []int64{1}).Return(nil, errors.New("db down"))

	_, err := uc.View(context.Background(), model.Cart{"1": 1})
	assertHTTPStatus(t, err, http.StatusInternalServerError)
}
