package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func receiptOrder() model.Order {
	return model.Order{
		ID:      42,
		OrderID: "AYMAN_1700000000000_ABCD1234",
		Status:  model.OrderStatusConfirmed,
		Total:   1499.50,
		Customer: model.Customer{
			Name:  "Test Customer",
			Email: "Customer@Example.com",
		},
	}
}

func newOrderFixture() (*OrderUsecase, *OrderRepoMock, *OrderItemRepoMock) {
	orderRepo := &OrderRepoMock{}
	itemRepo := &OrderItemRepoMock{}
	return NewOrderUsecase(orderRepo, itemRepo), orderRepo, itemRepo
}

func TestGetOrderByPK(t *testing.T) {
	uc, orderRepo, itemRepo := newOrderFixture()

	orderRepo.On("FindByID", mock.Anything, int64(42)).Return(receiptOrder(), nil)
	itemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{Kind: model.ItemKindBook, ItemID: "11", Title: "Test Book", UnitPrice: 749.75, Quantity: 2},
	}, nil)

	out, err := uc.GetOrder(context.Background(), "42", Viewer{Email: "customer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "AYMAN_1700000000000_ABCD1234", out.OrderID)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Test Book", out.Items[0].Title)
}

// 数値に見えない参照はorder_id（tran_id）として引く
func TestGetOrderByOrderRef(t *testing.T) {
	uc, orderRepo, itemRepo := newOrderFixture()

	orderRepo.On("FindByOrderID", mock.Anything, "AYMAN_1700000000000_ABCD1234").Return(receiptOrder(), nil)
	itemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := uc.GetOrder(context.Background(), "AYMAN_1700000000000_ABCD1234", Viewer{Email: "customer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
}

// emailの一致は大文字小文字を無視する
func TestGetOrderEmailCaseInsensitive(t *testing.T) {
	uc, orderRepo, itemRepo := newOrderFixture()

	orderRepo.On("FindByID", mock.Anything, int64(42)).Return(receiptOrder(), nil)
	itemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	_, err := uc.GetOrder(context.Background(), "42", Viewer{Email: "CUSTOMER@EXAMPLE.COM"})
	assert.NoError(t, err)
}

func TestGetOrderForbiddenForOtherViewer(t *testing.T) {
	uc, orderRepo, _ := newOrderFixture()

	orderRepo.On("FindByID", mock.Anything, int64(42)).Return(receiptOrder(), nil)

	_, err := uc.GetOrder(context.Background(), "42", Viewer{Email: "someone.else@example.com"})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestGetOrderAdminSeesAll(t *testing.T) {
	uc, orderRepo, itemRepo := newOrderFixture()

	orderRepo.On("FindByID", mock.Anything, int64(42)).Return(receiptOrder(), nil)
	itemRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	_, err := uc.GetOrder(context.Background(), "42", Viewer{Email: "admin@example.com", IsAdmin: true})
	assert.NoError(t, err)
}

func TestGetOrderNotFound(t *testing.T) {
	uc, orderRepo, _ := newOrderFixture()

	orderRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetOrder(context.Background(), "99", Viewer{IsAdmin: true})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
