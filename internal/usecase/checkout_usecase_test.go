package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway/sslcommerz"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutTestConfig() config.Config {
	return config.Config{
		AppURL:     "https://api.example",
		FEURL:      "https://shop.example",
		Currency:   "BDT",
		TranPrefix: "AYMAN",
	}
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		Items: []CheckoutItemInput{
			{Kind: "BOOK", ItemID: "11", Title: "Test Book", UnitPrice: 500, Quantity: 2},
		},
		Customer: CheckoutCustomerInput{Name: "Test Customer", Email: "c@example.com", Phone: "01700000000"},
		Total:    1000,
	}
}

func newCheckoutFixture() (*CheckoutUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *GatewayMock) {
	orderRepo := &OrderRepoMock{}
	itemRepo := &OrderItemRepoMock{}
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orderRepo, orderItems: itemRepo}}
	gateway := &GatewayMock{}

	uc := NewCheckoutUsecase(tx, orderRepo, gateway, checkoutTestConfig())
	return uc, tx, orderRepo, itemRepo, gateway
}

func TestCheckoutValidation(t *testing.T) {
	uc, _, _, _, _ := newCheckoutFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"empty items", func(in *CheckoutInput) { in.Items = nil }},
		{"missing customer name", func(in *CheckoutInput) { in.Customer.Name = "" }},
		{"missing customer email", func(in *CheckoutInput) { in.Customer.Email = "" }},
		{"missing customer phone", func(in *CheckoutInput) { in.Customer.Phone = "" }},
		{"zero total", func(in *CheckoutInput) { in.Total = 0 }},
		{"negative total", func(in *CheckoutInput) { in.Total = -5 }},
		{"unknown item kind", func(in *CheckoutInput) { in.Items[0].Kind = "STICKER" }},
		{"zero quantity", func(in *CheckoutInput) { in.Items[0].Quantity = 0 }},
		{"total mismatch", func(in *CheckoutInput) { in.Total = 999 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validCheckoutInput()
			c.mutate(&in)

			_, err := uc.Execute(ctx, in)
			require.Error(t, err)

			he, ok := AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
		})
	}
}

// 絵画（物理商品）は配送先必須
func TestCheckoutPaintingRequiresShipping(t *testing.T) {
	uc, _, _, _, _ := newCheckoutFixture()

	in := CheckoutInput{
		Items: []CheckoutItemInput{
			{Kind: "PAINTING", ItemID: "7", Title: "Sunset", UnitPrice: 5000, Quantity: 1},
		},
		Customer: CheckoutCustomerInput{Name: "n", Email: "e@example.com", Phone: "p"},
		Total:    5000,
	}

	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Contains(t, he.Message, "shipping")
}

func TestCheckoutSuccess(t *testing.T) {
	uc, tx, orderRepo, itemRepo, gateway := newCheckoutFixture()
	ctx := context.Background()

	var createdOrder model.Order
	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		createdOrder = o
		return o.Status == model.OrderStatusPending && o.Payment.Status == model.PaymentStatusPending
	})).Return(int64(42), nil)
	itemRepo.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)

	var initReq sslcommerz.InitRequest
	gateway.On("InitSession", mock.Anything, mock.MatchedBy(func(r sslcommerz.InitRequest) bool {
		initReq = r
		return true
	})).Return(sslcommerz.InitResponse{
		Status:         "SUCCESS",
		SessionKey:     "sess123",
		GatewayPageURL: "https://gw.example/pay",
	}, nil)

	out, err := uc.Execute(ctx, validCheckoutInput())
	require.NoError(t, err)

	assert.Equal(t, int64(42), out.OrderID)
	assert.Equal(t, "https://gw.example/pay", out.PaymentURL)
	assert.Equal(t, "sess123", out.SessionKey)
	assert.True(t, strings.HasPrefix(out.TransactionID, "AYMAN_"))

	//合計は明細から再計算した値がOrderとPaymentに記録される
	assert.Equal(t, 1000.0, createdOrder.Total)
	assert.Equal(t, 1000.0, createdOrder.Payment.Amount)
	assert.Equal(t, 1000.0, initReq.TotalAmount)

	//tran_idはorderとゲートウェイの両方に同じ値が渡る
	assert.Equal(t, out.TransactionID, createdOrder.OrderID)
	assert.Equal(t, out.TransactionID, createdOrder.Payment.TransactionID)
	assert.Equal(t, out.TransactionID, initReq.TranID)

	//value_aにはOrderの主キーが入る
	assert.Equal(t, "42", initReq.ValueA)
	//callback URLはAPP_URL起点
	assert.Equal(t, "https://api.example/api/payment/success", initReq.SuccessURL)
	assert.Equal(t, "https://api.example/api/payment/ipn", initReq.IPNURL)

	orderRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

// ゲートウェイが拒否したらCANCELLED/failedに落として400
func TestCheckoutGatewayRejected(t *testing.T) {
	uc, tx, orderRepo, itemRepo, gateway := newCheckoutFixture()
	ctx := context.Background()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	itemRepo.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)

	gateway.On("InitSession", mock.Anything, mock.Anything).Return(sslcommerz.InitResponse{
		Status:       "FAILED",
		FailedReason: "store credential mismatch",
	}, nil)

	orderRepo.On("TransitionFromPending", mock.Anything, int64(42), model.OrderStatusCancelled,
		mock.MatchedBy(func(p repo.PaymentPatch) bool {
			return p.Status == model.PaymentStatusFailed && p.FailureReason == "store credential mismatch"
		})).Return(true, nil)

	_, err := uc.Execute(ctx, validCheckoutInput())
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "store credential mismatch", he.Message)

	orderRepo.AssertExpectations(t)
}

// 拒否後のCANCELLED書き込みに失敗したら400ではなく500（PENDINGのまま黙って返さない）
func TestCheckoutGatewayRejectedCancelWriteFails(t *testing.T) {
	uc, tx, orderRepo, itemRepo, gateway := newCheckoutFixture()
	ctx := context.Background()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	itemRepo.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)

	gateway.On("InitSession", mock.Anything, mock.Anything).Return(sslcommerz.InitResponse{
		Status:       "FAILED",
		FailedReason: "store credential mismatch",
	}, nil)

	orderRepo.On("TransitionFromPending", mock.Anything, int64(42), model.OrderStatusCancelled, mock.Anything).
		Return(false, errors.New("db down"))

	_, err := uc.Execute(ctx, validCheckoutInput())
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	orderRepo.AssertExpectations(t)
}

// transport断ではOrderをPENDINGのまま残して500
func TestCheckoutGatewayTransportError(t *testing.T) {
	uc, tx, orderRepo, itemRepo, gateway := newCheckoutFixture()
	ctx := context.Background()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	itemRepo.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)

	gateway.On("InitSession", mock.Anything, mock.Anything).Return(sslcommerz.InitResponse{}, errors.New("dial tcp: timeout"))

	_, err := uc.Execute(ctx, validCheckoutInput())
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	//状態遷移は起きない
	orderRepo.AssertNotCalled(t, "TransitionFromPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 永続化に失敗したらゲートウェイは呼ばない
func TestCheckoutPersistFailureSkipsGateway(t *testing.T) {
	uc, tx, orderRepo, _, gateway := newCheckoutFixture()
	ctx := context.Background()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := uc.Execute(ctx, validCheckoutInput())
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	gateway.AssertNotCalled(t, "InitSession", mock.Anything, mock.Anything)
}
