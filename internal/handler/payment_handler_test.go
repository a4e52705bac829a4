package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway/sslcommerz"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// stubs（handlerテストはルーティングとHTTP表現だけ見るので関数フィールドで十分）
// =====================

type stubGateway struct {
	initFn     func(req sslcommerz.InitRequest) (sslcommerz.InitResponse, error)
	validateFn func(valID string) (sslcommerz.ValidationResponse, error)
	verifyIPN  bool
}

func (s *stubGateway) InitSession(ctx context.Context, req sslcommerz.InitRequest) (sslcommerz.InitResponse, error) {
	return s.initFn(req)
}

func (s *stubGateway) Validate(ctx context.Context, valID string, storeID string, storePasswd string) (sslcommerz.ValidationResponse, error) {
	return s.validateFn(valID)
}

func (s *stubGateway) VerifyIPN(ctx context.Context, payload map[string]string) bool {
	return s.verifyIPN
}

type stubOrderRepo struct {
	repo.OrderRepository

	order       model.Order
	findErr     error
	transitions []model.OrderStatus
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	return s.order, s.findErr
}

func (s *stubOrderRepo) TransitionFromPending(ctx context.Context, orderID int64, status model.OrderStatus, patch repo.PaymentPatch) (bool, error) {
	s.transitions = append(s.transitions, status)
	return true, nil
}

func (s *stubOrderRepo) ApplyPayment(ctx context.Context, orderID int64, patch repo.PaymentPatch) error {
	return nil
}

func paymentTestServer(orders *stubOrderRepo, gateway *stubGateway) *echo.Echo {
	cfg := config.Config{FEURL: "https://shop.example", Currency: "BDT", TranPrefix: "AYMAN", AppURL: "https://api.example"}

	reconcile := usecase.NewPaymentReconcileUsecase(orders, gateway)
	h := NewPaymentHandler(nil, reconcile, cfg)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func pendingTestOrder() model.Order {
	return model.Order{
		ID:      42,
		OrderID: "AYMAN_1700000000000_ABCD1234",
		Status:  model.OrderStatusPending,
		Total:   1499.50,
	}
}

// =====================
// IPN
// =====================

func TestIPNGetIsMethodNotAllowed(t *testing.T) {
	e := paymentTestServer(&stubOrderRepo{}, &stubGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/payment/ipn", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIPNRejectedReturns400Invalid(t *testing.T) {
	e := paymentTestServer(&stubOrderRepo{order: pendingTestOrder()}, &stubGateway{verifyIPN: false})

	form := url.Values{}
	form.Set("val_id", "val123")
	form.Set("tran_id", "AYMAN_1700000000000_ABCD1234")
	form.Set("value_a", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/ipn", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID")
}

func TestIPNOK(t *testing.T) {
	orders := &stubOrderRepo{order: pendingTestOrder()}
	gateway := &stubGateway{
		verifyIPN: true,
		validateFn: func(valID string) (sslcommerz.ValidationResponse, error) {
			return sslcommerz.ValidationResponse{
				Status: "VALID",
				TranID: "AYMAN_1700000000000_ABCD1234",
				ValID:  valID,
				Amount: "1499.50",
			}, nil
		},
	}
	e := paymentTestServer(orders, gateway)

	form := url.Values{}
	form.Set("val_id", "val123")
	form.Set("tran_id", "AYMAN_1700000000000_ABCD1234")
	form.Set("amount", "1499.50")
	form.Set("value_a", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/ipn", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK")
	require.Len(t, orders.transitions, 1)
	assert.Equal(t, model.OrderStatusConfirmed, orders.transitions[0])
}

// =====================
// redirects
// =====================

func TestSuccessRedirectsToFrontend(t *testing.T) {
	orders := &stubOrderRepo{order: pendingTestOrder()}
	gateway := &stubGateway{
		validateFn: func(valID string) (sslcommerz.ValidationResponse, error) {
			return sslcommerz.ValidationResponse{
				Status: "VALID",
				TranID: "AYMAN_1700000000000_ABCD1234",
				ValID:  valID,
				Amount: "1499.50",
			}, nil
		},
	}
	e := paymentTestServer(orders, gateway)

	form := url.Values{}
	form.Set("val_id", "val123")
	form.Set("tran_id", "AYMAN_1700000000000_ABCD1234")
	form.Set("amount", "1499.50")
	form.Set("value_a", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/success", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "shop.example", loc.Host)
	assert.Equal(t, "/payment/success", loc.Path)
	assert.Equal(t, "AYMAN_1700000000000_ABCD1234", loc.Query().Get("transaction"))
}

// ブラウザリダイレクト経由のGETも同じclaimとして処理される
func TestSuccessAcceptsGetQueryParams(t *testing.T) {
	orders := &stubOrderRepo{order: pendingTestOrder()}
	gateway := &stubGateway{
		validateFn: func(valID string) (sslcommerz.ValidationResponse, error) {
			return sslcommerz.ValidationResponse{
				Status: "VALID",
				TranID: "AYMAN_1700000000000_ABCD1234",
				ValID:  valID,
				Amount: "1499.50",
			}, nil
		},
	}
	e := paymentTestServer(orders, gateway)

	target := "/api/payment/success?val_id=val123&tran_id=AYMAN_1700000000000_ABCD1234&amount=1499.50&value_a=42"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/payment/success")
}

// 検証不一致はfailedページへerror markerつきで逃がす
func TestSuccessValidationMismatchRedirect(t *testing.T) {
	orders := &stubOrderRepo{order: pendingTestOrder()}
	gateway := &stubGateway{
		validateFn: func(valID string) (sslcommerz.ValidationResponse, error) {
			return sslcommerz.ValidationResponse{
				Status: "VALID",
				TranID: "AYMAN_1700000000000_ABCD1234",
				ValID:  valID,
				Amount: "10.00",
			}, nil
		},
	}
	e := paymentTestServer(orders, gateway)

	form := url.Values{}
	form.Set("val_id", "val123")
	form.Set("tran_id", "AYMAN_1700000000000_ABCD1234")
	form.Set("amount", "1499.50")
	form.Set("value_a", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/success", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/payment/failed", loc.Path)
	assert.Equal(t, "validation_mismatch", loc.Query().Get("error"))
}

func TestCancelRedirect(t *testing.T) {
	orders := &stubOrderRepo{order: pendingTestOrder()}
	e := paymentTestServer(orders, &stubGateway{})

	form := url.Values{}
	form.Set("tran_id", "AYMAN_1700000000000_ABCD1234")
	form.Set("value_a", "42")

	req := httptest.NewRequest(http.MethodPost, "/api/payment/cancel", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/payment/cancelled", loc.Path)
	require.Len(t, orders.transitions, 1)
	assert.Equal(t, model.OrderStatusCancelled, orders.transitions[0])
}
