package handler

import (
	"errors"
	"net/http"
	"net/url"

	"app/internal/config"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済API。init＋ゲートウェイからの4つのcallback
type PaymentHandler struct {
	checkout  *usecase.CheckoutUsecase
	reconcile *usecase.PaymentReconcileUsecase
	feURL     string
}

// DI
func NewPaymentHandler(checkout *usecase.CheckoutUsecase, reconcile *usecase.PaymentReconcileUsecase, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, reconcile: reconcile, feURL: cfg.FEURL}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/payment")

	g.POST("/init", h.init)

	//ゲートウェイはPOSTで叩いてくるが、ブラウザのリダイレクト経由だとGETにもなる
	g.POST("/success", h.success)
	g.GET("/success", h.success)
	g.POST("/fail", h.fail)
	g.GET("/fail", h.fail)
	g.POST("/cancel", h.cancel)
	g.GET("/cancel", h.cancel)

	//IPNはserver-to-serverのPOSTのみ
	g.POST("/ipn", h.ipn)
	g.GET("/ipn", h.ipnMethodNotAllowed)
}

type checkoutRequest struct {
	Items    []usecase.CheckoutItemInput    `json:"items"`
	Customer usecase.CheckoutCustomerInput  `json:"customer"`
	Shipping *usecase.CheckoutShippingInput `json:"shipping"`
	Total    float64                        `json:"total"`
	Currency string                         `json:"currency"`
}

// POST /api/payment/init
func (h *PaymentHandler) init(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkout.Execute(c.Request().Context(), usecase.CheckoutInput{
		Items:    req.Items,
		Customer: req.Customer,
		Shipping: req.Shipping,
		Total:    req.Total,
		Currency: req.Currency,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// POSTのformとGETのqueryを同じclaimの形に正規化する
func claimValues(c echo.Context) map[string]string {
	values := map[string]string{}

	for k, v := range c.QueryParams() {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}

	if form, err := c.FormParams(); err == nil {
		for k, v := range form {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	}

	return values
}

// /api/payment/success
func (h *PaymentHandler) success(c echo.Context) error {
	claim := usecase.ClaimFromValues(claimValues(c))

	out, err := h.reconcile.HandleSuccess(c.Request().Context(), claim)
	if err != nil {
		return h.redirectFailure(c, claim.TranID, err)
	}

	return h.redirect(c, "/payment/success", url.Values{
		"transaction": {out.TranID},
		"order":       {out.OrderRef},
	})
}

// /api/payment/fail
func (h *PaymentHandler) fail(c echo.Context) error {
	claim := usecase.ClaimFromValues(claimValues(c))

	out, err := h.reconcile.HandleFail(c.Request().Context(), claim)
	if err != nil {
		return h.redirectFailure(c, claim.TranID, err)
	}

	return h.redirect(c, "/payment/failed", url.Values{
		"transaction": {out.TranID},
	})
}

// /api/payment/cancel
func (h *PaymentHandler) cancel(c echo.Context) error {
	claim := usecase.ClaimFromValues(claimValues(c))

	out, err := h.reconcile.HandleCancel(c.Request().Context(), claim)
	if err != nil {
		return h.redirectFailure(c, claim.TranID, err)
	}

	return h.redirect(c, "/payment/cancelled", url.Values{
		"transaction": {out.TranID},
	})
}

type ipnResponse struct {
	Status string `json:"status"`
}

// POST /api/payment/ipn（server-to-server webhook）
func (h *PaymentHandler) ipn(c echo.Context) error {
	payload := claimValues(c)

	_, err := h.reconcile.HandleIPN(c.Request().Context(), payload)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, ipnResponse{Status: "OK"})
	case errors.Is(err, usecase.ErrIPNRejected), errors.Is(err, usecase.ErrCallbackIncomplete), errors.Is(err, usecase.ErrValidationMismatch):
		return c.JSON(http.StatusBadRequest, ipnResponse{Status: "INVALID"})
	case errors.Is(err, usecase.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// IPNのGETは明示的に405
func (h *PaymentHandler) ipnMethodNotAllowed(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}

// フロントの結果ページへ302
func (h *PaymentHandler) redirect(c echo.Context, page string, q url.Values) error {
	return c.Redirect(http.StatusFound, h.feURL+page+"?"+q.Encode())
}

// reconcile失敗をfailedページのエラーマーカーに写す
func (h *PaymentHandler) redirectFailure(c echo.Context, tranID string, err error) error {
	q := url.Values{}
	if tranID != "" {
		q.Set("transaction", tranID)
	}

	switch {
	case errors.Is(err, usecase.ErrValidationMismatch):
		q.Set("error", "validation_mismatch")
	case errors.Is(err, usecase.ErrPaymentFailed):
		q.Set("error", "payment_failed")
	case errors.Is(err, usecase.ErrOrderNotFound), errors.Is(err, usecase.ErrCallbackIncomplete):
		q.Set("error", "invalid_callback")
	default:
		q.Set("error", "processing_error")
	}

	return h.redirect(c, "/payment/failed", q)
}
