package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/gateway/sslcommerz"
)

type CheckoutUsecase struct {
	tx      repo.TransactionManager
	orders  repo.OrderRepository
	gateway GatewayClient
	cfg     config.Config
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	gateway GatewayClient,
	cfg config.Config,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:      tx,
		orders:  orders,
		gateway: gateway,
		cfg:     cfg,
	}
}

type CheckoutItemInput struct {
	Kind      string  `json:"kind"`
	ItemID    string  `json:"item_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
}

type CheckoutCustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CheckoutShippingInput struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type CheckoutInput struct {
	Items    []CheckoutItemInput
	Customer CheckoutCustomerInput
	Shipping *CheckoutShippingInput
	Total    float64
	Currency string
}

type CheckoutOutput struct {
	OrderID       int64  `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
	SessionKey    string `json:"session_key"`
}

// Execute はcheckoutを開始する。Order作成（PENDING）→ゲートウェイのセッション開始→redirect URL返却。
// Orderはゲートウェイを呼ぶ前に必ず永続化する（直後にクラッシュしても追跡できるように）
func (u *CheckoutUsecase) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	//入力検証
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "items are required")
	}
	if strings.TrimSpace(in.Customer.Name) == "" ||
		strings.TrimSpace(in.Customer.Email) == "" ||
		strings.TrimSpace(in.Customer.Phone) == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "customer information is required")
	}
	if in.Total <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "valid total amount is required")
	}

	currency := in.Currency
	if currency == "" {
		currency = u.cfg.Currency
	}

	//明細検証＋合計の再計算
	var sum float64
	orderItems := make([]model.OrderItem, 0, len(in.Items))
	hasPhysical := false

	for _, it := range in.Items {
		kind := model.ItemKind(strings.ToUpper(it.Kind))
		if kind != model.ItemKindBook && kind != model.ItemKindPainting {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item kind")
		}
		if it.ItemID == "" || it.Title == "" {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
		if it.Quantity < 1 || it.UnitPrice < 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}

		if kind == model.ItemKindPainting {
			hasPhysical = true
		}

		sum += it.UnitPrice * float64(it.Quantity)
		orderItems = append(orderItems, model.OrderItem{
			Kind:      kind,
			ItemID:    it.ItemID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	//申告totalと明細合計の不一致は拒否。保存するのは再計算した値
	total := roundMinorUnit(sum)
	if total != roundMinorUnit(in.Total) {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "total does not match items")
	}

	//物理商品があるのに配送先がないのは拒否
	if hasPhysical && in.Shipping == nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "shipping information is required")
	}

	//tran_id生成
	tranID := sslcommerz.GenerateTransactionID(u.cfg.TranPrefix)

	order := model.Order{
		OrderID:  tranID,
		Status:   model.OrderStatusPending,
		Total:    total,
		Currency: currency,
		Customer: model.Customer{
			Name:  strings.TrimSpace(in.Customer.Name),
			Email: strings.TrimSpace(in.Customer.Email),
			Phone: strings.TrimSpace(in.Customer.Phone),
		},
		Payment: model.Payment{
			Method:        "sslcommerz",
			TransactionID: tranID,
			Amount:        total,
			Currency:      currency,
			Status:        model.PaymentStatusPending,
		},
	}
	if in.Shipping != nil {
		order.Shipping = model.Shipping{
			Address:    in.Shipping.Address,
			City:       in.Shipping.City,
			PostalCode: in.Shipping.PostalCode,
			Country:    in.Shipping.Country,
			Phone:      in.Shipping.Phone,
		}
	}

	//Order＋明細をトランザクションで永続化（ここで失敗したらゲートウェイは呼ばない）
	var orderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return err
		}
		orderID = id
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//ゲートウェイのセッション開始。value_aにOrderの主キーを入れて往復させる
	initRes, err := u.gateway.InitSession(ctx, u.buildInitRequest(in, orderItems, total, currency, tranID, orderID))
	if err != nil {
		//transportエラー。OrderはPENDINGのまま残す（追跡可能）
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to initialize payment")
	}

	if initRes.Status != "SUCCESS" {
		//ゲートウェイが拒否。PENDINGのまま放置せずCANCELLEDへ落とす
		reason := initRes.FailedReason
		if reason == "" {
			reason = "Payment initialization failed"
		}

		if _, err := u.orders.TransitionFromPending(ctx, orderID, model.OrderStatusCancelled, repo.PaymentPatch{
			Status:        model.PaymentStatusFailed,
			FailureReason: reason,
		}); err != nil {
			//ここで書けないとOrderがPENDINGのまま残ってしまうので500にする
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, reason)
	}

	return CheckoutOutput{
		OrderID:       orderID,
		TransactionID: tranID,
		PaymentURL:    initRes.GatewayPageURL,
		SessionKey:    initRes.SessionKey,
	}, nil
}

func (u *CheckoutUsecase) buildInitRequest(
	in CheckoutInput,
	items []model.OrderItem,
	total float64,
	currency string,
	tranID string,
	orderID int64,
) sslcommerz.InitRequest {
	base := strings.TrimRight(u.cfg.AppURL, "/")

	req := sslcommerz.InitRequest{
		TotalAmount: total,
		Currency:    currency,
		TranID:      tranID,

		SuccessURL: base + "/api/payment/success",
		FailURL:    base + "/api/payment/fail",
		CancelURL:  base + "/api/payment/cancel",
		IPNURL:     base + "/api/payment/ipn",

		CustomerName:  in.Customer.Name,
		CustomerEmail: in.Customer.Email,
		CustomerPhone: in.Customer.Phone,

		ProductProfile: "general",
		ValueA:         strconv.FormatInt(orderID, 10),
	}

	if in.Shipping != nil {
		req.Address1 = in.Shipping.Address
		req.City = in.Shipping.City
		req.PostalCode = in.Shipping.PostalCode
		req.Country = in.Shipping.Country
		req.ShipName = in.Customer.Name
		req.ShipAddress = in.Shipping.Address
		req.ShipCity = in.Shipping.City
		req.ShipPostalCode = in.Shipping.PostalCode
		req.ShipCountry = in.Shipping.Country
	}

	if len(items) == 1 {
		req.ProductName = items[0].Title
	} else {
		req.ProductName = fmt.Sprintf("%d items", len(items))
	}
	if items[0].Kind == model.ItemKindBook {
		req.ProductCategory = "Books"
	} else {
		req.ProductCategory = "Paintings"
	}

	return req
}
