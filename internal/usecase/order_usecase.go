package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 受け取り側の素性。auth middlewareが詰めたsession情報
type Viewer struct {
	Email   string
	IsAdmin bool
}

type OrderUsecase struct {
	orders repo.OrderRepository
	items  repo.OrderItemRepository
}

func NewOrderUsecase(orders repo.OrderRepository, items repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, items: items}
}

type OrderItemOutput struct {
	Kind      string  `json:"kind"`
	ItemID    string  `json:"item_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	OrderID   string            `json:"order_id"`
	Status    string            `json:"status"`
	Total     float64           `json:"total"`
	Currency  string            `json:"currency"`
	Customer  model.Customer    `json:"customer"`
	Shipping  model.Shipping    `json:"shipping"`
	Payment   model.Payment     `json:"payment"`
	Items     []OrderItemOutput `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// GetOrder は領収書表示用の1件取得。IDでもorder_id（tran_id）でも引ける。
// 管理者以外はsessionのemailが注文者emailと一致する注文しか見えない
func (u *OrderUsecase) GetOrder(ctx context.Context, idOrRef string, viewer Viewer) (OrderOutput, error) {
	idOrRef = strings.TrimSpace(idOrRef)
	if idOrRef == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var (
		order model.Order
		err   error
	)

	if id, perr := strconv.ParseInt(idOrRef, 10, 64); perr == nil && id > 0 {
		order, err = u.orders.FindByID(ctx, id)
	} else {
		order, err = u.orders.FindByOrderID(ctx, idOrRef)
	}

	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//本人確認。管理者は全部見える
	if !viewer.IsAdmin {
		if viewer.Email == "" || !strings.EqualFold(viewer.Email, order.Customer.Email) {
			return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}

	items, err := u.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(order, items), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			Kind:      string(it.Kind),
			ItemID:    it.ItemID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:        o.ID,
		OrderID:   o.OrderID,
		Status:    string(o.Status),
		Total:     o.Total,
		Currency:  o.Currency,
		Customer:  o.Customer,
		Shipping:  o.Shipping,
		Payment:   o.Payment,
		Items:     outItems,
		CreatedAt: o.CreatedAt,
	}
}
