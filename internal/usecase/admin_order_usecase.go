package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	orders repo.OrderRepository
	items  repo.OrderItemRepository
}

// DI
func NewAdminOrderUsecase(orders repo.OrderRepository, items repo.OrderItemRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, items: items}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	Email  string
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	if in.Status != "" && !validOrderStatus(in.Status) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orders.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		Email:  in.Email,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//一覧では明細は返さない
	items := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderOutput(o, nil))
	}

	return AdminOrderListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(order, items), nil
}

// 管理者による手動ステータス変更。遷移ガードは通さない
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (OrderOutput, error) {
	if !validOrderStatus(status) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	if _, err := u.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orders.UpdateStatus(ctx, orderID, model.OrderStatus(status)); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, orderID)
}

func validOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusCancelled, model.OrderStatusFailed:
		return true
	}
	return false
}
