package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type DashboardUsecase struct {
	orders    repo.OrderRepository
	books     repo.BookRepository
	paintings repo.PaintingRepository
	users     repo.UserRepository
}

// DI
func NewDashboardUsecase(
	orders repo.OrderRepository,
	books repo.BookRepository,
	paintings repo.PaintingRepository,
	users repo.UserRepository,
) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, books: books, paintings: paintings, users: users}
}

type DashboardOutput struct {
	PendingOrders   int64 `json:"pending_orders"`
	ConfirmedOrders int64 `json:"confirmed_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
	Books           int64 `json:"books"`
	Paintings       int64 `json:"paintings"`
	Users           int64 `json:"users"`
}

// 管理画面トップの集計
func (u *DashboardUsecase) Summary(ctx context.Context) (DashboardOutput, error) {
	var out DashboardOutput
	var err error

	if out.PendingOrders, err = u.orders.CountByStatus(ctx, model.OrderStatusPending); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.ConfirmedOrders, err = u.orders.CountByStatus(ctx, model.OrderStatusConfirmed); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.CancelledOrders, err = u.orders.CountByStatus(ctx, model.OrderStatusCancelled); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.Books, err = u.books.Count(ctx); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.Paintings, err = u.paintings.Count(ctx); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.Users, err = u.users.Count(ctx); err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}
