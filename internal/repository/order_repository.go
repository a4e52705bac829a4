package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// unique制約違反（order_id重複など）
var ErrConflict = errors.New("conflict")

// 決済メタデータの差分。ゼロ値のフィールドは書き込まない（積み上げ方式）
type PaymentPatch struct {
	Status            model.PaymentStatus
	ValidationID      string
	BankTransactionID string
	CardType          string
	CardNo            string
	CardIssuer        string
	CardBrand         string
	CardIssuerCountry string
	PaidAt            *time.Time
	IPNVerified       *bool
	FailureReason     string
}

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	Email  string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//order_id（=tran_id）で1件取得
	FindByOrderID(ctx context.Context, orderID string) (model.Order, error)

	//PENDINGからの状態遷移＋決済メタデータ更新を1回のconditional writeで行う。
	//すでにCONFIRMED/CANCELLEDなら何も書かずfalseを返す
	TransitionFromPending(ctx context.Context, orderID int64, status model.OrderStatus, patch PaymentPatch) (bool, error)

	//statusに触らない決済メタデータだけの更新（pending/unknownのIPN用）
	ApplyPayment(ctx context.Context, orderID int64, patch PaymentPatch) error

	//管理者用。遷移ガードなしの直接変更
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}
