package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		//order_idのunique違反
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, repo.ErrConflict
		}
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// PaymentPatchを列更新mapへ。ゼロ値は含めない（他のcallbackが書いた値を消さない）
func paymentPatchColumns(patch repo.PaymentPatch) map[string]interface{} {
	cols := map[string]interface{}{}

	if patch.Status != "" {
		cols["payment_status"] = patch.Status
	}
	if patch.ValidationID != "" {
		cols["payment_validation_id"] = patch.ValidationID
	}
	if patch.BankTransactionID != "" {
		cols["payment_bank_transaction_id"] = patch.BankTransactionID
	}
	if patch.CardType != "" {
		cols["payment_card_type"] = patch.CardType
	}
	if patch.CardNo != "" {
		cols["payment_card_no"] = patch.CardNo
	}
	if patch.CardIssuer != "" {
		cols["payment_card_issuer"] = patch.CardIssuer
	}
	if patch.CardBrand != "" {
		cols["payment_card_brand"] = patch.CardBrand
	}
	if patch.CardIssuerCountry != "" {
		cols["payment_card_issuer_country"] = patch.CardIssuerCountry
	}
	if patch.PaidAt != nil {
		cols["payment_paid_at"] = *patch.PaidAt
	}
	if patch.IPNVerified != nil {
		cols["payment_ipn_verified"] = *patch.IPNVerified
	}
	if patch.FailureReason != "" {
		cols["payment_failure_reason"] = patch.FailureReason
	}

	return cols
}

func (r *OrderGormRepository) TransitionFromPending(ctx context.Context, orderID int64, status model.OrderStatus, patch repo.PaymentPatch) (bool, error) {
	cols := paymentPatchColumns(patch)
	cols["status"] = status

	//PENDINGのときだけ書く。0行更新=すでに終端状態
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(cols)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) ApplyPayment(ctx context.Context, orderID int64, patch repo.PaymentPatch) error {
	cols := paymentPatchColumns(patch)
	if len(cols) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(cols)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//顧客メール絞り込み
	if f.Email != "" {
		q = q.Where("customer_email = ?", f.Email)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", status).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
