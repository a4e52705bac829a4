package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ユーザー都合キャンセルのfailure_reason（銀行拒否と区別する）
const FailureReasonUserCancelled = "Payment cancelled by user"

// checkout時に入力された顧客情報。以後変更しない
type Customer struct {
	Name  string `gorm:"column:customer_name;type:varchar(100);not null" json:"name"`
	Email string `gorm:"column:customer_email;type:varchar(255);not null;index" json:"email"`
	Phone string `gorm:"column:customer_phone;type:varchar(32);not null" json:"phone"`
}

// 配送先。物理商品（絵画など）がある注文だけ埋まる
type Shipping struct {
	Address    string `gorm:"type:varchar(255)" json:"address"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string `gorm:"type:varchar(100)" json:"country"`
	Phone      string `gorm:"type:varchar(32)" json:"phone"`
}

// 決済サブレコード。callbackが来るたびにフィールドが積み上がる。
// entry point同士で他が書いたフィールドは消さない約束
type Payment struct {
	Method            string        `gorm:"type:varchar(20)" json:"method"`
	TransactionID     string        `gorm:"type:varchar(64);index" json:"transaction_id"`
	ValidationID      string        `gorm:"type:varchar(64)" json:"validation_id"`
	BankTransactionID string        `gorm:"type:varchar(64)" json:"bank_transaction_id"`
	CardType          string        `gorm:"type:varchar(50)" json:"card_type"`
	CardNo            string        `gorm:"type:varchar(32)" json:"card_no"`
	CardIssuer        string        `gorm:"type:varchar(100)" json:"card_issuer"`
	CardBrand         string        `gorm:"type:varchar(50)" json:"card_brand"`
	CardIssuerCountry string        `gorm:"type:varchar(100)" json:"card_issuer_country"`
	Amount            float64       `json:"amount"`
	Currency          string        `gorm:"type:varchar(8)" json:"currency"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaidAt            *time.Time    `json:"paid_at"`
	IPNVerified       bool          `gorm:"not null;default:false" json:"ipn_verified"`
	FailureReason     string        `gorm:"type:varchar(255)" json:"failure_reason"`
}

type Order struct {
	ID       int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	Status   OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Total    float64     `gorm:"not null" json:"total"`
	Currency string      `gorm:"type:varchar(8);not null" json:"currency"`

	Customer Customer `gorm:"embedded" json:"customer"`
	Shipping Shipping `gorm:"embedded;embeddedPrefix:ship_" json:"shipping"`
	Payment  Payment  `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
