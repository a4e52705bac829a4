package model

import "time"

type ItemKind string

const (
	ItemKindBook     ItemKind = "BOOK"
	ItemKindPainting ItemKind = "PAINTING"
)

// 注文明細のスナップショット。作成後は変更しない
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	Kind      ItemKind  `gorm:"type:varchar(20);not null" json:"kind"`
	ItemID    string    `gorm:"type:varchar(64);not null" json:"item_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
