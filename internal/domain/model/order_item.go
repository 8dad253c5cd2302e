package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。単価は注文時点のスナップショット。
// カタログ価格が変わっても過去の注文金額は変わらない。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	VariantID int64 `gorm:"not null;index" json:"variant_id"`

	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	SKUSnapshot         string          `gorm:"type:varchar(100);not null" json:"sku_snapshot"`
	UnitPrice           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity            int64           `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
