package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入単位。price_overrideが無ければ商品の価格を使う。
type ProductVariant struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     int64            `gorm:"not null;index" json:"product_id"`
	SKU           string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Stock         int64            `gorm:"not null;default:0" json:"stock"`
	PriceOverride *decimal.Decimal `gorm:"type:numeric(10,2)" json:"price_override"`
	CreatedAt     time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// UnitPrice は注文時に使う単価（override優先）
func (v ProductVariant) UnitPrice(productPrice decimal.Decimal) decimal.Decimal {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return productPrice
}

// バリアントと属性値の紐付け
type ProductVariantValue struct {
	ID               int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID        int64 `gorm:"not null;index" json:"variant_id"`
	AttributeValueID int64 `gorm:"not null;index" json:"attribute_value_id"`
}
