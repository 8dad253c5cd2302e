package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypeFlat    DiscountType = "flat"
	DiscountTypePercent DiscountType = "percent"
)

// クーポン。checkout側からは使用記録以外で更新しない。
type Coupon struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountType   DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount_value"`
	MinOrderAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"min_order_amount"`
	Active         bool            `gorm:"not null;default:true" json:"active"`

	//開始・終了は両端含む
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	//nilなら無制限
	UsageLimit   *int64 `gorm:"" json:"usage_limit"`
	PerUserLimit *int64 `gorm:"" json:"per_user_limit"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 使用記録。成功した注文につき1件、更新も削除もしない。
// (coupon_id, customer_id) のユニーク制約が同時実行時の最後の砦。
type CouponUsage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID   int64     `gorm:"not null;uniqueIndex:idx_coupon_customer" json:"coupon_id"`
	CustomerID *int64    `gorm:"uniqueIndex:idx_coupon_customer" json:"customer_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
