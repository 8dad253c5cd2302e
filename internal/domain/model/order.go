package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodBkash  PaymentMethod = "Bkash"
	PaymentMethodNagad  PaymentMethod = "Nagad"
	PaymentMethodRocket PaymentMethod = "Rocket"
)

// 対応している支払い方法か
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBkash, PaymentMethodNagad, PaymentMethodRocket:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// 注文。金額は作成時に確定し、後から再計算しない。
// 常に total_amount = subtotal_amount - discount_amount + shipping_cost
type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(36);uniqueIndex;not null" json:"order_number"`

	CustomerID        int64  `gorm:"not null;index" json:"customer_id"`
	ShippingAddressID int64  `gorm:"not null" json:"shipping_address_id"`
	CouponID          *int64 `gorm:"index" json:"coupon_id"`

	SubtotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"shipping_cost"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	PaymentType   PaymentMethod `gorm:"type:varchar(50);not null;default:'Cash'" json:"payment_type"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"payment_status"`
	Status        OrderStatus   `gorm:"type:varchar(50);not null;index;default:'pending'" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
