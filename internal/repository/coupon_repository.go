package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CouponListFilter struct {
	Page   int
	Limit  int
	Active *bool
}

// クーポンの保存・取得の約束。
type CouponRepository interface {
	//コードは大文字小文字を区別しない
	FindByCode(ctx context.Context, code string) (model.Coupon, error)

	//checkout用。行ロック付きで取得して使用数チェック〜記録を直列化する
	FindByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error)

	FindByID(ctx context.Context, couponID int64) (model.Coupon, error)
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	ListAdmin(ctx context.Context, f CouponListFilter) ([]model.Coupon, int64, error)
}

// 使用記録。作成と件数取得だけで、更新・削除はしない。
type CouponUsageRepository interface {
	//ユニーク制約違反は ErrConflict
	Create(ctx context.Context, usage model.CouponUsage) error
	CountByCoupon(ctx context.Context, couponID int64) (int64, error)
	CountByCouponAndCustomer(ctx context.Context, couponID int64, customerID int64) (int64, error)
}
