package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponGormRepository struct {
	db *gorm.DB
}

// DI
func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

// コードで1件取得（大文字小文字を区別しない）
func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", strings.TrimSpace(code)).
		First(&c).Error
	if isNotFound(err) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// checkout用。SELECT ... FOR UPDATE で行ロックを取り、
// 使用数チェック〜使用記録作成を直列化する。
func (r *CouponGormRepository) FindByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lower(code) = lower(?)", strings.TrimSpace(code)).
		First(&c).Error
	if isNotFound(err) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) FindByID(ctx context.Context, couponID int64) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).First(&c, couponID).Error
	if isNotFound(err) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// コードは大文字で保存する
func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Coupon{}, repo.ErrConflict
		}
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) Update(ctx context.Context, c model.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", c.ID).
		Select("code", "discount_type", "discount_value", "min_order_amount",
			"active", "start_date", "end_date", "usage_limit", "per_user_limit", "updated_at").
		Updates(&c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) ListAdmin(ctx context.Context, f repo.CouponListFilter) ([]model.Coupon, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Coupon{})
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	var items []model.Coupon
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	return items, total, nil
}

type CouponUsageGormRepository struct {
	db *gorm.DB
}

// DI
func NewCouponUsageGormRepository(db *gorm.DB) *CouponUsageGormRepository {
	return &CouponUsageGormRepository{db: db}
}

// 使用記録を作成。(coupon_id, customer_id) のユニーク制約違反は ErrConflict。
func (r *CouponUsageGormRepository) Create(ctx context.Context, usage model.CouponUsage) error {
	if err := r.db.WithContext(ctx).Create(&usage).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

// クーポン全体の使用数
func (r *CouponUsageGormRepository) CountByCoupon(ctx context.Context, couponID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CouponUsage{}).
		Where("coupon_id = ?", couponID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// 顧客ごとの使用数
func (r *CouponUsageGormRepository) CountByCouponAndCustomer(ctx context.Context, couponID int64, customerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
