package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CouponUsecase struct {
	couponRepo repo.CouponRepository
	usageRepo  repo.CouponUsageRepository
	auditRepo  repo.AuditLogRepository
}

// DI
func NewCouponUsecase(
	couponRepo repo.CouponRepository,
	usageRepo repo.CouponUsageRepository,
	auditRepo repo.AuditLogRepository,
) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		auditRepo:  auditRepo,
	}
}

// 日付だけで比較する（start/endはDATE型。両端を含む）
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validateCoupon はクーポンの適用可否を判定して割引額を返す。
// チェックは順番に行い、最初に失敗した理由を返す。
// ここでは何も書き込まない（使用記録はcheckout側のTx内で作る）。
func validateCoupon(
	ctx context.Context,
	coupons repo.CouponRepository,
	usages repo.CouponUsageRepository,
	code string,
	subtotal decimal.Decimal,
	customerID *int64,
	now time.Time,
	forUpdate bool,
) (model.Coupon, decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon code required")
	}

	var (
		c   model.Coupon
		err error
	)
	if forUpdate {
		c, err = coupons.FindByCodeForUpdate(ctx, code)
	} else {
		c, err = coupons.FindByCode(ctx, code)
	}
	if err == repo.ErrNotFound {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon not found or inactive")
	}
	if err != nil {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !c.Active {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon not found or inactive")
	}

	today := dateOnly(now)
	if today.Before(dateOnly(c.StartDate)) || today.After(dateOnly(c.EndDate)) {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon not valid today")
	}

	if subtotal.LessThan(c.MinOrderAmount) {
		return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "minimum order amount not met")
	}

	if c.UsageLimit != nil {
		count, err := usages.CountByCoupon(ctx, c.ID)
		if err != nil {
			return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if count >= *c.UsageLimit {
			return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon usage limit reached")
		}
	}

	if c.PerUserLimit != nil && customerID != nil {
		count, err := usages.CountByCouponAndCustomer(ctx, c.ID, *customerID)
		if err != nil {
			return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if count >= *c.PerUserLimit {
			return model.Coupon{}, decimal.Zero, NewHTTPError(http.StatusBadRequest, "coupon per-user limit reached")
		}
	}

	return c, couponDiscount(c, subtotal), nil
}

// couponDiscount は割引額を計算する。
// flatはsubtotalを上限にする（合計がマイナスにならないように）。
func couponDiscount(c model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case model.DiscountTypeFlat:
		d := c.DiscountValue
		if d.GreaterThan(subtotal) {
			d = subtotal
		}
		return d.Round(2)
	case model.DiscountTypePercent:
		return c.DiscountValue.Div(decimal.NewFromInt(100)).Mul(subtotal).Round(2)
	}
	return decimal.Zero
}

type ValidateCouponInput struct {
	Code       string
	OrderTotal decimal.Decimal
	CustomerID *int64
}

type ValidateCouponOutput struct {
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// ValidatePreview は読み取り専用のプレビュー。使用記録は書かない。
func (u *CouponUsecase) ValidatePreview(ctx context.Context, in ValidateCouponInput) (ValidateCouponOutput, error) {
	if in.OrderTotal.IsNegative() {
		return ValidateCouponOutput{}, NewHTTPError(http.StatusBadRequest, "order_total must be >= 0")
	}

	c, discount, err := validateCoupon(ctx, u.couponRepo, u.usageRepo, in.Code, in.OrderTotal, in.CustomerID, time.Now(), false)
	if err != nil {
		return ValidateCouponOutput{}, err
	}

	return ValidateCouponOutput{
		Code:           c.Code,
		DiscountType:   string(c.DiscountType),
		DiscountAmount: discount,
		FinalTotal:     in.OrderTotal.Sub(discount),
	}, nil
}

type AdminCouponInput struct {
	Code           string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	Active         bool
	StartDate      time.Time
	EndDate        time.Time
	UsageLimit     *int64
	PerUserLimit   *int64
}

func (in AdminCouponInput) check() error {
	if strings.TrimSpace(in.Code) == "" {
		return NewHTTPError(http.StatusBadRequest, "code required")
	}
	switch model.DiscountType(in.DiscountType) {
	case model.DiscountTypeFlat, model.DiscountTypePercent:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid discount_type")
	}
	if in.DiscountValue.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "discount_value must be >= 0")
	}
	if in.MinOrderAmount.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "min_order_amount must be >= 0")
	}
	if in.EndDate.Before(in.StartDate) {
		return NewHTTPError(http.StatusBadRequest, "end_date must be >= start_date")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return NewHTTPError(http.StatusBadRequest, "usage_limit must be >= 1")
	}
	if in.PerUserLimit != nil && *in.PerUserLimit < 1 {
		return NewHTTPError(http.StatusBadRequest, "per_user_limit must be >= 1")
	}
	return nil
}

func (in AdminCouponInput) toModel() model.Coupon {
	return model.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(in.Code)),
		DiscountType:   model.DiscountType(in.DiscountType),
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		Active:         in.Active,
		StartDate:      dateOnly(in.StartDate),
		EndDate:        dateOnly(in.EndDate),
		UsageLimit:     in.UsageLimit,
		PerUserLimit:   in.PerUserLimit,
	}
}

func (u *CouponUsecase) AdminCreateCoupon(ctx context.Context, adminUserID int64, in AdminCouponInput) (model.Coupon, error) {
	if adminUserID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.check(); err != nil {
		return model.Coupon{}, err
	}

	created, err := u.couponRepo.Create(ctx, in.toModel())
	if err == repo.ErrConflict {
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
	}
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	afterJSON, _ := json.Marshal(created)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionCreateCoupon,
		ResourceType: model.AuditResourceCoupon,
		ResourceID:   created.ID,
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	}); err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *CouponUsecase) AdminUpdateCoupon(ctx context.Context, adminUserID int64, couponID int64, in AdminCouponInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}
	if err := in.check(); err != nil {
		return err
	}

	before, err := u.couponRepo.FindByID(ctx, couponID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	next := in.toModel()
	next.ID = couponID
	if err := u.couponRepo.Update(ctx, next); err != nil {
		if err == repo.ErrConflict {
			return NewHTTPError(http.StatusConflict, "coupon code already exists")
		}
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(next)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateCoupon,
		ResourceType: model.AuditResourceCoupon,
		ResourceID:   couponID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

type AdminListCouponsInput struct {
	Page   int
	Limit  int
	Active *bool
}

type CouponListOutput struct {
	Items []model.Coupon `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (u *CouponUsecase) AdminListCoupons(ctx context.Context, adminUserID int64, in AdminListCouponsInput) (CouponListOutput, error) {
	if adminUserID <= 0 {
		return CouponListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return CouponListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return CouponListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.couponRepo.ListAdmin(ctx, repo.CouponListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Active: in.Active,
	})
	if err != nil {
		return CouponListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CouponListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *CouponUsecase) AdminGetCoupon(ctx context.Context, adminUserID int64, couponID int64) (model.Coupon, error) {
	if adminUserID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}

	c, err := u.couponRepo.FindByID(ctx, couponID)
	if err == repo.ErrNotFound {
		return model.Coupon{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}
