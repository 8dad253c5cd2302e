package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CpnCouponRepoMock struct{ mock.Mock }

func (m *CpnCouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CpnCouponRepoMock) FindByCodeForUpdate(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CpnCouponRepoMock) FindByID(ctx context.Context, couponID int64) (model.Coupon, error) {
	args := m.Called(ctx, couponID)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CpnCouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Coupon)
	return created, args.Error(1)
}

func (m *CpnCouponRepoMock) Update(ctx context.Context, c model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CpnCouponRepoMock) ListAdmin(ctx context.Context, f repo.CouponListFilter) ([]model.Coupon, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Coupon)
	return items, args.Get(1).(int64), args.Error(2)
}

type CpnUsageRepoMock struct{ mock.Mock }

func (m *CpnUsageRepoMock) Create(ctx context.Context, usage model.CouponUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

func (m *CpnUsageRepoMock) CountByCoupon(ctx context.Context, couponID int64) (int64, error) {
	args := m.Called(ctx, couponID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CpnUsageRepoMock) CountByCouponAndCustomer(ctx context.Context, couponID int64, customerID int64) (int64, error) {
	args := m.Called(ctx, couponID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type CpnAuditRepoMock struct{ mock.Mock }

func (m *CpnAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *CpnAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in CouponUsecase tests")
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), want)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int64) *int64 { return &v }

// 今日を含む有効なクーポン
func validCoupon() model.Coupon {
	now := time.Now()
	return model.Coupon{
		ID:             1,
		Code:           "SAVE10",
		DiscountType:   model.DiscountTypePercent,
		DiscountValue:  dec("10"),
		MinOrderAmount: dec("500"),
		Active:         true,
		StartDate:      now.AddDate(0, 0, -1),
		EndDate:        now.AddDate(0, 0, 1),
	}
}

// =====================
// ValidatePreview
// =====================

func TestCouponUsecase_ValidatePreview_Save10Scenario(t *testing.T) {
	// percent 10, min_order 500, subtotal 1000 → discount 100.00, final 900.00
	cRepo := new(CpnCouponRepoMock)
	uRepo := new(CpnUsageRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, uRepo, new(CpnAuditRepoMock))

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(validCoupon(), nil)

	out, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assert.NoError(t, err)
	assert.True(t, out.DiscountAmount.Equal(dec("100.00")), "discount = %s", out.DiscountAmount)
	assert.True(t, out.FinalTotal.Equal(dec("900.00")), "final = %s", out.FinalTotal)

	// 読み取り専用：使用記録は書かれない
	uRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCouponUsecase_ValidatePreview_PercentIsDecimalExact(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.DiscountValue = dec("7.5")
	c.MinOrderAmount = decimal.Zero
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	out, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("19.99"),
	})
	assert.NoError(t, err)
	// 7.5% of 19.99 = 1.49925 → 1.50
	assert.True(t, out.DiscountAmount.Equal(dec("1.50")), "discount = %s", out.DiscountAmount)
}

func TestCouponUsecase_ValidatePreview_FlatClampedToSubtotal(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.DiscountType = model.DiscountTypeFlat
	c.DiscountValue = dec("300")
	c.MinOrderAmount = decimal.Zero
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	out, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("200"),
	})
	assert.NoError(t, err)
	// flatはsubtotalを超えない（合計がマイナスにならない）
	assert.True(t, out.DiscountAmount.Equal(dec("200.00")), "discount = %s", out.DiscountAmount)
	assert.True(t, out.FinalTotal.IsZero(), "final = %s", out.FinalTotal)
}

func TestCouponUsecase_ValidatePreview_NotFound(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	cRepo.On("FindByCode", mock.Anything, "NOPE").Return(model.Coupon{}, repo.ErrNotFound)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "NOPE",
		OrderTotal: dec("1000"),
	})
	assertErrContains(t, err, "coupon not found or inactive")
}

func TestCouponUsecase_ValidatePreview_Inactive(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.Active = false
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assertErrContains(t, err, "coupon not found or inactive")
}

func TestCouponUsecase_ValidatePreview_DateBoundsInclusive(t *testing.T) {
	// start=end=今日 は有効（両端含む）
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.StartDate = time.Now()
	c.EndDate = time.Now()
	c.MinOrderAmount = decimal.Zero
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assert.NoError(t, err)
}

func TestCouponUsecase_ValidatePreview_Expired(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.StartDate = time.Now().AddDate(0, 0, -10)
	c.EndDate = time.Now().AddDate(0, 0, -1)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assertErrContains(t, err, "coupon not valid today")
}

func TestCouponUsecase_ValidatePreview_NotStarted(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	c := validCoupon()
	c.StartDate = time.Now().AddDate(0, 0, 1)
	c.EndDate = time.Now().AddDate(0, 0, 10)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assertErrContains(t, err, "coupon not valid today")
}

func TestCouponUsecase_ValidatePreview_MinOrderNotMet(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(validCoupon(), nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("499.99"),
	})
	assertErrContains(t, err, "minimum order amount not met")
}

func TestCouponUsecase_ValidatePreview_UsageLimitReached(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uRepo := new(CpnUsageRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, uRepo, new(CpnAuditRepoMock))

	c := validCoupon()
	c.UsageLimit = intPtr(1)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)
	uRepo.On("CountByCoupon", mock.Anything, int64(1)).Return(int64(1), nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assertErrContains(t, err, "coupon usage limit reached")
}

func TestCouponUsecase_ValidatePreview_UsageLimitNotYetReached(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uRepo := new(CpnUsageRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, uRepo, new(CpnAuditRepoMock))

	c := validCoupon()
	c.UsageLimit = intPtr(2)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)
	uRepo.On("CountByCoupon", mock.Anything, int64(1)).Return(int64(1), nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assert.NoError(t, err)
}

func TestCouponUsecase_ValidatePreview_PerUserLimitReached(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uRepo := new(CpnUsageRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, uRepo, new(CpnAuditRepoMock))

	c := validCoupon()
	c.PerUserLimit = intPtr(1)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)
	uRepo.On("CountByCouponAndCustomer", mock.Anything, int64(1), int64(42)).Return(int64(1), nil)

	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
		CustomerID: intPtr(42),
	})
	assertErrContains(t, err, "coupon per-user limit reached")
}

func TestCouponUsecase_ValidatePreview_PerUserLimitSkippedForGuest(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uRepo := new(CpnUsageRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, uRepo, new(CpnAuditRepoMock))

	c := validCoupon()
	c.PerUserLimit = intPtr(1)
	cRepo.On("FindByCode", mock.Anything, "SAVE10").Return(c, nil)

	//ゲスト（CustomerID nil）はper-userチェック対象外
	_, err := uc.ValidatePreview(context.Background(), usecase.ValidateCouponInput{
		Code:       "SAVE10",
		OrderTotal: dec("1000"),
	})
	assert.NoError(t, err)
	uRepo.AssertNotCalled(t, "CountByCouponAndCustomer", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// Admin CRUD
// =====================

func TestCouponUsecase_AdminCreateCoupon_InvalidDiscountType(t *testing.T) {
	uc := usecase.NewCouponUsecase(new(CpnCouponRepoMock), new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	_, err := uc.AdminCreateCoupon(context.Background(), 1, usecase.AdminCouponInput{
		Code:         "X",
		DiscountType: "bogus",
		StartDate:    time.Now(),
		EndDate:      time.Now(),
	})
	assertErrContains(t, err, "invalid discount_type")
}

func TestCouponUsecase_AdminCreateCoupon_Success(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	aRepo := new(CpnAuditRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), aRepo)

	cRepo.On("Create", mock.Anything, mock.MatchedBy(func(c model.Coupon) bool {
		//コードは大文字で保存される
		return c.Code == "SAVE10"
	})).Return(model.Coupon{ID: 7, Code: "SAVE10"}, nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateCoupon && l.ResourceID == 7
	})).Return(nil)

	created, err := uc.AdminCreateCoupon(context.Background(), 1, usecase.AdminCouponInput{
		Code:          "save10",
		DiscountType:  "percent",
		DiscountValue: dec("10"),
		Active:        true,
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 1, 0),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	aRepo.AssertExpectations(t)
}

func TestCouponUsecase_AdminCreateCoupon_DuplicateCode(t *testing.T) {
	cRepo := new(CpnCouponRepoMock)
	uc := usecase.NewCouponUsecase(cRepo, new(CpnUsageRepoMock), new(CpnAuditRepoMock))

	cRepo.On("Create", mock.Anything, mock.Anything).Return(model.Coupon{}, repo.ErrConflict)

	_, err := uc.AdminCreateCoupon(context.Background(), 1, usecase.AdminCouponInput{
		Code:          "SAVE10",
		DiscountType:  "flat",
		DiscountValue: dec("5"),
		StartDate:     time.Now(),
		EndDate:       time.Now(),
	})
	assertErrContains(t, err, "coupon code already exists")
}
