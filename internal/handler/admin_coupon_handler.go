package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type AdminCouponHandler struct {
	uc *usecase.CouponUsecase
}

// DI
func NewAdminCouponHandler(uc *usecase.CouponUsecase) *AdminCouponHandler {
	return &AdminCouponHandler{uc: uc}
}

func (h *AdminCouponHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/coupons")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
}

type AdminCouponRequest struct {
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	Active         bool            `json:"active"`
	StartDate      string          `json:"start_date"` // YYYY-MM-DD
	EndDate        string          `json:"end_date"`   // YYYY-MM-DD
	UsageLimit     *int64          `json:"usage_limit"`
	PerUserLimit   *int64          `json:"per_user_limit"`
}

func (r AdminCouponRequest) toInput() (usecase.AdminCouponInput, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return usecase.AdminCouponInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid start_date")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return usecase.AdminCouponInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid end_date")
	}

	return usecase.AdminCouponInput{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		Active:         r.Active,
		StartDate:      start,
		EndDate:        end,
		UsageLimit:     r.UsageLimit,
		PerUserLimit:   r.PerUserLimit,
	}, nil
}

func (h *AdminCouponHandler) list(c echo.Context) error {
	adminID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := pageLimit(c)
	if err != nil {
		return writeError(c, err)
	}

	var active *bool
	if v := c.QueryParam("active"); v != "" {
		b := v == "true" || v == "1"
		active = &b
	}

	out, err := h.uc.AdminListCoupons(c.Request().Context(), adminID, usecase.AdminListCouponsInput{
		Page:   page,
		Limit:  limit,
		Active: active,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminCouponHandler) detail(c echo.Context) error {
	adminID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	couponID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminGetCoupon(c.Request().Context(), adminID, couponID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminCouponHandler) create(c echo.Context) error {
	adminID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminCreateCoupon(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCouponHandler) update(c echo.Context) error {
	adminID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	couponID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req AdminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminUpdateCoupon(c.Request().Context(), adminID, couponID, in); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "updated"})
}
