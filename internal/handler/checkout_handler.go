package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	couponUC   *usecase.CouponUsecase
}

// DI
func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase, couponUC *usecase.CouponUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC: checkoutUC,
		couponUC:   couponUC,
	}
}

// checkoutはゲストも通すのでOptionalAuth
func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/checkout", h.checkout, middleware.OptionalAuthJWT(cfg))
	e.POST("/coupons/validate", h.validateCoupon, middleware.OptionalAuthJWT(cfg))
}

type CheckoutRequest struct {
	GuestEmail     string `json:"guest_email"`
	GuestFirstName string `json:"guest_first_name"`
	GuestLastName  string `json:"guest_last_name"`
	GuestPhone     string `json:"guest_phone"`

	ShippingAddressID *int64                         `json:"shipping_address_id"`
	ShippingAddress   *usecase.CheckoutAddressInput  `json:"shipping_address"`

	PaymentMethod string                      `json:"payment_method"`
	CouponCode    string                      `json:"coupon_code"`
	Items         []usecase.CheckoutItemInput `json:"items"`
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CheckoutInput{
		GuestEmail:        req.GuestEmail,
		GuestFirstName:    req.GuestFirstName,
		GuestLastName:     req.GuestLastName,
		GuestPhone:        req.GuestPhone,
		ShippingAddressID: req.ShippingAddressID,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		CouponCode:        req.CouponCode,
		Items:             req.Items,
	}

	//ログイン済みならトークンの顧客で注文する
	if customerID, ok := getCustomerIDFromContext(c); ok {
		in.CustomerID = &customerID
	}

	out, err := h.checkoutUC.PlaceOrder(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type ValidateCouponRequest struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// 読み取り専用のプレビュー。使用記録は書かない。
func (h *CheckoutHandler) validateCoupon(c echo.Context) error {
	var req ValidateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.ValidateCouponInput{
		Code:       req.Code,
		OrderTotal: req.OrderTotal,
	}
	if customerID, ok := getCustomerIDFromContext(c); ok {
		in.CustomerID = &customerID
	}

	out, err := h.couponUC.ValidatePreview(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
