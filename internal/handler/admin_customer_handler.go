package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type AdminCustomerHandler struct {
	uc *usecase.CustomerUsecase
}

// DI
func NewAdminCustomerHandler(uc *usecase.CustomerUsecase) *AdminCustomerHandler {
	return &AdminCustomerHandler{uc: uc}
}

func (h *AdminCustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/customers")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
}

func (h *AdminCustomerHandler) list(c echo.Context) error {
	adminID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := pageLimit(c)
	if err != nil {
		return writeError(c, err)
	}

	var isGuest *bool
	if v := c.QueryParam("is_guest"); v != "" {
		b := v == "true" || v == "1"
		isGuest = &b
	}

	out, err := h.uc.AdminListCustomers(c.Request().Context(), adminID, usecase.AdminListCustomersInput{
		Page:    page,
		Limit:   limit,
		Q:       c.QueryParam("q"),
		IsGuest: isGuest,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
