package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"storefront/internal/config"
	"storefront/internal/handler"
)

// Handlers はルート登録に必要なhandler一式。
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	Order         *handler.OrderHandler
	Address       *handler.AddressHandler
	Content       *handler.ContentHandler
	AdminProduct  *handler.AdminProductHandler
	AdminCoupon   *handler.AdminCouponHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminCustomer *handler.AdminCustomerHandler
}

// New はechoを組み立てて全ルートを登録する。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(cfg),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Content.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminCoupon.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminCustomer.RegisterRoutes(e, cfg)

	return e
}

func corsOrigins(cfg config.Config) []string {
	if cfg.FEURL != "" {
		return []string{cfg.FEURL}
	}
	//開発時はフロントURL未設定でも動かせるようにする
	return []string{"*"}
}
