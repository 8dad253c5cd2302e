package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/mailer"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

func main() {
	//.envはローカル開発用。無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.Customer{},
		&model.CustomerAddress{},
		&model.PasswordResetCode{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.Attribute{},
		&model.AttributeValue{},
		&model.ProductVariant{},
		&model.ProductVariantValue{},
		&model.Cart{},
		&model.CartItem{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
		&model.NewsletterSubscriber{},
		&model.FeaturedProduct{},
		&model.Testimonial{},
		&model.BlogPost{},
		&model.InfoPage{},
		&model.ContactMessage{},
		&model.SiteConfiguration{},
		&model.SocialLink{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	resetRepo := infraRepo.NewPasswordResetGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	usageRepo := infraRepo.NewCouponUsageGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	newsletterRepo := infraRepo.NewNewsletterGormRepository(gormDB)
	featuredRepo := infraRepo.NewFeaturedProductGormRepository(gormDB)
	cmsRepo := infraRepo.NewCMSGormRepository(gormDB)
	siteConfigRepo := infraRepo.NewSiteConfigGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//メール配信（URL未設定ならログだけのNop実装）
	var m mailer.Mailer
	if cfg.MailServiceURL != "" {
		m = mailer.NewHTTPMailer(cfg.MailServiceURL, cfg.MailFrom, logger)
	} else {
		m = mailer.NewNopMailer(logger)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, customerRepo, resetRepo, validator.NewAuthValidator(), m, logger)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, variantRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, variantRepo, productRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo, usageRepo, auditRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, m, logger, cfg.DefaultShippingCost)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, couponRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, auditRepo)
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	contentUC := usecase.NewContentUsecase(newsletterRepo, featuredRepo, cmsRepo, siteConfigRepo, productRepo)

	//Handler生成とServer起動
	e := server.New(cfg, server.Handlers{
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC, couponUC),
		Order:         handler.NewOrderHandler(orderUC),
		Address:       handler.NewAddressHandler(addressUC),
		Content:       handler.NewContentHandler(contentUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		AdminCoupon:   handler.NewAdminCouponHandler(couponUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		AdminCustomer: handler.NewAdminCustomerHandler(customerUC),
	})

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.GoEnv == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
