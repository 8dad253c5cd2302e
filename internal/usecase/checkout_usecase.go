package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/infra/mailer"
	repo "storefront/internal/repository"
)

type CheckoutUsecase struct {
	tx           repo.TransactionManager
	mailer       mailer.Mailer
	logger       *zap.Logger
	shippingCost decimal.Decimal
}

// DI
func NewCheckoutUsecase(
	tx repo.TransactionManager,
	m mailer.Mailer,
	logger *zap.Logger,
	shippingCost decimal.Decimal,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:           tx,
		mailer:       m,
		logger:       logger,
		shippingCost: shippingCost,
	}
}

type CheckoutItemInput struct {
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutAddressInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CheckoutInput struct {
	// ログイン済みならmiddlewareから。nilはゲスト。
	CustomerID *int64

	GuestEmail     string
	GuestFirstName string
	GuestLastName  string
	GuestPhone     string

	// idか新規入力のどちらか
	ShippingAddressID *int64
	ShippingAddress   *CheckoutAddressInput

	PaymentMethod string
	CouponCode    string

	// 空ならログインユーザーのカートから組み立てる
	Items []CheckoutItemInput
}

type OrderItemOutput struct {
	VariantID   int64           `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	OrderNumber    string            `json:"order_number"`
	Status         string            `json:"status"`
	PaymentType    string            `json:"payment_type"`
	PaymentStatus  string            `json:"payment_status"`
	SubtotalAmount decimal.Decimal   `json:"subtotal_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	ShippingCost   decimal.Decimal   `json:"shipping_cost"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	CouponCode     string            `json:"coupon_code,omitempty"`
	Items          []OrderItemOutput `json:"items"`
	CreatedAt      string            `json:"created_at"`
}

// PlaceOrder はチェックアウト全体を1トランザクションで行う。
// 顧客解決 → 住所 → 明細と在庫 → クーポン → 注文作成まで、
// 途中で失敗したら全部ロールバック。メール通知だけはcommit後のベストエフォート。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in CheckoutInput) (OrderOutput, error) {
	pm := model.PaymentMethod(in.PaymentMethod)
	if !pm.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "unsupported payment method")
	}
	if in.CustomerID == nil && strings.TrimSpace(in.GuestEmail) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "email is required for guest checkout")
	}
	if in.ShippingAddressID == nil && in.ShippingAddress == nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address required")
	}

	var (
		out       OrderOutput
		mailTo    string
		mailOrder string
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// a. 顧客解決（ゲストはemailで既存行を再利用して二重作成を防ぐ）
		customer, err := u.resolveCustomer(ctx, r, in)
		if err != nil {
			return err
		}

		// b. 配送先
		address, err := u.resolveAddress(ctx, r, customer.ID, in)
		if err != nil {
			return err
		}

		// c. 明細（バリアント解決・在庫減算・小計）
		items := in.Items
		var cartID int64
		if len(items) == 0 {
			if in.CustomerID == nil {
				return NewHTTPError(http.StatusBadRequest, "items required")
			}
			items, cartID, err = u.itemsFromCart(ctx, r, customer.ID)
			if err != nil {
				return err
			}
		}

		orderItems, subtotal, err := u.buildOrderItems(ctx, r, items)
		if err != nil {
			return err
		}

		// d. クーポン（失敗したら注文ごと中止。使用記録も同じTx内）
		discount := decimal.Zero
		var couponID *int64
		var couponCode string
		if strings.TrimSpace(in.CouponCode) != "" {
			// ゲストはper_user_limitの対象外（記録のcustomer_idはNULL）
			var limitCustomerID *int64
			if !customer.IsGuest {
				limitCustomerID = &customer.ID
			}

			coupon, d, err := validateCoupon(ctx, r.Coupons(), r.CouponUsages(), in.CouponCode, subtotal, limitCustomerID, time.Now(), true)
			if err != nil {
				return err
			}

			if err := r.CouponUsages().Create(ctx, model.CouponUsage{
				CouponID:   coupon.ID,
				CustomerID: limitCustomerID,
			}); err != nil {
				if err == repo.ErrConflict {
					return NewHTTPError(http.StatusBadRequest, "coupon per-user limit reached")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			discount = d
			couponID = &coupon.ID
			couponCode = coupon.Code
		}

		// e. 合計は常に subtotal - discount + shipping
		total := subtotal.Sub(discount).Add(u.shippingCost)

		// f. 注文本体と明細
		order := model.Order{
			OrderNumber:       uuid.NewString(),
			CustomerID:        customer.ID,
			ShippingAddressID: address.ID,
			CouponID:          couponID,
			SubtotalAmount:    subtotal,
			DiscountAmount:    discount,
			ShippingCost:      u.shippingCost,
			TotalAmount:       total,
			PaymentType:       pm,
			PaymentStatus:     model.PaymentStatusPending,
			Status:            model.OrderStatusPending,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// カートから作った場合はカートを閉じる
		if cartID != 0 {
			if err := r.Carts().UpdateStatus(ctx, cartID, model.CartStatusCheckedOut); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = toOrderOutput(orderID, order, couponCode, orderItems)
		mailTo = customer.Email
		mailOrder = order.OrderNumber
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	// g. 注文確認メール。失敗しても注文は成立済みなのでログだけ。
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		subject := "Order confirmation " + mailOrder
		body := fmt.Sprintf("Thank you for your order.\nOrder number: %s\nTotal: %s", mailOrder, out.TotalAmount.StringFixed(2))
		if err := u.mailer.Send(sendCtx, mailTo, subject, body); err != nil {
			u.logger.Warn("order confirmation mail failed",
				zap.String("order_number", mailOrder),
				zap.Error(err),
			)
		}
	}()

	return out, nil
}

func (u *CheckoutUsecase) resolveCustomer(ctx context.Context, r repo.TxRepos, in CheckoutInput) (*model.Customer, error) {
	if in.CustomerID != nil {
		c, err := r.Customers().FindByID(ctx, *in.CustomerID)
		if err == repo.ErrNotFound || c == nil {
			return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return c, nil
	}

	email := strings.ToLower(strings.TrimSpace(in.GuestEmail))
	existing, err := r.Customers().FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return existing, nil
	}

	guest := &model.Customer{
		Email:     email,
		FirstName: strings.TrimSpace(in.GuestFirstName),
		LastName:  strings.TrimSpace(in.GuestLastName),
		Phone:     strings.TrimSpace(in.GuestPhone),
		Role:      model.RoleCustomer,
		IsGuest:   true,
		IsActive:  true,
	}
	if err := r.Customers().Create(ctx, guest); err != nil {
		// 同時リクエストで同じemailが先に入った場合は拾い直す
		if err == repo.ErrConflict {
			again, err2 := r.Customers().FindByEmail(ctx, email)
			if err2 == nil && again != nil {
				return again, nil
			}
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return guest, nil
}

func (u *CheckoutUsecase) resolveAddress(ctx context.Context, r repo.TxRepos, customerID int64, in CheckoutInput) (model.CustomerAddress, error) {
	if in.ShippingAddressID != nil {
		addr, err := r.Addresses().FindByID(ctx, *in.ShippingAddressID)
		if err == repo.ErrNotFound {
			return model.CustomerAddress{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		if err != nil {
			return model.CustomerAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if addr.CustomerID != customerID {
			return model.CustomerAddress{}, NewHTTPError(http.StatusForbidden, "address not found")
		}
		return addr, nil
	}

	a := in.ShippingAddress
	if strings.TrimSpace(a.FirstName) == "" || strings.TrimSpace(a.Address) == "" || strings.TrimSpace(a.City) == "" {
		return model.CustomerAddress{}, NewHTTPError(http.StatusBadRequest, "shipping first_name, address and city are required")
	}

	created, err := r.Addresses().Create(ctx, model.CustomerAddress{
		CustomerID: customerID,
		FirstName:  strings.TrimSpace(a.FirstName),
		LastName:   strings.TrimSpace(a.LastName),
		Phone:      strings.TrimSpace(a.Phone),
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	})
	if err != nil {
		return model.CustomerAddress{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CheckoutUsecase) itemsFromCart(ctx context.Context, r repo.TxRepos, customerID int64) ([]CheckoutItemInput, int64, error) {
	cart, err := r.Carts().FindActiveByCustomerID(ctx, customerID)
	if err == repo.ErrNotFound {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	items := make([]CheckoutItemInput, 0, len(cartItems))
	for _, ci := range cartItems {
		vid := ci.VariantID
		items = append(items, CheckoutItemInput{VariantID: &vid, Quantity: ci.Quantity})
	}
	return items, cart.ID, nil
}

// buildOrderItems はバリアント解決と在庫減算を行い、明細と小計を返す。
// 単価は注文時点で確定（variantのoverride、無ければ商品価格）。
func (u *CheckoutUsecase) buildOrderItems(ctx context.Context, r repo.TxRepos, items []CheckoutItemInput) ([]model.OrderItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "items required")
	}

	subtotal := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))

	for _, it := range items {
		if it.Quantity < 1 {
			return nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
		}

		var (
			variant model.ProductVariant
			err     error
		)
		switch {
		case it.VariantID != nil:
			variant, err = r.Variants().FindByID(ctx, *it.VariantID)
			if err == repo.ErrNotFound {
				return nil, decimal.Zero, NewHTTPError(http.StatusNotFound, "variant not found")
			}
		case it.ProductID != nil:
			// product_id指定は在庫ありの最小IDバリアントに解決する
			variant, err = r.Variants().FindFirstAvailableByProductID(ctx, *it.ProductID)
			if err == repo.ErrNotFound {
				return nil, decimal.Zero, NewHTTPError(http.StatusNotFound, "no available variant for product")
			}
		default:
			return nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "product_id or variant_id required")
		}
		if err != nil && err != repo.ErrNotFound {
			return nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		product, err := r.Products().FindByID(ctx, variant.ProductID)
		if err == repo.ErrNotFound {
			return nil, decimal.Zero, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !product.IsActive {
			return nil, decimal.Zero, NewHTTPError(http.StatusNotFound, "product not found")
		}

		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, variant.ID, it.Quantity)
		if err != nil {
			return nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, "insufficient stock for "+variant.SKU)
		}

		unitPrice := variant.UnitPrice(product.Price)
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(it.Quantity)))

		orderItems = append(orderItems, model.OrderItem{
			VariantID:           variant.ID,
			ProductNameSnapshot: product.Name,
			SKUSnapshot:         variant.SKU,
			UnitPrice:           unitPrice,
			Quantity:            it.Quantity,
		})
	}

	return orderItems, subtotal, nil
}

func toOrderOutput(orderID int64, o model.Order, couponCode string, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			VariantID:   it.VariantID,
			ProductName: it.ProductNameSnapshot,
			SKU:         it.SKUSnapshot,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}

	return OrderOutput{
		ID:             orderID,
		OrderNumber:    o.OrderNumber,
		Status:         string(o.Status),
		PaymentType:    string(o.PaymentType),
		PaymentStatus:  string(o.PaymentStatus),
		SubtotalAmount: o.SubtotalAmount,
		DiscountAmount: o.DiscountAmount,
		ShippingCost:   o.ShippingCost,
		TotalAmount:    o.TotalAmount,
		CouponCode:     couponCode,
		Items:          outItems,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
}
