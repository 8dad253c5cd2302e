package usecase

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	variantRepo  repo.VariantRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	variantRepo repo.VariantRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		variantRepo:  variantRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ID          int64           `json:"id"`
	VariantID   int64           `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type CartOutput struct {
	CartID   int64            `json:"cart_id"`
	Items    []CartItemOutput `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// GetCart はカート内容を現在のカタログ価格で返す。
// 価格が確定するのは注文時（カートには金額を持たせない）。
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{
		CartID:   cart.ID,
		Items:    make([]CartItemOutput, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, it := range items {
		variant, err := u.variantRepo.FindByID(ctx, it.VariantID)
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		product, err := u.productRepo.FindByID(ctx, variant.ProductID)
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		unitPrice := variant.UnitPrice(product.Price)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(it.Quantity))

		out.Items = append(out.Items, CartItemOutput{
			ID:          it.ID,
			VariantID:   it.VariantID,
			ProductName: product.Name,
			SKU:         variant.SKU,
			UnitPrice:   unitPrice,
			Quantity:    it.Quantity,
			LineTotal:   lineTotal,
		})
		out.Subtotal = out.Subtotal.Add(lineTotal)
	}

	return out, nil
}

type AddCartItemInput struct {
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

func (u *CartUsecase) AddItem(ctx context.Context, customerID int64, in AddCartItemInput) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
	}

	var (
		variant model.ProductVariant
		err     error
	)
	switch {
	case in.VariantID != nil:
		variant, err = u.variantRepo.FindByID(ctx, *in.VariantID)
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "variant not found")
		}
	case in.ProductID != nil:
		variant, err = u.variantRepo.FindFirstAvailableByProductID(ctx, *in.ProductID)
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "no available variant for product")
		}
	default:
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product_id or variant_id required")
	}
	if err != nil && err != repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	product, err := u.productRepo.FindByID(ctx, variant.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !product.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//同じバリアントは数量加算（行は増やさない）
	if err := u.cartItemRepo.UpsertByCartAndVariant(ctx, cart.ID, variant.ID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, customerID)
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, customerID int64, cartItemID int64, qty int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}
	if qty < 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
	}

	if err := u.mustOwnItem(ctx, cartItemID, customerID); err != nil {
		return CartOutput{}, err
	}

	//0は削除扱い
	if qty == 0 {
		if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.GetCart(ctx, customerID)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, customerID)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, customerID int64, cartItemID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	if err := u.mustOwnItem(ctx, cartItemID, customerID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, customerID)
}

// 他人のカート行は404で返す（存在も教えない）
func (u *CartUsecase) mustOwnItem(ctx context.Context, cartItemID int64, customerID int64) error {
	owned, err := u.cartItemRepo.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}
