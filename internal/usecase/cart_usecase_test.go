package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

type CrtCartRepoMock struct{ mock.Mock }

func (m *CrtCartRepoMock) GetOrCreateActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CrtCartRepoMock) FindActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	panic("not used in CartUsecase tests")
}

func (m *CrtCartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	panic("not used in CartUsecase tests")
}

func (m *CrtCartRepoMock) Clear(ctx context.Context, cartID int64) error {
	panic("not used in CartUsecase tests")
}

type CrtCartItemRepoMock struct{ mock.Mock }

func (m *CrtCartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CrtCartItemRepoMock) UpsertByCartAndVariant(ctx context.Context, cartID int64, variantID int64, addQty int64) error {
	args := m.Called(ctx, cartID, variantID, addQty)
	return args.Error(0)
}

func (m *CrtCartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CrtCartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CrtCartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	panic("not used in CartUsecase tests")
}

func (m *CrtCartItemRepoMock) IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, customerID)
	return args.Bool(0), args.Error(1)
}

type cartFixture struct {
	carts    *CrtCartRepoMock
	items    *CrtCartItemRepoMock
	variants *CkoVariantRepoMock
	products *CkoProductRepoMock
	uc       *usecase.CartUsecase
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:    new(CrtCartRepoMock),
		items:    new(CrtCartItemRepoMock),
		variants: new(CkoVariantRepoMock),
		products: new(CkoProductRepoMock),
	}
	f.uc = usecase.NewCartUsecase(f.carts, f.items, f.variants, f.products)
	return f
}

func (f *cartFixture) withActiveCart(cartID int64) {
	f.carts.On("GetOrCreateActiveByCustomerID", mock.Anything, int64(42)).Return(model.Cart{
		ID:         cartID,
		CustomerID: 42,
		Status:     model.CartStatusActive,
	}, nil)
}

func TestCartUsecase_GetCart_PricesFromCurrentCatalog(t *testing.T) {
	f := newCartFixture()
	f.withActiveCart(8)

	f.items.On("ListByCartID", mock.Anything, int64(8)).Return([]model.CartItem{
		{ID: 1, CartID: 8, VariantID: 10, Quantity: 2},
		{ID: 2, CartID: 8, VariantID: 11, Quantity: 1},
	}, nil)

	override := dec("450")
	f.variants.On("FindByID", mock.Anything, int64(10)).Return(model.ProductVariant{
		ID: 10, ProductID: 3, SKU: "LNN-001-M",
	}, nil)
	f.variants.On("FindByID", mock.Anything, int64(11)).Return(model.ProductVariant{
		ID: 11, ProductID: 3, SKU: "LNN-001-L", PriceOverride: &override,
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, Name: "Linen Shirt", Price: dec("500"), IsActive: true,
	}, nil)

	out, err := f.uc.GetCart(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(8), out.CartID)
	assert.Len(t, out.Items, 2)
	// 2x500 + 1x450
	assert.True(t, out.Items[0].LineTotal.Equal(dec("1000")))
	assert.True(t, out.Items[1].LineTotal.Equal(dec("450")))
	assert.True(t, out.Subtotal.Equal(dec("1450")), "subtotal = %s", out.Subtotal)
}

func TestCartUsecase_AddItem_UpsertsSameVariant(t *testing.T) {
	f := newCartFixture()
	f.withActiveCart(8)

	f.variants.On("FindByID", mock.Anything, int64(10)).Return(model.ProductVariant{
		ID: 10, ProductID: 3, SKU: "LNN-001-M",
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, Name: "Linen Shirt", Price: dec("500"), IsActive: true,
	}, nil)
	f.items.On("UpsertByCartAndVariant", mock.Anything, int64(8), int64(10), int64(2)).Return(nil)
	f.items.On("ListByCartID", mock.Anything, int64(8)).Return([]model.CartItem{
		{ID: 1, CartID: 8, VariantID: 10, Quantity: 2},
	}, nil)

	variantID := int64(10)
	out, err := f.uc.AddItem(context.Background(), 42, usecase.AddCartItemInput{VariantID: &variantID, Quantity: 2})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	f.items.AssertExpectations(t)
}

func TestCartUsecase_AddItem_InactiveProductHidden(t *testing.T) {
	f := newCartFixture()

	f.variants.On("FindByID", mock.Anything, int64(10)).Return(model.ProductVariant{
		ID: 10, ProductID: 3,
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(3)).Return(model.Product{
		ID: 3, IsActive: false,
	}, nil)

	variantID := int64(10)
	_, err := f.uc.AddItem(context.Background(), 42, usecase.AddCartItemInput{VariantID: &variantID, Quantity: 1})
	assertErrContains(t, err, "product not found")
}

func TestCartUsecase_AddItem_RequiresProductOrVariant(t *testing.T) {
	f := newCartFixture()

	_, err := f.uc.AddItem(context.Background(), 42, usecase.AddCartItemInput{Quantity: 1})
	assertErrContains(t, err, "product_id or variant_id required")
}

func TestCartUsecase_UpdateItemQuantity_ZeroDeletes(t *testing.T) {
	f := newCartFixture()
	f.withActiveCart(8)

	f.items.On("IsOwnedByCustomer", mock.Anything, int64(1), int64(42)).Return(true, nil)
	f.items.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
	f.items.On("ListByCartID", mock.Anything, int64(8)).Return([]model.CartItem{}, nil)

	out, err := f.uc.UpdateItemQuantity(context.Background(), 42, 1, 0)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	f.items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItemQuantity_OtherCustomersItemIs404(t *testing.T) {
	f := newCartFixture()

	f.items.On("IsOwnedByCustomer", mock.Anything, int64(1), int64(42)).Return(false, nil)

	_, err := f.uc.UpdateItemQuantity(context.Background(), 42, 1, 3)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	f := newCartFixture()
	f.withActiveCart(8)

	f.items.On("IsOwnedByCustomer", mock.Anything, int64(1), int64(42)).Return(true, nil)
	f.items.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
	f.items.On("ListByCartID", mock.Anything, int64(8)).Return([]model.CartItem{}, nil)

	out, err := f.uc.RemoveItem(context.Background(), 42, 1)
	assert.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("0")))
}

func TestCartUsecase_AddItem_UnknownVariant(t *testing.T) {
	f := newCartFixture()

	f.variants.On("FindByID", mock.Anything, int64(99)).Return(model.ProductVariant{}, repo.ErrNotFound)

	variantID := int64(99)
	_, err := f.uc.AddItem(context.Background(), 42, usecase.AddCartItemInput{VariantID: &variantID, Quantity: 1})
	assertErrContains(t, err, "variant not found")
}
