package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/model"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Linen Shirt", "linen-shirt"},
		{"  Summer  Sale 2026  ", "summer-sale-2026"},
		{"Kid's T-Shirt!", "kid-s-t-shirt"},
		{"---", ""},
		{"Café au Lait", "café-au-lait"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, model.Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []model.PaymentMethod{
		model.PaymentMethodCash, model.PaymentMethodBkash, model.PaymentMethodNagad, model.PaymentMethodRocket,
	} {
		assert.True(t, m.Valid(), "%s", m)
	}
	assert.False(t, model.PaymentMethod("Paypal").Valid())
	assert.False(t, model.PaymentMethod("cash").Valid(), "大文字小文字は区別する")
	assert.False(t, model.PaymentMethod("").Valid())
}

func TestProductVariantUnitPrice(t *testing.T) {
	productPrice := decimal.NewFromInt(500)

	v := model.ProductVariant{}
	assert.True(t, v.UnitPrice(productPrice).Equal(productPrice))

	override := decimal.NewFromInt(450)
	v.PriceOverride = &override
	assert.True(t, v.UnitPrice(productPrice).Equal(override))
}
