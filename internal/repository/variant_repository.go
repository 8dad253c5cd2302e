package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// バリアントの永続化の約束。
type VariantRepository interface {
	FindByID(ctx context.Context, variantID int64) (model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	//product_id指定の解決はID昇順の在庫ありバリアント
	FindFirstAvailableByProductID(ctx context.Context, productID int64) (model.ProductVariant, error)

	ListValues(ctx context.Context, variantID int64) ([]model.ProductVariantValue, error)

	Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error)
	Update(ctx context.Context, v model.ProductVariant) error
	Delete(ctx context.Context, variantID int64) error
}

// バリアント在庫の更新と調整履歴の約束。
type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, variantID int64, newStock int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, variantID int64, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
