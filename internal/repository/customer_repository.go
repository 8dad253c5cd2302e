package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// 見つからないエラーを統一
var ErrNotFound = errors.New("not found")

// ユニーク制約違反（email重複、クーポン二重使用など）
var ErrConflict = errors.New("conflict")

type CustomerListFilter struct {
	Page    int
	Limit   int
	Q       string
	IsGuest *bool
}

// 顧客の保存・取得を約束
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, customerID int64) (*model.Customer, error)
	//emailで1件取得。無ければ (nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	//管理者用の顧客一覧
	ListAdmin(ctx context.Context, f CustomerListFilter) ([]model.Customer, int64, error)
}
