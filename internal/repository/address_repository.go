package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 住所を保存・取得する窓口
type AddressRepository interface {
	//作成後はIDなどが埋まったものを返す
	Create(ctx context.Context, address model.CustomerAddress) (model.CustomerAddress, error)

	//顧客が持つ住所一覧を返す
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.CustomerAddress, error)

	FindByID(ctx context.Context, addressID int64) (model.CustomerAddress, error)

	Update(ctx context.Context, address model.CustomerAddress) error

	Delete(ctx context.Context, addressID int64) error

	//住所がその顧客のものかを確認
	IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error)

	//デフォルト住所の切り替えを行う
	SetDefault(ctx context.Context, customerID, addressID int64) error
}
