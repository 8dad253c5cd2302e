package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 住所を作成
func (r *addressGormRepository) Create(ctx context.Context, address model.CustomerAddress) (model.CustomerAddress, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.CustomerAddress{}, err
	}
	return address, nil
}

// 顧客の住所一覧を返す
func (r *addressGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.CustomerAddress, error) {
	var list []model.CustomerAddress
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// 住所IDで1件取得
func (r *addressGormRepository) FindByID(ctx context.Context, addressID int64) (model.CustomerAddress, error) {
	var a model.CustomerAddress
	err := r.db.WithContext(ctx).First(&a, addressID).Error
	if isNotFound(err) {
		return model.CustomerAddress{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CustomerAddress{}, err
	}
	return a, nil
}

// 住所を更新
func (r *addressGormRepository) Update(ctx context.Context, address model.CustomerAddress) error {
	res := r.db.WithContext(ctx).
		Model(&model.CustomerAddress{}).
		Where("id = ?", address.ID).
		Select(
			"first_name",
			"last_name",
			"phone",
			"address",
			"city",
			"postal_code",
			"country",
			"updated_at",
		).
		Updates(address)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 住所を削除
func (r *addressGormRepository) Delete(ctx context.Context, addressID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CustomerAddress{}, addressID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 住所がその顧客のものか
func (r *addressGormRepository) IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CustomerAddress{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// デフォルト住所の切り替え（全部falseにしてから1つtrue）
func (r *addressGormRepository) SetDefault(ctx context.Context, customerID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CustomerAddress{}).
			Where("customer_id = ?", customerID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.CustomerAddress{}).
			Where("id = ? AND customer_id = ?", addressID, customerID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
