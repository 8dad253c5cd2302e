package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type passwordResetGormRepository struct {
	db *gorm.DB
}

// DI
func NewPasswordResetGormRepository(db *gorm.DB) repo.PasswordResetRepository {
	return &passwordResetGormRepository{db: db}
}

func (r *passwordResetGormRepository) Create(ctx context.Context, code *model.PasswordResetCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// 未使用の最新コードを取得
func (r *passwordResetGormRepository) FindLatestByEmail(ctx context.Context, email string) (*model.PasswordResetCode, error) {
	var c model.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?) AND is_used = ?", strings.TrimSpace(email), false).
		Order("id desc").
		First(&c).Error
	if isNotFound(err) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *passwordResetGormRepository) FindByResetToken(ctx context.Context, token string) (*model.PasswordResetCode, error) {
	var c model.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND is_used = ?", token, false).
		First(&c).Error
	if isNotFound(err) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *passwordResetGormRepository) MarkUsed(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.PasswordResetCode{}).
		Where("id = ?", id).
		Update("is_used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
