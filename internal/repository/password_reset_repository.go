package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// パスワード再設定コードの保存・取得
type PasswordResetRepository interface {
	Create(ctx context.Context, code *model.PasswordResetCode) error
	//未使用の最新コードを1件取得
	FindLatestByEmail(ctx context.Context, email string) (*model.PasswordResetCode, error)
	FindByResetToken(ctx context.Context, token string) (*model.PasswordResetCode, error)
	MarkUsed(ctx context.Context, id int64) error
}
