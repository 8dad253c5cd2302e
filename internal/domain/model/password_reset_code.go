package model

import "time"

// パスワード再設定コード（メールで送る6桁）
type PasswordResetCode struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Code       string    `gorm:"type:varchar(6);not null" json:"-"`
	ResetToken string    `gorm:"type:varchar(64)" json:"-"`
	IsUsed     bool      `gorm:"not null;default:false" json:"is_used"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// コードの有効期限
const PasswordResetCodeTTL = 10 * time.Minute

func (c PasswordResetCode) IsExpired(now time.Time) bool {
	return now.After(c.CreatedAt.Add(PasswordResetCodeTTL))
}
