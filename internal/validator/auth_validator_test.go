package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/usecase"
	"storefront/internal/validator"
)

func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := validator.NewAuthValidator()

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"ok", "alice@example.com", "password123", ""},
		{"ok with subdomain", "a.b@mail.example.co.jp", "password123", ""},
		{"empty email", "", "password123", "email and password are required"},
		{"empty password", "alice@example.com", "", "email and password are required"},
		{"no at sign", "alice.example.com", "password123", "invalid email format"},
		{"no domain dot", "alice@example", "password123", "invalid email format"},
		{"whitespace in email", "ali ce@example.com", "password123", "invalid email format"},
		{"short password", "alice@example.com", "seven77", "at least 8 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(context.Background(), tc.email, tc.password)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			he, ok := usecase.AsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, 400, he.Status)
		})
	}
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator()

	// ログインはパスワード長を見ない（既存アカウントの要件が変わっている可能性があるため）
	assert.NoError(t, v.ValidateLogin(context.Background(), "alice@example.com", "short"))

	err := v.ValidateLogin(context.Background(), "", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email and password are required")

	err = v.ValidateLogin(context.Background(), "not-an-email", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email format")
}
