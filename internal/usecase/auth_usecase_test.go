package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

type AthCustomerRepoMock struct{ mock.Mock }

func (m *AthCustomerRepoMock) Create(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	if args.Error(0) == nil {
		customer.ID = 101
	}
	return args.Error(0)
}

func (m *AthCustomerRepoMock) FindByID(ctx context.Context, customerID int64) (*model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *AthCustomerRepoMock) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *AthCustomerRepoMock) Update(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *AthCustomerRepoMock) ListAdmin(ctx context.Context, f repo.CustomerListFilter) ([]model.Customer, int64, error) {
	panic("not used in AuthUsecase tests")
}

type AthResetRepoMock struct{ mock.Mock }

func (m *AthResetRepoMock) Create(ctx context.Context, code *model.PasswordResetCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *AthResetRepoMock) FindLatestByEmail(ctx context.Context, email string) (*model.PasswordResetCode, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*model.PasswordResetCode)
	return c, args.Error(1)
}

func (m *AthResetRepoMock) FindByResetToken(ctx context.Context, token string) (*model.PasswordResetCode, error) {
	panic("not used in AuthUsecase tests")
}

func (m *AthResetRepoMock) MarkUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AthMailerMock struct{ mock.Mock }

func (m *AthMailerMock) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newAuthUsecase(customers *AthCustomerRepoMock, resets *AthResetRepoMock, m *AthMailerMock) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, customers, resets, validator.NewAuthValidator(), m, zap.NewNop())
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

// =====================
// Register
// =====================

func TestAuthUsecase_Register_NewCustomer(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.Email == "alice@example.com" &&
			!c.IsGuest && c.IsActive &&
			c.Role == model.RoleCustomer &&
			c.PasswordHash != "" && c.PasswordHash != "password123"
	})).Return(nil)

	res, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:     " Alice@Example.com ",
		Password:  "password123",
		FirstName: "Alice",
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.Customer.Email)
	assert.False(t, res.Customer.IsGuest)
	customers.AssertExpectations(t)
}

func TestAuthUsecase_Register_UpgradesGuestRow(t *testing.T) {
	// ゲスト購入で作られた行はIDを維持したままアカウント化される
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "bob@example.com").Return(&model.Customer{
		ID:      7,
		Email:   "bob@example.com",
		IsGuest: true,
	}, nil)
	customers.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.ID == 7 && !c.IsGuest && c.PasswordHash != "" && c.FirstName == "Bob"
	})).Return(nil)

	res, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:     "bob@example.com",
		Password:  "password123",
		FirstName: "Bob",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), res.Customer.ID)
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:      1,
		Email:   "alice@example.com",
		IsGuest: false,
	}, nil)

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "email already registered")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestAuthUsecase_Register_ValidationFailures(t *testing.T) {
	uc := newAuthUsecase(new(AthCustomerRepoMock), new(AthResetRepoMock), new(AthMailerMock))

	cases := []struct {
		name string
		req  usecase.AuthRegisterRequest
		want string
	}{
		{"missing email", usecase.AuthRegisterRequest{Password: "password123"}, "email and password are required"},
		{"bad email", usecase.AuthRegisterRequest{Email: "not-an-email", Password: "password123"}, "invalid email format"},
		{"short password", usecase.AuthRegisterRequest{Email: "a@b.com", Password: "short"}, "at least 8 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), tc.req)
			assertErrContains(t, err, tc.want)
		})
	}
}

// =====================
// Login
// =====================

func TestAuthUsecase_Login_IssuesToken(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hash(t, "password123"),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}, nil)
	customers.On("Update", mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token.AccessToken)
	assert.Equal(t, int(24*time.Hour.Seconds()), res.Token.ExpiresIn)

	// tokenは同じsecretで検証でき、subとroleを持つ
	parsed, err := jwt.Parse(res.Token.AccessToken, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(1), claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hash(t, "password123"),
		IsActive:     true,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assertErrContains(t, err, "invalid email or password")
}

func TestAuthUsecase_Login_GuestRowCannotLogin(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "guest@example.com").Return(&model.Customer{
		ID:      7,
		Email:   "guest@example.com",
		IsGuest: true,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "guest@example.com",
		Password: "whatever123",
	})
	// ゲスト行の存在は漏らさない
	assertErrContains(t, err, "invalid email or password")
}

func TestAuthUsecase_Login_DisabledAccount(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	uc := newAuthUsecase(customers, new(AthResetRepoMock), new(AthMailerMock))

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: hash(t, "password123"),
		IsActive:     false,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "account disabled")
}

// =====================
// Password reset
// =====================

func TestAuthUsecase_RequestPasswordReset_SendsCode(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	resets := new(AthResetRepoMock)
	m := new(AthMailerMock)
	uc := newAuthUsecase(customers, resets, m)

	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:       1,
		Email:    "alice@example.com",
		IsActive: true,
	}, nil)

	var savedCode string
	resets.On("Create", mock.Anything, mock.MatchedBy(func(c *model.PasswordResetCode) bool {
		savedCode = c.Code
		return c.Email == "alice@example.com" && len(c.Code) == 6 && c.ResetToken != ""
	})).Return(nil)
	m.On("Send", mock.Anything, "alice@example.com", "Password reset code", mock.MatchedBy(func(body string) bool {
		return savedCode != "" && len(savedCode) == 6
	})).Return(nil)

	res, err := uc.RequestPasswordReset(context.Background(), usecase.PasswordResetRequestInput{Email: "alice@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, "if the account exists, a reset code has been sent", res.Message)
	resets.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestAuthUsecase_RequestPasswordReset_UnknownEmailLooksTheSame(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	resets := new(AthResetRepoMock)
	m := new(AthMailerMock)
	uc := newAuthUsecase(customers, resets, m)

	customers.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	res, err := uc.RequestPasswordReset(context.Background(), usecase.PasswordResetRequestInput{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, "if the account exists, a reset code has been sent", res.Message)

	resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_ConfirmPasswordReset_Succeeds(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	resets := new(AthResetRepoMock)
	uc := newAuthUsecase(customers, resets, new(AthMailerMock))

	resets.On("FindLatestByEmail", mock.Anything, "alice@example.com").Return(&model.PasswordResetCode{
		ID:        3,
		Email:     "alice@example.com",
		Code:      "123456",
		CreatedAt: time.Now(),
	}, nil)
	customers.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.Customer{
		ID:       1,
		Email:    "alice@example.com",
		IsActive: true,
	}, nil)
	customers.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("new-password-1")) == nil
	})).Return(nil)
	resets.On("MarkUsed", mock.Anything, int64(3)).Return(nil)

	res, err := uc.ConfirmPasswordReset(context.Background(), usecase.PasswordResetConfirmInput{
		Email:       "alice@example.com",
		Code:        "123456",
		NewPassword: "new-password-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "password updated", res.Message)
	resets.AssertExpectations(t)
}

func TestAuthUsecase_ConfirmPasswordReset_ExpiredCode(t *testing.T) {
	customers := new(AthCustomerRepoMock)
	resets := new(AthResetRepoMock)
	uc := newAuthUsecase(customers, resets, new(AthMailerMock))

	resets.On("FindLatestByEmail", mock.Anything, "alice@example.com").Return(&model.PasswordResetCode{
		ID:        3,
		Email:     "alice@example.com",
		Code:      "123456",
		CreatedAt: time.Now().Add(-model.PasswordResetCodeTTL - time.Minute),
	}, nil)

	_, err := uc.ConfirmPasswordReset(context.Background(), usecase.PasswordResetConfirmInput{
		Email:       "alice@example.com",
		Code:        "123456",
		NewPassword: "new-password-1",
	})
	assertErrContains(t, err, "invalid or expired code")
	customers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthUsecase_ConfirmPasswordReset_WrongCode(t *testing.T) {
	resets := new(AthResetRepoMock)
	uc := newAuthUsecase(new(AthCustomerRepoMock), resets, new(AthMailerMock))

	resets.On("FindLatestByEmail", mock.Anything, "alice@example.com").Return(&model.PasswordResetCode{
		ID:        3,
		Email:     "alice@example.com",
		Code:      "123456",
		CreatedAt: time.Now(),
	}, nil)

	_, err := uc.ConfirmPasswordReset(context.Background(), usecase.PasswordResetConfirmInput{
		Email:       "alice@example.com",
		Code:        "654321",
		NewPassword: "new-password-1",
	})
	assertErrContains(t, err, "invalid or expired code")
}
