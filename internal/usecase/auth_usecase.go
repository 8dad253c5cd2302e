package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/mailer"
	repo "storefront/internal/repository"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type CustomerDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsGuest   bool   `json:"is_guest"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type AuthRegisterResponse struct {
	Customer CustomerDTO `json:"customer"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	Customer CustomerDTO       `json:"customer"`
	Token    JwtAccessTokenDTO `json:"token"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type AuthUsecase struct {
	cfg       config.Config
	customers repo.CustomerRepository
	resets    repo.PasswordResetRepository
	validator AuthValidator
	mailer    mailer.Mailer
	logger    *zap.Logger
}

func NewAuthUsecase(
	cfg config.Config,
	customers repo.CustomerRepository,
	resets repo.PasswordResetRepository,
	validator AuthValidator,
	m mailer.Mailer,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		customers: customers,
		resets:    resets,
		validator: validator,
		mailer:    m,
		logger:    logger,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	// ゲスト購入で作られた行があればそのままアカウント化する
	existing, err := u.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var customer *model.Customer
	if existing != nil {
		if !existing.IsGuest {
			return nil, NewHTTPError(http.StatusConflict, "email already registered")
		}
		existing.PasswordHash = string(pwHash)
		existing.FirstName = strings.TrimSpace(req.FirstName)
		existing.LastName = strings.TrimSpace(req.LastName)
		existing.Phone = strings.TrimSpace(req.Phone)
		existing.IsGuest = false
		if err := u.customers.Update(ctx, existing); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		customer = existing
	} else {
		customer = &model.Customer{
			Email:        email,
			PasswordHash: string(pwHash),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         model.RoleCustomer,
			IsGuest:      false,
			IsActive:     true,
		}
		if err := u.customers.Create(ctx, customer); err != nil {
			if err == repo.ErrConflict {
				return nil, NewHTTPError(http.StatusConflict, "email already registered")
			}
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return &AuthRegisterResponse{Customer: toCustomerDTO(customer)}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	customer, err := u.customers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//ゲスト行はパスワードを持たないのでログイン不可
	if customer == nil || customer.IsGuest {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//停止ユーザーはログイン不可
	if !customer.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//last_login更新
	now := time.Now()
	customer.LastLoginAt = &now
	_ = u.customers.Update(ctx, customer)

	accessToken, expiresIn, err := u.issueAccessToken(customer)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthLoginResponse{
		Customer: toCustomerDTO(customer),
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, customerID int64) (*CustomerDTO, error) {
	if customerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	customer, err := u.customers.FindByID(ctx, customerID)
	if err != nil || customer == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !customer.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	dto := toCustomerDTO(customer)
	return &dto, nil
}

type PasswordResetRequestInput struct {
	Email string `json:"email"`
}

// RequestPasswordReset は6桁コードを発行してメールで送る。
// アカウントの存在は応答からは分からないようにする（常に同じメッセージ）。
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, in PasswordResetRequestInput) (*SuccessResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email required")
	}

	ok := &SuccessResponse{Message: "if the account exists, a reset code has been sent"}

	customer, err := u.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if customer == nil || customer.IsGuest || !customer.IsActive {
		return ok, nil
	}

	code, err := sixDigitCode()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	reset := &model.PasswordResetCode{
		Email:      email,
		Code:       code,
		ResetToken: uuid.NewString(),
		IsUsed:     false,
		CreatedAt:  time.Now(),
	}
	if err := u.resets.Create(ctx, reset); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
		code, int(model.PasswordResetCodeTTL.Minutes()))
	if err := u.mailer.Send(ctx, email, "Password reset code", body); err != nil {
		u.logger.Warn("password reset mail failed", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to send reset code")
	}

	return ok, nil
}

type PasswordResetConfirmInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, in PasswordResetConfirmInput) (*SuccessResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.Code) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email and code required")
	}
	if len(in.NewPassword) < 8 {
		return nil, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	reset, err := u.resets.FindLatestByEmail(ctx, email)
	if err == repo.ErrNotFound || reset == nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid or expired code")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if reset.IsUsed || reset.IsExpired(time.Now()) || reset.Code != strings.TrimSpace(in.Code) {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid or expired code")
	}

	customer, err := u.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if customer == nil || customer.IsGuest {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid or expired code")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	customer.PasswordHash = string(pwHash)
	if err := u.customers.Update(ctx, customer); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.resets.MarkUsed(ctx, reset.ID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &SuccessResponse{Message: "password updated"}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(customer *model.Customer) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  customer.ID,
		"role": string(customer.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toCustomerDTO(c *model.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Role:      string(c.Role),
		IsGuest:   c.IsGuest,
	}
}
