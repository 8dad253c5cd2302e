package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

// DI
func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type AddressDTO struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
	CreatedAt  string `json:"created_at"`
}

func (in AddressInput) check() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return NewHTTPError(http.StatusBadRequest, "first_name required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return NewHTTPError(http.StatusBadRequest, "address required")
	}
	if strings.TrimSpace(in.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "city required")
	}
	return nil
}

func (u *AddressUsecase) List(ctx context.Context, customerID int64) ([]AddressDTO, error) {
	if customerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AddressDTO, 0, len(items))
	for _, a := range items {
		out = append(out, toAddressDTO(a))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, customerID int64, in AddressInput) (AddressDTO, error) {
	if customerID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.check(); err != nil {
		return AddressDTO{}, err
	}

	created, err := u.addresses.Create(ctx, model.CustomerAddress{
		CustomerID: customerID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
	})
	if err != nil {
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault {
		if err := u.addresses.SetDefault(ctx, customerID, created.ID); err != nil {
			return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.IsDefault = true
	}

	return toAddressDTO(created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, customerID int64, addressID int64, in AddressInput) (AddressDTO, error) {
	if customerID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return AddressDTO{}, NewHTTPError(http.StatusBadRequest, "invalid address id")
	}
	if err := in.check(); err != nil {
		return AddressDTO{}, err
	}

	if err := u.mustOwn(ctx, addressID, customerID); err != nil {
		return AddressDTO{}, err
	}

	next := model.CustomerAddress{
		ID:         addressID,
		CustomerID: customerID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		UpdatedAt:  time.Now(),
	}
	if err := u.addresses.Update(ctx, next); err != nil {
		if err == repo.ErrNotFound {
			return AddressDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault {
		if err := u.addresses.SetDefault(ctx, customerID, addressID); err != nil {
			return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	updated, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return AddressDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toAddressDTO(updated), nil
}

func (u *AddressUsecase) Delete(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid address id")
	}

	if err := u.mustOwn(ctx, addressID, customerID); err != nil {
		return err
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid address id")
	}

	if err := u.mustOwn(ctx, addressID, customerID); err != nil {
		return err
	}

	if err := u.addresses.SetDefault(ctx, customerID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 他人の住所は404で返す（存在も教えない）
func (u *AddressUsecase) mustOwn(ctx context.Context, addressID int64, customerID int64) error {
	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}

func toAddressDTO(a model.CustomerAddress) AddressDTO {
	return AddressDTO{
		ID:         a.ID,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Phone:      a.Phone,
		Address:    a.Address,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
