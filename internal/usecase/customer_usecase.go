package usecase

import (
	"context"
	"net/http"
	"strings"

	repo "storefront/internal/repository"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
}

// DI
func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

type AdminListCustomersInput struct {
	Page    int
	Limit   int
	Q       string
	IsGuest *bool
}

type CustomerListOutput struct {
	Items []CustomerDTO `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *CustomerUsecase) AdminListCustomers(ctx context.Context, adminUserID int64, in AdminListCustomersInput) (CustomerListOutput, error) {
	if adminUserID <= 0 {
		return CustomerListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	customers, total, err := u.customers.ListAdmin(ctx, repo.CustomerListFilter{
		Page:    in.Page,
		Limit:   in.Limit,
		Q:       strings.TrimSpace(in.Q),
		IsGuest: in.IsGuest,
	})
	if err != nil {
		return CustomerListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		items = append(items, toCustomerDTO(&customers[i]))
	}

	return CustomerListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}
