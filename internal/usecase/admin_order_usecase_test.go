package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

type adminOrderFixture struct {
	orders    *CkoOrderRepoMock
	items     *CkoOrderItemRepoMock
	inventory *CkoInventoryRepoMock
	audit     *CpnAuditRepoMock
	uc        *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() *adminOrderFixture {
	f := &adminOrderFixture{
		orders:    new(CkoOrderRepoMock),
		items:     new(CkoOrderItemRepoMock),
		inventory: new(CkoInventoryRepoMock),
		audit:     new(CpnAuditRepoMock),
	}
	tx := &txManagerStub{repos: &txReposStub{
		orders:     f.orders,
		orderItems: f.items,
		inventory:  f.inventory,
	}}
	f.uc = usecase.NewAdminOrderUsecase(tx, f.orders, f.audit)
	return f
}

func pendingOrder(id int64) model.Order {
	return model.Order{
		ID:             id,
		OrderNumber:    "ord-0001",
		CustomerID:     42,
		SubtotalAmount: dec("1000"),
		TotalAmount:    dec("1000"),
		Status:         model.OrderStatusPending,
	}
}

func TestAdminOrderUsecase_UpdateStatus_RecordsAuditTransition(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10), nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusConfirmed).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceID == 10 &&
			l.BeforeJSON == `{"status":"pending"}` &&
			l.AfterJSON == `{"status":"confirmed"}`
	})).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatusConfirmed)
	assert.NoError(t, err)
	f.audit.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_CancelRestoresStock(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{ID: 1, OrderID: 10, VariantID: 5, Quantity: 2},
		{ID: 2, OrderID: 10, VariantID: 6, Quantity: 1},
	}, nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(5), int64(2)).Return(nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(6), int64(1)).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusCancelled).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatusCancelled)
	assert.NoError(t, err)
	f.inventory.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_ShippedCannotBeCancelled(t *testing.T) {
	f := newAdminOrderFixture()

	o := pendingOrder(10)
	o.Status = model.OrderStatusShipped
	f.orders.On("FindByID", mock.Anything, int64(10)).Return(o, nil)

	err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatusCancelled)
	assertErrContains(t, err, "shipped order cannot be cancelled")
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_TerminalStateIsFrozen(t *testing.T) {
	for _, terminal := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled} {
		f := newAdminOrderFixture()

		o := pendingOrder(10)
		o.Status = terminal
		f.orders.On("FindByID", mock.Anything, int64(10)).Return(o, nil)

		err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatusConfirmed)
		assertErrContains(t, err, "terminal state")

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, 409, he.Status)
	}
}

func TestAdminOrderUsecase_UpdateStatus_SameStatusConflicts(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(10)).Return(pendingOrder(10), nil)

	err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatusPending)
	assertErrContains(t, err, "already pending")
}

func TestAdminOrderUsecase_UpdateStatus_UnknownStatus(t *testing.T) {
	f := newAdminOrderFixture()

	err := f.uc.UpdateStatus(context.Background(), 1, 10, model.OrderStatus("refunded"))
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_OrderNotFound(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

	err := f.uc.UpdateStatus(context.Background(), 1, 404, model.OrderStatusConfirmed)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestAdminOrderUsecase_List_RejectsUnknownStatusFilter(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.List(context.Background(), 1, usecase.AdminListOrdersInput{
		Page: 1, Limit: 20, Status: "refunded",
	})
	assertErrContains(t, err, "invalid status")
	f.orders.AssertNotCalled(t, "ListAdmin", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_List_PassesFilter(t *testing.T) {
	f := newAdminOrderFixture()

	customerID := int64(42)
	f.orders.On("ListAdmin", mock.Anything, mock.MatchedBy(func(flt repo.AdminOrderListFilter) bool {
		return flt.Page == 2 && flt.Limit == 10 && flt.Status == "shipped" &&
			flt.CustomerID != nil && *flt.CustomerID == 42
	})).Return([]model.Order{pendingOrder(10)}, int64(1), nil)

	out, err := f.uc.List(context.Background(), 1, usecase.AdminListOrdersInput{
		Page: 2, Limit: 10, Status: "shipped", CustomerID: &customerID,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
}
