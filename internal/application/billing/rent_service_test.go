package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newLeasedTenant(t *testing.T, room *housing.Room, rentOverride string) *housing.Tenant {
	t.Helper()
	tenant := housing.NewTenant("Maria Santos", "+63-900-000-0001", "maria@example.com")
	terms := housing.LeaseTerms{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if rentOverride != "" {
		d := decimal.RequireFromString(rentOverride)
		terms.RentOverride = &d
	}
	if err := room.AddTenant(tenant.ID); err != nil {
		t.Fatal(err)
	}
	if err := tenant.AssignRoom(room.ID, terms); err != nil {
		t.Fatal(err)
	}
	tenant.ClearDomainEvents()
	room.ClearDomainEvents()
	return tenant
}

func newTestRoom(t *testing.T, rent string) *housing.Room {
	t.Helper()
	room, err := housing.NewRoom("201", 2,
		valueobject.NewMoneyPHP(decimal.RequireFromString(rent)),
		valueobject.NewMoneyPHP(decimal.RequireFromString("5000")),
	)
	if err != nil {
		t.Fatal(err)
	}
	return room
}

func TestRentService_GenerateForTenant(t *testing.T) {
	target := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates rent payment for the target month", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		publisher := new(MockEventPublisher)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")

		payments.On("HasPaidDeposit", mock.Anything, tenant.ID).Return(true, nil)
		payments.On("FindRentForPeriod", mock.Anything, tenant.ID, mock.Anything, mock.Anything).Return(nil, nil)
		payments.On("Save", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		service := NewRentService(payments, new(MockTenantRepository), new(MockRoomRepository), publisher, zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.True(t, result.Created)
		payment := result.Payment
		assert.Equal(t, billing.PaymentTypeRent, payment.Type)
		assert.Equal(t, billing.PaymentStatusPending, payment.Status)
		assert.Equal(t, "6000.00", payment.Amount.StringFixed(2))
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), payment.DueDate)
		period := payment.Period()
		assert.NotNil(t, period)
		assert.Equal(t, "2024-02", period.Label())
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), period.End)
		payments.AssertExpectations(t)
	})

	t.Run("splits the room rent across occupants when no override is set", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		rooms := new(MockRoomRepository)
		publisher := new(MockEventPublisher)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "")
		if err := room.AddTenant(uuid.New()); err != nil {
			t.Fatal(err)
		}

		payments.On("HasPaidDeposit", mock.Anything, tenant.ID).Return(true, nil)
		payments.On("FindRentForPeriod", mock.Anything, tenant.ID, mock.Anything, mock.Anything).Return(nil, nil)
		payments.On("Save", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
		rooms.On("FindByID", mock.Anything, room.ID).Return(room, nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		service := NewRentService(payments, new(MockTenantRepository), rooms, publisher, zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "6000.00", result.Payment.Amount.StringFixed(2))
	})

	t.Run("skips when the deposit is unpaid", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")

		payments.On("HasPaidDeposit", mock.Anything, tenant.ID).Return(false, nil)

		service := NewRentService(payments, new(MockTenantRepository), new(MockRoomRepository), new(MockEventPublisher), zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, SkipReasonDepositUnpaid, result.Reason)
		payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips when a rent payment already covers the period", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")
		existing, err := billing.NewRentPayment(tenant.ID, tenant.RoomID,
			valueobject.NewMoneyPHP(decimal.RequireFromString("6000")), billing.MonthBounds(target), nil)
		if err != nil {
			t.Fatal(err)
		}

		payments.On("HasPaidDeposit", mock.Anything, tenant.ID).Return(true, nil)
		payments.On("FindRentForPeriod", mock.Anything, tenant.ID, mock.Anything, mock.Anything).Return(existing, nil)

		service := NewRentService(payments, new(MockTenantRepository), new(MockRoomRepository), new(MockEventPublisher), zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, SkipReasonAlreadyExists, result.Reason)
		payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips archived tenants before any repository call", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")
		tenant.Archive()

		service := NewRentService(payments, new(MockTenantRepository), new(MockRoomRepository), new(MockEventPublisher), zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.Equal(t, SkipReasonArchived, result.Reason)
		payments.AssertNotCalled(t, "HasPaidDeposit", mock.Anything, mock.Anything)
	})

	t.Run("skips when the lease window excludes the month", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")
		end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		tenant.LeaseEndDate = &end

		service := NewRentService(payments, new(MockTenantRepository), new(MockRoomRepository), new(MockEventPublisher), zap.NewNop())

		result, err := service.GenerateForTenant(context.Background(), tenant, target, nil)

		assert.NoError(t, err)
		assert.Equal(t, SkipReasonOutsideLease, result.Reason)
	})
}

func TestRentService_GenerateMonthly(t *testing.T) {
	target := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("a failing tenant does not abort the batch", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		tenants := new(MockTenantRepository)
		publisher := new(MockEventPublisher)
		room := newTestRoom(t, "12000")
		broken := newLeasedTenant(t, room, "6000")
		healthy := newLeasedTenant(t, room, "6000")

		tenants.On("FindActive", mock.Anything).Return([]*housing.Tenant{broken, healthy}, nil)
		payments.On("HasPaidDeposit", mock.Anything, broken.ID).Return(false, errors.New("connection reset"))
		payments.On("HasPaidDeposit", mock.Anything, healthy.ID).Return(true, nil)
		payments.On("FindRentForPeriod", mock.Anything, healthy.ID, mock.Anything, mock.Anything).Return(nil, nil)
		payments.On("Save", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		service := NewRentService(payments, tenants, new(MockRoomRepository), publisher, zap.NewNop())

		summary, err := service.GenerateMonthly(context.Background(), target, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Created)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, "2024-02", summary.Month)
	})

	t.Run("second run over the same month creates nothing", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		tenants := new(MockTenantRepository)
		room := newTestRoom(t, "12000")
		tenant := newLeasedTenant(t, room, "6000")
		existing, err := billing.NewRentPayment(tenant.ID, tenant.RoomID,
			valueobject.NewMoneyPHP(decimal.RequireFromString("6000")), billing.MonthBounds(target), nil)
		if err != nil {
			t.Fatal(err)
		}

		tenants.On("FindActive", mock.Anything).Return([]*housing.Tenant{tenant}, nil)
		payments.On("HasPaidDeposit", mock.Anything, tenant.ID).Return(true, nil)
		payments.On("FindRentForPeriod", mock.Anything, tenant.ID, mock.Anything, mock.Anything).Return(existing, nil)

		service := NewRentService(payments, tenants, new(MockRoomRepository), new(MockEventPublisher), zap.NewNop())

		summary, err := service.GenerateMonthly(context.Background(), target, nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.Created)
		assert.Len(t, summary.Skipped, 1)
		assert.Equal(t, SkipReasonAlreadyExists, summary.Skipped[0].Reason)
		payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
