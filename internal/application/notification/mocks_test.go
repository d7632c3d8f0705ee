package notification

import (
	"context"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, room *housing.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *housing.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) FindAll(ctx context.Context) ([]*housing.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*housing.Room), args.Error(1)
}

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *housing.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *housing.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindActive(ctx context.Context) ([]*housing.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*housing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindArchived(ctx context.Context) ([]*housing.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*housing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context) ([]*housing.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*housing.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindArchivalCandidates(ctx context.Context, leaseEndedBefore time.Time) ([]*housing.Tenant, error) {
	args := m.Called(ctx, leaseEndedBefore)
	return args.Get(0).([]*housing.Tenant), args.Error(1)
}

// MockPaymentRepository is a mock implementation of billing.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindRentForPeriod(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Payment, error) {
	args := m.Called(ctx, tenantID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) HasPaidDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) HasDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*billing.Payment, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Payment, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingDueBetween(ctx context.Context, from, to time.Time) ([]*billing.Payment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*billing.Payment), args.Error(1)
}
