package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM.
// Find methods return (nil, nil) on absence; callers decide whether that
// is an error.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// Save persists a new payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update persists changes to an existing payment
func (r *GormPaymentRepository) Update(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindRentForPeriod finds the rent payment covering the given period for a
// tenant. No unique index backs this lookup; it is the duplicate check for
// rent generation.
func (r *GormPaymentRepository) FindRentForPeriod(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Payment, error) {
	var payment billing.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ? AND period_start = ? AND period_end = ?",
			tenantID, billing.PaymentTypeRent, periodStart, periodEnd).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// HasPaidDeposit reports whether a paid deposit payment exists for the tenant
func (r *GormPaymentRepository) HasPaidDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("tenant_id = ? AND type = ? AND status = ?",
			tenantID, billing.PaymentTypeDeposit, billing.PaymentStatusPaid).
		Count(&count).Error
	return count > 0, err
}

// HasDeposit reports whether any deposit payment exists for the tenant
func (r *GormPaymentRepository) HasDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("tenant_id = ? AND type = ?", tenantID, billing.PaymentTypeDeposit).
		Count(&count).Error
	return count > 0, err
}

// FindByTenant finds all payments for a tenant, newest due date first
func (r *GormPaymentRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date DESC").
		Find(&payments).Error
	return payments, err
}

// FindPendingDueBefore finds pending payments whose due date has passed
func (r *GormPaymentRepository) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", billing.PaymentStatusPending, cutoff).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

// FindPendingDueBetween finds pending payments due within [from, to]
func (r *GormPaymentRepository) FindPendingDueBetween(ctx context.Context, from, to time.Time) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date >= ? AND due_date <= ?", billing.PaymentStatusPending, from, to).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
