package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentRepository is the persistence contract for payments.
//
// Find methods return (nil, nil) when no matching record exists; callers map
// absence to a domain not-found error where appropriate. Every operation is
// a single-document read or write; the engine issues no multi-row
// transactions.
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// Save persists a new payment
	Save(ctx context.Context, payment *Payment) error

	// Update persists changes to an existing payment
	Update(ctx context.Context, payment *Payment) error

	// FindRentForPeriod finds the rent payment covering the given period for
	// a tenant. This existence query is the sole duplicate-prevention
	// mechanism for monthly rent generation.
	FindRentForPeriod(ctx context.Context, tenantID uuid.UUID, periodStart, periodEnd time.Time) (*Payment, error)

	// HasPaidDeposit reports whether a paid deposit payment exists for the
	// tenant (the deposit gate)
	HasPaidDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error)

	// HasDeposit reports whether any deposit payment exists for the tenant,
	// regardless of status
	HasDeposit(ctx context.Context, tenantID uuid.UUID) (bool, error)

	// FindByTenant finds all payments for a tenant, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Payment, error)

	// FindPendingDueBefore finds pending payments whose due date has passed
	FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*Payment, error)

	// FindPendingDueBetween finds pending payments due within [from, to]
	FindPendingDueBetween(ctx context.Context, from, to time.Time) ([]*Payment, error)
}
