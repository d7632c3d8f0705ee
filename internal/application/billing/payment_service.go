package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePaymentInput carries the fields for a manually created payment
type CreatePaymentInput struct {
	TenantID   uuid.UUID
	Amount     decimal.Decimal
	Type       billing.PaymentType
	DueDate    time.Time
	Notes      string
	RecordedBy *uuid.UUID
}

// BackfillSummary reports the outcome of a deposit backfill run
type BackfillSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// PaymentService owns payment status transitions and the deposit gate
type PaymentService struct {
	payments billing.PaymentRepository
	tenants  housing.TenantRepository
	rooms    housing.RoomRepository
	rents    *RentService
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments billing.PaymentRepository,
	tenants housing.TenantRepository,
	rooms housing.RoomRepository,
	rents *RentService,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		tenants:  tenants,
		rooms:    rooms,
		rents:    rents,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// GetPayment loads a payment, lazily refreshing its overdue status
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, billing.ErrPaymentNotFound
	}
	if payment.RefreshOverdue(s.now()) {
		if err := s.payments.Update(ctx, payment); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, payment)
	}
	return payment, nil
}

// MarkPaymentPaid settles a payment. Fails with a conflict if the payment
// is already paid. Settling a security deposit additionally triggers rent
// generation for that tenant for the current month: deposit settlement is
// the gate for rent billing.
func (s *PaymentService) MarkPaymentPaid(ctx context.Context, paymentID, actorID uuid.UUID, transactionRef string) (*billing.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, billing.ErrPaymentNotFound
	}

	now := s.now()
	payment.RefreshOverdue(now)
	if err := payment.MarkPaid(now, &actorID, transactionRef); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("updating payment %s: %w", paymentID, err)
	}
	s.publishEvents(ctx, payment)

	s.logger.Info("payment marked as paid",
		zap.String("payment_id", payment.ID.String()),
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("payment_type", payment.Type.String()),
	)

	if payment.IsDeposit() {
		result, err := s.rents.GenerateForTenantID(ctx, payment.TenantID, now, &actorID)
		if err != nil {
			// Rent generation failure must not undo the settlement; the
			// next scheduled generation picks the tenant up again.
			s.logger.Error("rent generation after deposit settlement failed",
				zap.String("tenant_id", payment.TenantID.String()),
				zap.Error(err),
			)
		} else if result.Created {
			s.logger.Info("rent generated after deposit settlement",
				zap.String("tenant_id", payment.TenantID.String()),
			)
		}
	}
	return payment, nil
}

// CreatePayment records a manual payment of any type. Rent payments go
// through the same per-period duplicate check as generated ones.
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*billing.Payment, error) {
	tenant, err := s.tenants.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, housing.ErrTenantNotFound
	}

	var period *billing.Period
	if input.Type == billing.PaymentTypeRent {
		p := billing.MonthBounds(input.DueDate)
		existing, err := s.payments.FindRentForPeriod(ctx, tenant.ID, p.Start, p.End)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, billing.ErrDuplicateRentPeriod
		}
		period = &p
	}

	amount := valueobject.NewMoneyPHP(input.Amount)
	payment, err := billing.NewPayment(tenant.ID, tenant.RoomID, amount, input.Type, input.DueDate, period, input.RecordedBy)
	if err != nil {
		return nil, err
	}
	payment.Notes = input.Notes

	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("saving payment: %w", err)
	}
	s.publishEvents(ctx, payment)
	return payment, nil
}

// ListTenantPayments returns a tenant's payments, newest due first, with
// overdue statuses refreshed in passing. A refresh that fails to persist is
// logged and the stale row returned as-is.
func (s *PaymentService) ListTenantPayments(ctx context.Context, tenantID uuid.UUID) ([]*billing.Payment, error) {
	payments, err := s.payments.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, payment := range payments {
		if payment.RefreshOverdue(now) {
			if err := s.payments.Update(ctx, payment); err != nil {
				s.logger.Warn("persisting overdue refresh failed",
					zap.String("payment_id", payment.ID.String()),
					zap.Error(err),
				)
				continue
			}
			s.publishEvents(ctx, payment)
		}
	}
	return payments, nil
}

// HasDepositPaid is the deposit gate: true iff a paid deposit payment
// exists for the tenant
func (s *PaymentService) HasDepositPaid(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	return s.payments.HasPaidDeposit(ctx, tenantID)
}

// BackfillDeposits scans active tenants without any deposit record and
// creates pending deposit payments retroactively. The amount comes from
// the tenant override, else the room default; tenants with no resolvable
// or zero amount are skipped.
func (s *PaymentService) BackfillDeposits(ctx context.Context, recordedBy *uuid.UUID) (BackfillSummary, error) {
	var summary BackfillSummary

	tenants, err := s.tenants.FindActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing active tenants: %w", err)
	}

	for _, tenant := range tenants {
		created, err := s.backfillDeposit(ctx, tenant, recordedBy)
		if err != nil {
			summary.Failed++
			s.logger.Error("deposit backfill failed for tenant",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Skipped++
		}
	}

	s.logger.Info("deposit backfill completed",
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *PaymentService) backfillDeposit(ctx context.Context, tenant *housing.Tenant, recordedBy *uuid.UUID) (bool, error) {
	exists, err := s.payments.HasDeposit(ctx, tenant.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	amount, ok, err := s.resolveDepositAmount(ctx, tenant)
	if err != nil {
		return false, err
	}
	if !ok || amount.IsZero() {
		return false, nil
	}

	payment, err := billing.NewDepositPayment(tenant.ID, tenant.RoomID, amount, billing.ClampDueDay(s.now()), recordedBy)
	if err != nil {
		return false, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return false, err
	}
	s.publishEvents(ctx, payment)
	return true, nil
}

// resolveDepositAmount resolves the security deposit owed by a tenant:
// tenant override when set, else the room default
func (s *PaymentService) resolveDepositAmount(ctx context.Context, tenant *housing.Tenant) (valueobject.Money, bool, error) {
	if override, ok := tenant.DepositOverride(); ok {
		return override, true, nil
	}
	if tenant.RoomID == nil {
		return valueobject.Money{}, false, nil
	}
	room, err := s.rooms.FindByID(ctx, *tenant.RoomID)
	if err != nil {
		return valueobject.Money{}, false, err
	}
	if room == nil {
		return valueobject.Money{}, false, nil
	}
	return room.SecurityDeposit, true, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	aggregate.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
