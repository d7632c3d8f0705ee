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
	"go.uber.org/zap"
)

// Skip reasons reported by the rent generator
const (
	SkipReasonDepositUnpaid = "Deposit not paid"
	SkipReasonArchived      = "Tenant is archived"
	SkipReasonNotActive     = "Tenant is not active"
	SkipReasonOutsideLease  = "Lease window excludes target month"
	SkipReasonAlreadyExists = "Rent payment already exists for this period"
)

// GenerationResult reports the outcome of rent generation for one tenant
type GenerationResult struct {
	Created bool             `json:"created"`
	Reason  string           `json:"reason,omitempty"`
	Payment *billing.Payment `json:"-"`
}

// SkippedTenant records one tenant the batch left out and why
type SkippedTenant struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Reason   string    `json:"reason"`
}

// GenerationSummary reports the outcome of a monthly generation batch
type GenerationSummary struct {
	Created int             `json:"created"`
	Month   string          `json:"month"`
	Skipped []SkippedTenant `json:"skipped,omitempty"`
	Failed  int             `json:"failed"`
}

// RentService derives monthly rent charges from lease and room state.
//
// Generation is idempotent per (tenant, calendar month): the pre-insert
// existence query is the sole duplicate-prevention mechanism. Two
// invocations racing on the same tenant and month can both pass the check
// before either inserts; that narrow race is accepted rather than closed
// with a unique index, because closing it would change long-standing
// production behavior.
type RentService struct {
	payments billing.PaymentRepository
	tenants  housing.TenantRepository
	rooms    housing.RoomRepository
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewRentService creates a new RentService
func NewRentService(
	payments billing.PaymentRepository,
	tenants housing.TenantRepository,
	rooms housing.RoomRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RentService {
	return &RentService{
		payments: payments,
		tenants:  tenants,
		rooms:    rooms,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *RentService) WithClock(now func() time.Time) *RentService {
	s.now = now
	return s
}

// GenerateForTenant creates the rent payment owed by a single tenant for
// the month containing target. Gate failures (deposit unpaid, tenant not
// active, lease window excludes the month, period already billed) are
// reported as a skip with a reason, not an error; an unresolvable rent
// amount is a validation error.
func (s *RentService) GenerateForTenant(ctx context.Context, tenant *housing.Tenant, target time.Time, recordedBy *uuid.UUID) (GenerationResult, error) {
	period := billing.MonthBounds(target)

	if tenant.Archived {
		return GenerationResult{Reason: SkipReasonArchived}, nil
	}
	if tenant.Status != housing.TenantStatusActive {
		return GenerationResult{Reason: SkipReasonNotActive}, nil
	}
	if !tenant.InLeaseWindow(period.Start, period.End) {
		return GenerationResult{Reason: SkipReasonOutsideLease}, nil
	}

	depositPaid, err := s.payments.HasPaidDeposit(ctx, tenant.ID)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("checking deposit gate for tenant %s: %w", tenant.ID, err)
	}
	if !depositPaid {
		return GenerationResult{Reason: SkipReasonDepositUnpaid}, nil
	}

	amount, err := s.resolveRentAmount(ctx, tenant)
	if err != nil {
		return GenerationResult{}, err
	}

	// Idempotency check. There is no unique index backing this; see the
	// service doc comment.
	existing, err := s.payments.FindRentForPeriod(ctx, tenant.ID, period.Start, period.End)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("checking existing rent for tenant %s: %w", tenant.ID, err)
	}
	if existing != nil {
		return GenerationResult{Reason: SkipReasonAlreadyExists}, nil
	}

	payment, err := billing.NewRentPayment(tenant.ID, tenant.RoomID, amount, period, recordedBy)
	if err != nil {
		return GenerationResult{}, err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return GenerationResult{}, fmt.Errorf("saving rent payment for tenant %s: %w", tenant.ID, err)
	}
	s.publishEvents(ctx, payment)

	s.logger.Info("rent payment generated",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("month", period.Label()),
		zap.String("amount", amount.StringFixed(2)),
	)
	return GenerationResult{Created: true, Payment: payment}, nil
}

// GenerateForTenantID loads the tenant and generates their rent charge for
// the month containing target
func (s *RentService) GenerateForTenantID(ctx context.Context, tenantID uuid.UUID, target time.Time, recordedBy *uuid.UUID) (GenerationResult, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return GenerationResult{}, err
	}
	if tenant == nil {
		return GenerationResult{}, housing.ErrTenantNotFound
	}
	return s.GenerateForTenant(ctx, tenant, target, recordedBy)
}

// GenerateMonthly runs rent generation for every active tenant for the
// month containing target (the current month when target is zero).
//
// Safely re-runnable: a second invocation for the same month only creates
// records missing after partial success. A failure on one tenant is logged
// and counted, never aborts the batch.
func (s *RentService) GenerateMonthly(ctx context.Context, target time.Time, recordedBy *uuid.UUID) (GenerationSummary, error) {
	if target.IsZero() {
		target = s.now()
	}
	period := billing.MonthBounds(target)
	summary := GenerationSummary{Month: period.Label()}

	tenants, err := s.tenants.FindActive(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing active tenants: %w", err)
	}

	// Tenants are processed sequentially to keep audit ordering
	// deterministic and bound connection usage.
	for _, tenant := range tenants {
		result, err := s.GenerateForTenant(ctx, tenant, target, recordedBy)
		if err != nil {
			summary.Failed++
			s.logger.Error("rent generation failed for tenant",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("month", summary.Month),
				zap.Error(err),
			)
			continue
		}
		if result.Created {
			summary.Created++
			continue
		}
		summary.Skipped = append(summary.Skipped, SkippedTenant{TenantID: tenant.ID, Reason: result.Reason})
	}

	s.logger.Info("monthly rent generation completed",
		zap.String("month", summary.Month),
		zap.Int("created", summary.Created),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// resolveRentAmount resolves the tenant's monthly rent: the tenant override
// when set, otherwise the room's monthly rent split evenly across its
// current occupants.
func (s *RentService) resolveRentAmount(ctx context.Context, tenant *housing.Tenant) (valueobject.Money, error) {
	if override, ok := tenant.RentOverride(); ok {
		return override, nil
	}
	if tenant.RoomID == nil {
		return valueobject.Money{}, billing.ErrAmountNotResolvable
	}
	room, err := s.rooms.FindByID(ctx, *tenant.RoomID)
	if err != nil {
		return valueobject.Money{}, fmt.Errorf("loading room %s: %w", tenant.RoomID, err)
	}
	if room == nil {
		return valueobject.Money{}, billing.ErrAmountNotResolvable
	}

	occupants := len(room.Tenants)
	if occupants == 0 {
		occupants = 1
	}
	share, err := room.MonthlyRent.SplitEvenly(occupants)
	if err != nil {
		return valueobject.Money{}, err
	}
	if share.IsZero() {
		return valueobject.Money{}, billing.ErrAmountNotResolvable
	}
	return share, nil
}

func (s *RentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	aggregate.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
