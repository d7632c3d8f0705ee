package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// reminderWindow is how far ahead the reminder sweep looks for pending
// payments; matches the widest notification tier (7 days)
const reminderWindow = 7 * 24 * time.Hour

// SweepSummary reports the outcome of an overdue or reminder sweep
type SweepSummary struct {
	Examined int `json:"examined"`
	Marked   int `json:"marked,omitempty"`
	Notified int `json:"notified,omitempty"`
	Failed   int `json:"failed"`
}

// SweepService runs the active payment sweeps. Overdue derivation is lazy
// on individual loads; these sweeps exist so reporting and reminders do not
// depend on a payment happening to be loaded.
type SweepService struct {
	payments billing.PaymentRepository
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewSweepService creates a new SweepService
func NewSweepService(payments billing.PaymentRepository, events shared.EventPublisher, logger *zap.Logger) *SweepService {
	return &SweepService{
		payments: payments,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *SweepService) WithClock(now func() time.Time) *SweepService {
	s.now = now
	return s
}

// RunOverdueSweep transitions every pending payment past its due date to
// overdue. A failure on one payment is logged and counted, never aborts
// the sweep.
func (s *SweepService) RunOverdueSweep(ctx context.Context) (SweepSummary, error) {
	now := s.now()
	var summary SweepSummary

	due, err := s.payments.FindPendingDueBefore(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("listing pending payments past due: %w", err)
	}
	summary.Examined = len(due)

	for _, payment := range due {
		if !payment.RefreshOverdue(now) {
			continue
		}
		if err := s.payments.Update(ctx, payment); err != nil {
			summary.Failed++
			s.logger.Error("failed to mark payment overdue",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishEvents(ctx, payment)
		summary.Marked++
	}

	s.logger.Info("overdue sweep completed",
		zap.Int("examined", summary.Examined),
		zap.Int("marked", summary.Marked),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// RunReminderSweep emits due-soon events for pending payments due within
// the reminder window. No payment state changes; the notification
// dispatcher decides the urgency tier per payment.
func (s *SweepService) RunReminderSweep(ctx context.Context) (SweepSummary, error) {
	now := s.now()
	var summary SweepSummary

	upcoming, err := s.payments.FindPendingDueBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return summary, fmt.Errorf("listing upcoming pending payments: %w", err)
	}
	summary.Examined = len(upcoming)

	for _, payment := range upcoming {
		event := billing.NewPaymentDueSoonEvent(payment)
		if err := s.events.Publish(ctx, event); err != nil {
			summary.Failed++
			s.logger.Error("failed to publish due-soon event",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.Notified++
	}

	s.logger.Info("reminder sweep completed",
		zap.Int("examined", summary.Examined),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *SweepService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	aggregate.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
