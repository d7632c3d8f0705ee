package scheduler

import (
	"context"
	"sync"
	"time"

	appbilling "github.com/boardinghouse/backend/internal/application/billing"
	apphousing "github.com/boardinghouse/backend/internal/application/housing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// RentGenerator creates the monthly rent charges
type RentGenerator interface {
	GenerateMonthly(ctx context.Context, target time.Time, recordedBy *uuid.UUID) (appbilling.GenerationSummary, error)
}

// PaymentSweeper runs the overdue and reminder sweeps over pending payments
type PaymentSweeper interface {
	RunOverdueSweep(ctx context.Context) (appbilling.SweepSummary, error)
	RunReminderSweep(ctx context.Context) (appbilling.SweepSummary, error)
}

// DepositBackfiller creates missing deposit charges for housed tenants
type DepositBackfiller interface {
	BackfillDeposits(ctx context.Context, recordedBy *uuid.UUID) (appbilling.BackfillSummary, error)
}

// HousingSweeper runs the occupancy maintenance sweeps
type HousingSweeper interface {
	RunLeaseExpirySweep(ctx context.Context) error
	RunArchivalSweep(ctx context.Context, retention time.Duration) (apphousing.ArchivalSummary, error)
	RemoveArchivedTenants(ctx context.Context) (apphousing.ReconciliationSummary, error)
}

// BillingSchedulerConfig holds configuration for the daily billing scheduler
type BillingSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// CronHour is the hour (0-23) to run the daily jobs
	CronHour int
	// CronMinute is the minute (0-59) to run the daily jobs
	CronMinute int
	// JobTimeout is the maximum time a single job can run
	JobTimeout time.Duration
	// GenerationDay is the day of month (1-28) rent charges are generated
	GenerationDay int
	// ArchivalRetention is how long a departed tenant is kept before archival
	ArchivalRetention time.Duration
}

// DefaultBillingSchedulerConfig returns default scheduler configuration.
// Defaults to running at 2:00 AM daily, generating rent on the 1st.
func DefaultBillingSchedulerConfig() BillingSchedulerConfig {
	return BillingSchedulerConfig{
		Enabled:           true,
		CronHour:          2,
		CronMinute:        0,
		JobTimeout:        10 * time.Minute,
		GenerationDay:     1,
		ArchivalRetention: 180 * 24 * time.Hour,
	}
}

// BillingScheduler runs the daily billing and housing maintenance jobs:
// overdue marking, payment reminders, lease expiry checks, occupancy
// reconciliation, tenant archival, and, on the configured day of month,
// rent generation with a deposit backfill pass.
type BillingScheduler struct {
	config  BillingSchedulerConfig
	rents   RentGenerator
	sweeps  PaymentSweeper
	deposit DepositBackfiller
	housing HousingSweeper
	logger  *zap.Logger
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewBillingScheduler creates a daily billing scheduler
func NewBillingScheduler(
	config BillingSchedulerConfig,
	rents RentGenerator,
	sweeps PaymentSweeper,
	deposit DepositBackfiller,
	housing HousingSweeper,
	logger *zap.Logger,
) *BillingScheduler {
	return &BillingScheduler{
		config:  config,
		rents:   rents,
		sweeps:  sweeps,
		deposit: deposit,
		housing: housing,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the scheduler's clock. Test hook.
func (s *BillingScheduler) WithClock(now func() time.Time) *BillingScheduler {
	s.now = now
	return s
}

// Start starts the scheduler loop
func (s *BillingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Billing scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Int("generation_day", s.config.GenerationDay),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler loop
func (s *BillingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Billing scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Billing scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main scheduler loop
func (s *BillingScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.shouldRun(s.now()) {
				s.runDailyJobs(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the daily jobs should run at the given time
func (s *BillingScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next run time
func (s *BillingScheduler) calculateNextRunTime() {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runDailyJobs runs the full daily maintenance pass. Jobs run sequentially
// and a failing job never blocks the ones after it.
func (s *BillingScheduler) runDailyJobs(ctx context.Context) {
	now := s.now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	s.logger.Info("Starting daily billing jobs")

	if now.Day() == s.config.GenerationDay {
		s.runJob(ctx, "deposit_backfill", func(ctx context.Context) error {
			summary, err := s.deposit.BackfillDeposits(ctx, nil)
			if err != nil {
				return err
			}
			s.logger.Info("Deposit backfill finished",
				zap.Int("created", summary.Created),
				zap.Int("skipped", summary.Skipped),
				zap.Int("failed", summary.Failed),
			)
			return nil
		})
		s.runJob(ctx, "rent_generation", func(ctx context.Context) error {
			summary, err := s.rents.GenerateMonthly(ctx, now, nil)
			if err != nil {
				return err
			}
			s.logger.Info("Rent generation finished",
				zap.String("month", summary.Month),
				zap.Int("created", summary.Created),
				zap.Int("skipped", len(summary.Skipped)),
				zap.Int("failed", summary.Failed),
			)
			return nil
		})
	}

	s.runJob(ctx, "overdue_sweep", func(ctx context.Context) error {
		summary, err := s.sweeps.RunOverdueSweep(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("Overdue sweep finished",
			zap.Int("examined", summary.Examined),
			zap.Int("marked", summary.Marked),
			zap.Int("failed", summary.Failed),
		)
		return nil
	})

	s.runJob(ctx, "reminder_sweep", func(ctx context.Context) error {
		summary, err := s.sweeps.RunReminderSweep(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("Reminder sweep finished",
			zap.Int("examined", summary.Examined),
			zap.Int("notified", summary.Notified),
			zap.Int("failed", summary.Failed),
		)
		return nil
	})

	s.runJob(ctx, "lease_expiry_sweep", func(ctx context.Context) error {
		return s.housing.RunLeaseExpirySweep(ctx)
	})

	s.runJob(ctx, "occupancy_reconciliation", func(ctx context.Context) error {
		summary, err := s.housing.RemoveArchivedTenants(ctx)
		if err != nil {
			return err
		}
		if summary.RefsRemoved > 0 {
			s.logger.Warn("Occupancy reconciliation removed stale references",
				zap.Int("rooms_fixed", summary.RoomsFixed),
				zap.Int("refs_removed", summary.RefsRemoved),
			)
		}
		return nil
	})

	s.runJob(ctx, "archival_sweep", func(ctx context.Context) error {
		summary, err := s.housing.RunArchivalSweep(ctx, s.config.ArchivalRetention)
		if err != nil {
			return err
		}
		if summary.TenantsArchived > 0 || summary.Failed > 0 {
			s.logger.Info("Archival sweep finished",
				zap.Int("tenants_archived", summary.TenantsArchived),
				zap.Int("rooms_fixed", summary.RoomsFixed),
				zap.Int("failed", summary.Failed),
			)
		}
		return nil
	})

	s.logger.Info("Daily billing jobs finished")
}

// runJob runs a single named job under the configured timeout
func (s *BillingScheduler) runJob(ctx context.Context, name string, fn func(context.Context) error) {
	jobCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	if err := fn(jobCtx); err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Error(err),
		)
	}
}

// TriggerDailyRun triggers a manual run of the daily jobs.
// Uses a background context so the run outlives the HTTP request that asked for it.
func (s *BillingScheduler) TriggerDailyRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runDailyJobs(context.Background())
	return nil
}

// GetStatus returns the current status of the scheduler
func (s *BillingScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":        s.config.Enabled,
		"is_running":     s.isRunning,
		"cron_hour":      s.config.CronHour,
		"cron_minute":    s.config.CronMinute,
		"generation_day": s.config.GenerationDay,
		"last_run_at":    s.lastRunAt,
		"next_run_at":    s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *BillingScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}
