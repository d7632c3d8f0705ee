package housing

import (
	"context"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationSummary reports the outcome of a reconciliation sweep
type ReconciliationSummary struct {
	RoomsFixed  int `json:"rooms_fixed"`
	RefsRemoved int `json:"refs_removed"`
}

// ArchivalSummary reports the outcome of an archival sweep, per entity
type ArchivalSummary struct {
	TenantsArchived int `json:"tenants_archived"`
	RoomsFixed      int `json:"rooms_fixed"`
	Failed          int `json:"failed"`
}

// IntegrityIssue describes one Room/Tenant reference mismatch
type IntegrityIssue struct {
	RoomID   uuid.UUID `json:"room_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// IntegrityReport lists the two classes of reference drift the verifier
// detects: archived tenants still listed in a room, and active tenants
// whose room does not list them back
type IntegrityReport struct {
	ArchivedInRoom []IntegrityIssue `json:"archived_in_room"`
	MissingBackRef []IntegrityIssue `json:"missing_back_reference"`
	RoomsScanned   int              `json:"rooms_scanned"`
	TenantsScanned int              `json:"tenants_scanned"`
}

// Clean returns true when no drift was found
func (r IntegrityReport) Clean() bool {
	return len(r.ArchivedInRoom) == 0 && len(r.MissingBackRef) == 0
}

// OccupancyService keeps Room and Tenant bidirectional references and
// occupancy counters consistent across assignment, removal, and archiving.
//
// Room and Tenant writes are not atomic with each other; a crash between
// the two leaves transient drift. The reconciliation sweep and integrity
// verifier exist to detect and repair that drift, not prevent it.
type OccupancyService struct {
	rooms    housing.RoomRepository
	tenants  housing.TenantRepository
	payments billing.PaymentRepository
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewOccupancyService creates a new OccupancyService
func NewOccupancyService(
	rooms housing.RoomRepository,
	tenants housing.TenantRepository,
	payments billing.PaymentRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OccupancyService {
	return &OccupancyService{
		rooms:    rooms,
		tenants:  tenants,
		payments: payments,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *OccupancyService) WithClock(now func() time.Time) *OccupancyService {
	s.now = now
	return s
}

// AssignTenant places a tenant in a room under the given lease terms.
// Rejects when the room is at capacity or the tenant already holds a room.
// When no deposit payment exists yet and a deposit amount is resolvable,
// a pending security deposit payment is created as part of the assignment.
func (s *OccupancyService) AssignTenant(ctx context.Context, roomID, tenantID uuid.UUID, terms housing.LeaseTerms) (*housing.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, housing.ErrRoomNotFound
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, housing.ErrTenantNotFound
	}

	if err := room.AddTenant(tenantID); err != nil {
		return nil, err
	}
	if err := tenant.AssignRoom(roomID, terms); err != nil {
		return nil, err
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("updating room %s: %w", roomID, err)
	}
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("updating tenant %s: %w", tenantID, err)
	}
	s.publishEvents(ctx, tenant)

	if err := s.ensureDepositPayment(ctx, tenant, room); err != nil {
		// The assignment itself stands; a missing deposit record is
		// recoverable through the backfill sweep.
		s.logger.Error("failed to create deposit payment on assignment",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("tenant assigned to room",
		zap.String("tenant_id", tenantID.String()),
		zap.String("room_number", room.Number),
		zap.Int("occupancy", room.Occupancy),
	)
	return room, nil
}

// RemoveTenant takes a tenant out of a room, clearing their lease fields
// and deactivating them. Rejects when the tenant is not in the room.
func (s *OccupancyService) RemoveTenant(ctx context.Context, roomID, tenantID uuid.UUID) (*housing.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, housing.ErrRoomNotFound
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, housing.ErrTenantNotFound
	}

	if err := room.RemoveTenant(tenantID); err != nil {
		return nil, err
	}
	tenant.ClearRoom()

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("updating room %s: %w", roomID, err)
	}
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("updating tenant %s: %w", tenantID, err)
	}
	s.publishEvents(ctx, tenant)

	s.logger.Info("tenant removed from room",
		zap.String("tenant_id", tenantID.String()),
		zap.String("room_number", room.Number),
		zap.Int("occupancy", room.Occupancy),
	)
	return room, nil
}

// ArchiveTenant archives a tenant. When the tenant currently holds a room
// they are removed from it in the same logical operation, so no window
// exists where an archived tenant still occupies a room slot.
func (s *OccupancyService) ArchiveTenant(ctx context.Context, tenantID uuid.UUID) (*housing.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, housing.ErrTenantNotFound
	}
	if tenant.Archived {
		return tenant, nil
	}

	if tenant.RoomID != nil {
		room, err := s.rooms.FindByID(ctx, *tenant.RoomID)
		if err != nil {
			return nil, err
		}
		if room != nil {
			if err := room.RemoveTenant(tenantID); err == nil {
				if err := s.rooms.Update(ctx, room); err != nil {
					return nil, fmt.Errorf("updating room %s: %w", room.ID, err)
				}
			}
		}
	}

	tenant.Archive()
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("updating tenant %s: %w", tenantID, err)
	}
	s.publishEvents(ctx, tenant)

	s.logger.Info("tenant archived", zap.String("tenant_id", tenantID.String()))
	return tenant, nil
}

// RemoveArchivedTenants is the reconciliation sweep: it strips archived
// tenants from every room still referencing them and recomputes occupancy
// for each affected room. Self-healing for drift introduced by write paths
// that bypass the archive cascade.
func (s *OccupancyService) RemoveArchivedTenants(ctx context.Context) (ReconciliationSummary, error) {
	var summary ReconciliationSummary

	archived, err := s.tenants.FindArchived(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing archived tenants: %w", err)
	}
	if len(archived) == 0 {
		return summary, nil
	}
	archivedSet := make(map[uuid.UUID]bool, len(archived))
	for _, t := range archived {
		archivedSet[t.ID] = true
	}

	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing rooms: %w", err)
	}

	for _, room := range rooms {
		removed := 0
		kept := room.Tenants[:0]
		for _, id := range room.Tenants {
			if archivedSet[id] {
				removed++
				continue
			}
			kept = append(kept, id)
		}
		if removed == 0 {
			continue
		}
		room.Tenants = kept
		room.RecomputeOccupancy()
		if err := s.rooms.Update(ctx, room); err != nil {
			s.logger.Error("failed to reconcile room",
				zap.String("room_id", room.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.RoomsFixed++
		summary.RefsRemoved += removed
	}

	if summary.RoomsFixed > 0 {
		s.logger.Warn("reconciliation sweep repaired room references",
			zap.Int("rooms_fixed", summary.RoomsFixed),
			zap.Int("refs_removed", summary.RefsRemoved),
		)
	}
	return summary, nil
}

// VerifyIntegrity is a read-only scan reporting Room/Tenant reference
// drift. Used for operational auditing, never enforcement.
func (s *OccupancyService) VerifyIntegrity(ctx context.Context) (IntegrityReport, error) {
	var report IntegrityReport

	tenants, err := s.tenants.FindAll(ctx)
	if err != nil {
		return report, fmt.Errorf("listing tenants: %w", err)
	}
	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		return report, fmt.Errorf("listing rooms: %w", err)
	}
	report.TenantsScanned = len(tenants)
	report.RoomsScanned = len(rooms)

	archivedSet := make(map[uuid.UUID]bool)
	for _, t := range tenants {
		if t.Archived {
			archivedSet[t.ID] = true
		}
	}
	roomsByID := make(map[uuid.UUID]*housing.Room, len(rooms))
	for _, r := range rooms {
		roomsByID[r.ID] = r
	}

	for _, room := range rooms {
		for _, id := range room.Tenants {
			if archivedSet[id] {
				report.ArchivedInRoom = append(report.ArchivedInRoom, IntegrityIssue{RoomID: room.ID, TenantID: id})
			}
		}
	}
	for _, tenant := range tenants {
		if tenant.Archived || tenant.RoomID == nil {
			continue
		}
		room := roomsByID[*tenant.RoomID]
		if room == nil || !room.HasTenant(tenant.ID) {
			report.MissingBackRef = append(report.MissingBackRef, IntegrityIssue{RoomID: *tenant.RoomID, TenantID: tenant.ID})
		}
	}
	return report, nil
}

// RunLeaseExpirySweep emits lease-expiry events for active tenants whose
// lease end falls within the 30-day notice window
func (s *OccupancyService) RunLeaseExpirySweep(ctx context.Context) error {
	now := s.now()

	tenants, err := s.tenants.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("listing active tenants: %w", err)
	}

	for _, tenant := range tenants {
		if tenant.LeaseEndDate == nil {
			continue
		}
		if tenant.LeaseEndDate.After(now.AddDate(0, 0, 30)) {
			continue
		}
		event := housing.NewLeaseExpiringEvent(tenant, *tenant.LeaseEndDate)
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish lease-expiry event",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// RunArchivalSweep archives inactive, room-less tenants whose lease ended
// before the retention cutoff, then runs the reconciliation sweep to strip
// any lingering room references
func (s *OccupancyService) RunArchivalSweep(ctx context.Context, retention time.Duration) (ArchivalSummary, error) {
	var summary ArchivalSummary
	cutoff := s.now().Add(-retention)

	candidates, err := s.tenants.FindArchivalCandidates(ctx, cutoff)
	if err != nil {
		return summary, fmt.Errorf("listing archival candidates: %w", err)
	}

	for _, tenant := range candidates {
		tenant.Archive()
		if err := s.tenants.Update(ctx, tenant); err != nil {
			summary.Failed++
			s.logger.Error("failed to archive tenant",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishEvents(ctx, tenant)
		summary.TenantsArchived++
	}

	recon, err := s.RemoveArchivedTenants(ctx)
	if err != nil {
		return summary, err
	}
	summary.RoomsFixed = recon.RoomsFixed

	s.logger.Info("archival sweep completed",
		zap.Int("tenants_archived", summary.TenantsArchived),
		zap.Int("rooms_fixed", summary.RoomsFixed),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// ensureDepositPayment creates a pending security deposit payment when the
// tenant has none and an amount is resolvable (tenant override, else room
// default; zero amounts are skipped)
func (s *OccupancyService) ensureDepositPayment(ctx context.Context, tenant *housing.Tenant, room *housing.Room) error {
	exists, err := s.payments.HasDeposit(ctx, tenant.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	amount, ok := tenant.DepositOverride()
	if !ok {
		amount = room.SecurityDeposit
	}
	if amount.IsZero() {
		return nil
	}

	payment, err := billing.NewDepositPayment(tenant.ID, &room.ID, amount, s.now(), nil)
	if err != nil {
		return err
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return err
	}
	s.publishEvents(ctx, payment)

	s.logger.Info("deposit payment created on assignment",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("amount", amount.StringFixed(2)),
	)
	return nil
}

func (s *OccupancyService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	aggregate.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
