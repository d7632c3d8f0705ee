package housing

import (
	"context"
	"fmt"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateRoomInput carries the fields for registering a room
type CreateRoomInput struct {
	Number          string
	Capacity        int
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
}

// CreateTenantInput carries the fields for registering a tenant
type CreateTenantInput struct {
	Name  string
	Phone string
	Email string
}

// RegistryService manages the room and tenant catalog. Occupancy mutations
// live on OccupancyService; this service only creates and reads.
type RegistryService struct {
	rooms   housing.RoomRepository
	tenants housing.TenantRepository
	logger  *zap.Logger
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(
	rooms housing.RoomRepository,
	tenants housing.TenantRepository,
	logger *zap.Logger,
) *RegistryService {
	return &RegistryService{
		rooms:   rooms,
		tenants: tenants,
		logger:  logger,
	}
}

// CreateRoom registers a new room
func (s *RegistryService) CreateRoom(ctx context.Context, input CreateRoomInput) (*housing.Room, error) {
	room, err := housing.NewRoom(
		input.Number,
		input.Capacity,
		valueobject.NewMoneyPHP(input.MonthlyRent),
		valueobject.NewMoneyPHP(input.SecurityDeposit),
	)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("saving room %s: %w", input.Number, err)
	}

	s.logger.Info("room registered",
		zap.String("room_id", room.ID.String()),
		zap.String("number", room.Number),
		zap.Int("capacity", room.Capacity),
	)
	return room, nil
}

// GetRoom loads a room by ID
func (s *RegistryService) GetRoom(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, housing.ErrRoomNotFound
	}
	return room, nil
}

// ListRooms returns all rooms ordered by room number
func (s *RegistryService) ListRooms(ctx context.Context) ([]*housing.Room, error) {
	return s.rooms.FindAll(ctx)
}

// CreateTenant registers a new tenant with no room assignment
func (s *RegistryService) CreateTenant(ctx context.Context, input CreateTenantInput) (*housing.Tenant, error) {
	tenant := housing.NewTenant(input.Name, input.Phone, input.Email)
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("saving tenant %s: %w", input.Name, err)
	}

	s.logger.Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("name", tenant.Name),
	)
	return tenant, nil
}

// GetTenant loads a tenant by ID
func (s *RegistryService) GetTenant(ctx context.Context, id uuid.UUID) (*housing.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, housing.ErrTenantNotFound
	}
	return tenant, nil
}

// ListTenants returns tenants; archived ones only when includeArchived is set
func (s *RegistryService) ListTenants(ctx context.Context, includeArchived bool) ([]*housing.Tenant, error) {
	if includeArchived {
		return s.tenants.FindAll(ctx)
	}

	all, err := s.tenants.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tenants := make([]*housing.Tenant, 0, len(all))
	for _, t := range all {
		if !t.Archived {
			tenants = append(tenants, t)
		}
	}
	return tenants, nil
}
