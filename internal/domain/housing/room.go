package housing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Room capacity bounds
const (
	MinCapacity = 1
	MaxCapacity = 4
)

// RoomStatus represents the derived occupancy status of a room
type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available" // No tenants assigned
	RoomStatusOccupied  RoomStatus = "occupied"  // At least one tenant assigned
)

// IsValid checks if the status is a valid RoomStatus
func (s RoomStatus) IsValid() bool {
	return s == RoomStatusAvailable || s == RoomStatusOccupied
}

// String returns the string representation of RoomStatus
func (s RoomStatus) String() string {
	return string(s)
}

// TenantIDs is an ordered set of tenant references stored as a JSON column
type TenantIDs []uuid.UUID

// Value implements driver.Valuer for database storage as JSON
func (ids TenantIDs) Value() (driver.Value, error) {
	if ids == nil {
		return "[]", nil
	}
	return json.Marshal(ids)
}

// Scan implements sql.Scanner for database retrieval
func (ids *TenantIDs) Scan(value any) error {
	if value == nil {
		*ids = TenantIDs{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TenantIDs", value)
	}
	if len(bytes) == 0 {
		*ids = TenantIDs{}
		return nil
	}
	return json.Unmarshal(bytes, ids)
}

// Contains reports whether the set holds the given tenant
func (ids TenantIDs) Contains(tenantID uuid.UUID) bool {
	return slices.Contains(ids, tenantID)
}

// Room is a boarding house room
type Room struct {
	shared.BaseAggregateRoot

	Number   string `gorm:"size:32;not null;uniqueIndex"`
	Capacity int    `gorm:"not null"`

	Tenants   TenantIDs  `gorm:"type:jsonb;not null"`
	Occupancy int        `gorm:"not null"`
	Status    RoomStatus `gorm:"size:20;not null;index"`

	MonthlyRent     valueobject.Money `gorm:"type:numeric(12,2);not null"`
	SecurityDeposit valueobject.Money `gorm:"type:numeric(12,2);not null"`
}

// TableName returns the database table name
func (Room) TableName() string {
	return "rooms"
}

// NewRoom creates an empty room
func NewRoom(number string, capacity int, monthlyRent, securityDeposit valueobject.Money) (*Room, error) {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return nil, ErrInvalidCapacity
	}
	r := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Capacity:          capacity,
		Tenants:           TenantIDs{},
		MonthlyRent:       monthlyRent,
		SecurityDeposit:   securityDeposit,
	}
	r.RecomputeOccupancy()
	return r, nil
}

// RecomputeOccupancy re-derives the occupancy count and status from the
// tenant set. Pure with respect to its inputs; any nonzero occupancy makes
// the room occupied regardless of remaining capacity.
func (r *Room) RecomputeOccupancy() {
	r.Occupancy = len(r.Tenants)
	if r.Occupancy == 0 {
		r.Status = RoomStatusAvailable
	} else {
		r.Status = RoomStatusOccupied
	}
}

// IsFull reports whether the room is at capacity
func (r *Room) IsFull() bool {
	return len(r.Tenants) >= r.Capacity
}

// HasTenant reports whether the tenant is in the room's tenant set
func (r *Room) HasTenant(tenantID uuid.UUID) bool {
	return r.Tenants.Contains(tenantID)
}

// AddTenant appends a tenant to the room's tenant set and recomputes
// occupancy and status
func (r *Room) AddTenant(tenantID uuid.UUID) error {
	if r.IsFull() {
		return ErrRoomAtCapacity
	}
	if r.HasTenant(tenantID) {
		return ErrTenantAlreadyHoused
	}
	r.Tenants = append(r.Tenants, tenantID)
	r.RecomputeOccupancy()
	r.UpdatedAt = time.Now()
	return nil
}

// RemoveTenant strips a tenant from the room's tenant set and recomputes
// occupancy and status
func (r *Room) RemoveTenant(tenantID uuid.UUID) error {
	idx := slices.Index(r.Tenants, tenantID)
	if idx < 0 {
		return ErrTenantNotInRoom
	}
	r.Tenants = slices.Delete(r.Tenants, idx, idx+1)
	r.RecomputeOccupancy()
	r.UpdatedAt = time.Now()
	return nil
}
