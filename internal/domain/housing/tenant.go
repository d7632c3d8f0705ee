package housing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantStatus represents the occupancy state of a tenant
type TenantStatus string

const (
	TenantStatusPending  TenantStatus = "pending"  // Registered, not yet assigned a room
	TenantStatusActive   TenantStatus = "active"   // Assigned a room, lease running
	TenantStatusInactive TenantStatus = "inactive" // Removed from their room or archived
)

// IsValid checks if the status is a valid TenantStatus
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusPending, TenantStatusActive, TenantStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of TenantStatus
func (s TenantStatus) String() string {
	return string(s)
}

// Housing-specific domain errors
var (
	ErrTenantNotFound      = shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
	ErrRoomNotFound        = shared.NewDomainError("ROOM_NOT_FOUND", "Room not found")
	ErrRoomAtCapacity      = shared.NewDomainError("ROOM_AT_CAPACITY", "Room is already at full capacity")
	ErrTenantAlreadyHoused = shared.NewDomainError("TENANT_ALREADY_HOUSED", "Tenant is already assigned to a room")
	ErrTenantNotInRoom     = shared.NewDomainError("TENANT_NOT_IN_ROOM", "Tenant is not assigned to this room")
	ErrTenantArchived      = shared.NewDomainError("TENANT_ARCHIVED", "Tenant is archived")
	ErrInvalidCapacity     = shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be between 1 and 4")
)

// LeaseTerms carries the lease fields applied on room assignment
type LeaseTerms struct {
	StartDate       time.Time
	EndDate         *time.Time // nil means open-ended
	RentOverride    *decimal.Decimal
	DepositOverride *decimal.Decimal
}

// Tenant is a boarding house occupant
type Tenant struct {
	shared.BaseAggregateRoot

	Name  string `gorm:"size:255;not null"`
	Phone string `gorm:"size:32"`
	Email string `gorm:"size:255"`

	RoomID         *uuid.UUID `gorm:"type:uuid;index"`
	LeaseStartDate *time.Time ``
	LeaseEndDate   *time.Time `` // nil means open-ended

	// MonthlyRent and SecurityDeposit override the room defaults when set
	MonthlyRent     decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	SecurityDeposit decimal.NullDecimal `gorm:"type:numeric(12,2)"`

	Status   TenantStatus `gorm:"size:20;not null;index"`
	Archived bool         `gorm:"not null;default:false;index"`
}

// TableName returns the database table name
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a tenant with no room assignment
func NewTenant(name, phone, email string) *Tenant {
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Email:             email,
		Status:            TenantStatusPending,
	}
}

// IsHoused returns true if the tenant currently holds a room
func (t *Tenant) IsHoused() bool {
	return t.RoomID != nil
}

// AssignRoom applies lease terms and activates the tenant. The caller is
// responsible for the matching Room mutation.
func (t *Tenant) AssignRoom(roomID uuid.UUID, terms LeaseTerms) error {
	if t.Archived {
		return ErrTenantArchived
	}
	if t.RoomID != nil {
		return ErrTenantAlreadyHoused
	}

	t.RoomID = &roomID
	start := terms.StartDate
	t.LeaseStartDate = &start
	t.LeaseEndDate = terms.EndDate
	if terms.RentOverride != nil {
		t.MonthlyRent = decimal.NullDecimal{Decimal: *terms.RentOverride, Valid: true}
	}
	if terms.DepositOverride != nil {
		t.SecurityDeposit = decimal.NullDecimal{Decimal: *terms.DepositOverride, Valid: true}
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewTenantAssignedEvent(t, roomID))
	return nil
}

// ClearRoom removes the tenant's room reference and lease fields and
// deactivates them. The caller is responsible for the matching Room mutation.
func (t *Tenant) ClearRoom() {
	roomID := t.RoomID
	t.RoomID = nil
	t.LeaseStartDate = nil
	t.LeaseEndDate = nil
	t.MonthlyRent = decimal.NullDecimal{}
	t.SecurityDeposit = decimal.NullDecimal{}
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()

	if roomID != nil {
		t.AddDomainEvent(NewTenantRemovedEvent(t, *roomID))
	}
}

// Archive marks the tenant archived. An archived tenant must have no room
// and be inactive; the room reference is cleared here so the invariant holds
// even when the cascade caller forgot to remove them from the room first
// (the reconciliation sweep repairs the room side).
func (t *Tenant) Archive() {
	if t.Archived {
		return
	}
	t.RoomID = nil
	t.Status = TenantStatusInactive
	t.Archived = true
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewTenantArchivedEvent(t))
}

// InLeaseWindow reports whether the tenant's lease overlaps the period
// [periodStart, periodEnd]: the lease has started by the period's end and
// has not ended before the period's start (open-ended leases never end).
func (t *Tenant) InLeaseWindow(periodStart, periodEnd time.Time) bool {
	if t.LeaseStartDate == nil {
		return false
	}
	if t.LeaseStartDate.After(periodEnd) {
		return false
	}
	if t.LeaseEndDate != nil && t.LeaseEndDate.Before(periodStart) {
		return false
	}
	return true
}

// RentOverride returns the tenant's monthly rent override, if set
func (t *Tenant) RentOverride() (valueobject.Money, bool) {
	if !t.MonthlyRent.Valid {
		return valueobject.Money{}, false
	}
	return valueobject.NewMoneyPHP(t.MonthlyRent.Decimal), true
}

// DepositOverride returns the tenant's security deposit override, if set
func (t *Tenant) DepositOverride() (valueobject.Money, bool) {
	if !t.SecurityDeposit.Valid {
		return valueobject.Money{}, false
	}
	return valueobject.NewMoneyPHP(t.SecurityDeposit.Decimal), true
}
