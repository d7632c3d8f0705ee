package housing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type names for the housing context
const (
	EventTypeTenantAssigned = "TenantAssigned"
	EventTypeTenantRemoved  = "TenantRemoved"
	EventTypeTenantArchived = "TenantArchived"
	EventTypeLeaseExpiring  = "LeaseExpiring"
)

// TenantAssignedEvent is raised when a tenant is assigned to a room
type TenantAssignedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID  `json:"tenant_id"`
	TenantName string     `json:"tenant_name"`
	RoomID     uuid.UUID  `json:"room_id"`
	LeaseStart *time.Time `json:"lease_start,omitempty"`
	LeaseEnd   *time.Time `json:"lease_end,omitempty"`
}

// EventType returns the event type name
func (e *TenantAssignedEvent) EventType() string {
	return EventTypeTenantAssigned
}

// NewTenantAssignedEvent creates a new TenantAssignedEvent
func NewTenantAssignedEvent(t *Tenant, roomID uuid.UUID) *TenantAssignedEvent {
	return &TenantAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantAssigned, "Tenant", t.ID),
		TenantID:        t.ID,
		TenantName:      t.Name,
		RoomID:          roomID,
		LeaseStart:      t.LeaseStartDate,
		LeaseEnd:        t.LeaseEndDate,
	}
}

// TenantRemovedEvent is raised when a tenant is removed from a room
type TenantRemovedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	RoomID     uuid.UUID `json:"room_id"`
}

// EventType returns the event type name
func (e *TenantRemovedEvent) EventType() string {
	return EventTypeTenantRemoved
}

// NewTenantRemovedEvent creates a new TenantRemovedEvent
func NewTenantRemovedEvent(t *Tenant, roomID uuid.UUID) *TenantRemovedEvent {
	return &TenantRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantRemoved, "Tenant", t.ID),
		TenantID:        t.ID,
		TenantName:      t.Name,
		RoomID:          roomID,
	}
}

// TenantArchivedEvent is raised when a tenant is archived
type TenantArchivedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
}

// EventType returns the event type name
func (e *TenantArchivedEvent) EventType() string {
	return EventTypeTenantArchived
}

// NewTenantArchivedEvent creates a new TenantArchivedEvent
func NewTenantArchivedEvent(t *Tenant) *TenantArchivedEvent {
	return &TenantArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantArchived, "Tenant", t.ID),
		TenantID:        t.ID,
		TenantName:      t.Name,
	}
}

// LeaseExpiringEvent is raised by the lease-expiry sweep for active tenants
// whose lease end falls within the notice window
type LeaseExpiringEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	LeaseEnd   time.Time `json:"lease_end"`
}

// EventType returns the event type name
func (e *LeaseExpiringEvent) EventType() string {
	return EventTypeLeaseExpiring
}

// NewLeaseExpiringEvent creates a new LeaseExpiringEvent
func NewLeaseExpiringEvent(t *Tenant, leaseEnd time.Time) *LeaseExpiringEvent {
	return &LeaseExpiringEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseExpiring, "Tenant", t.ID),
		TenantID:        t.ID,
		TenantName:      t.Name,
		LeaseEnd:        leaseEnd,
	}
}
