package housing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository is the persistence contract for tenants.
// Find methods return (nil, nil) when no matching record exists.
type TenantRepository interface {
	// FindByID finds a tenant by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// Save persists a new tenant
	Save(ctx context.Context, tenant *Tenant) error

	// Update persists changes to an existing tenant
	Update(ctx context.Context, tenant *Tenant) error

	// FindActive finds all non-archived tenants with active status
	FindActive(ctx context.Context) ([]*Tenant, error)

	// FindArchived finds all archived tenants
	FindArchived(ctx context.Context) ([]*Tenant, error)

	// FindAll finds all tenants, archived included
	FindAll(ctx context.Context) ([]*Tenant, error)

	// FindArchivalCandidates finds inactive, room-less, non-archived tenants
	// whose lease ended before the cutoff
	FindArchivalCandidates(ctx context.Context, leaseEndedBefore time.Time) ([]*Tenant, error)
}

// RoomRepository is the persistence contract for rooms.
// Find methods return (nil, nil) when no matching record exists.
type RoomRepository interface {
	// FindByID finds a room by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// Save persists a new room
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room
	Update(ctx context.Context, room *Room) error

	// FindAll finds all rooms
	FindAll(ctx context.Context) ([]*Room, error)
}
