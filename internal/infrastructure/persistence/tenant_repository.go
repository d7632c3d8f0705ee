package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements housing.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Tenant, error) {
	var tenant housing.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// Save persists a new tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *housing.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

// Update persists changes to an existing tenant
func (r *GormTenantRepository) Update(ctx context.Context, tenant *housing.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

// FindActive finds all non-archived tenants with active status
func (r *GormTenantRepository) FindActive(ctx context.Context) ([]*housing.Tenant, error) {
	var tenants []*housing.Tenant
	err := r.db.WithContext(ctx).
		Where("archived = ? AND status = ?", false, housing.TenantStatusActive).
		Order("name ASC").
		Find(&tenants).Error
	return tenants, err
}

// FindArchived finds all archived tenants
func (r *GormTenantRepository) FindArchived(ctx context.Context) ([]*housing.Tenant, error) {
	var tenants []*housing.Tenant
	err := r.db.WithContext(ctx).
		Where("archived = ?", true).
		Find(&tenants).Error
	return tenants, err
}

// FindAll finds all tenants, archived included
func (r *GormTenantRepository) FindAll(ctx context.Context) ([]*housing.Tenant, error) {
	var tenants []*housing.Tenant
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&tenants).Error
	return tenants, err
}

// FindArchivalCandidates finds inactive, room-less, non-archived tenants
// whose lease ended before the cutoff. Tenants whose lease fields were
// cleared on removal fall back to their last update time.
func (r *GormTenantRepository) FindArchivalCandidates(ctx context.Context, leaseEndedBefore time.Time) ([]*housing.Tenant, error) {
	var tenants []*housing.Tenant
	err := r.db.WithContext(ctx).
		Where("archived = ? AND status = ? AND room_id IS NULL", false, housing.TenantStatusInactive).
		Where("(lease_end_date < ?) OR (lease_end_date IS NULL AND updated_at < ?)", leaseEndedBefore, leaseEndedBefore).
		Find(&tenants).Error
	return tenants, err
}

var _ housing.TenantRepository = (*GormTenantRepository)(nil)
