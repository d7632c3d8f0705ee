package housing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantAssignRoom(t *testing.T) {
	t.Run("applies lease terms and activates the tenant", func(t *testing.T) {
		tenant := NewTenant("Ana Reyes", "0917-000-0001", "ana@example.com")
		roomID := uuid.New()
		start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)
		rent := decimal.NewFromInt(4500)

		err := tenant.AssignRoom(roomID, LeaseTerms{StartDate: start, RentOverride: &rent})
		require.NoError(t, err)

		assert.Equal(t, &roomID, tenant.RoomID)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		require.NotNil(t, tenant.LeaseStartDate)
		assert.True(t, tenant.LeaseStartDate.Equal(start))
		assert.Nil(t, tenant.LeaseEndDate)

		override, ok := tenant.RentOverride()
		require.True(t, ok)
		assert.Equal(t, "4500.00", override.StringFixed(2))
	})

	t.Run("rejects a tenant who already has a room", func(t *testing.T) {
		tenant := NewTenant("Ben Cruz", "", "")
		require.NoError(t, tenant.AssignRoom(uuid.New(), LeaseTerms{StartDate: time.Now()}))
		err := tenant.AssignRoom(uuid.New(), LeaseTerms{StartDate: time.Now()})
		assert.ErrorIs(t, err, ErrTenantAlreadyHoused)
	})

	t.Run("rejects archived tenants", func(t *testing.T) {
		tenant := NewTenant("Carla Diaz", "", "")
		tenant.Archive()
		err := tenant.AssignRoom(uuid.New(), LeaseTerms{StartDate: time.Now()})
		assert.ErrorIs(t, err, ErrTenantArchived)
	})
}

func TestTenantClearRoom(t *testing.T) {
	tenant := NewTenant("Dino Santos", "", "")
	rent := decimal.NewFromInt(5000)
	deposit := decimal.NewFromInt(5000)
	end := time.Now().AddDate(1, 0, 0)
	require.NoError(t, tenant.AssignRoom(uuid.New(), LeaseTerms{
		StartDate:       time.Now(),
		EndDate:         &end,
		RentOverride:    &rent,
		DepositOverride: &deposit,
	}))

	tenant.ClearRoom()

	assert.Nil(t, tenant.RoomID)
	assert.Nil(t, tenant.LeaseStartDate)
	assert.Nil(t, tenant.LeaseEndDate)
	assert.Equal(t, TenantStatusInactive, tenant.Status)
	_, hasRent := tenant.RentOverride()
	assert.False(t, hasRent)
	_, hasDeposit := tenant.DepositOverride()
	assert.False(t, hasDeposit)
}

func TestTenantArchive(t *testing.T) {
	t.Run("archived tenant has no room and is inactive", func(t *testing.T) {
		tenant := NewTenant("Elsa Lim", "", "")
		require.NoError(t, tenant.AssignRoom(uuid.New(), LeaseTerms{StartDate: time.Now()}))

		tenant.Archive()

		assert.True(t, tenant.Archived)
		assert.Nil(t, tenant.RoomID)
		assert.Equal(t, TenantStatusInactive, tenant.Status)
	})

	t.Run("archiving twice is a no-op", func(t *testing.T) {
		tenant := NewTenant("Fely Ong", "", "")
		tenant.Archive()
		tenant.ClearDomainEvents()
		tenant.Archive()
		assert.Empty(t, tenant.GetDomainEvents())
	})
}

func TestTenantInLeaseWindow(t *testing.T) {
	jan := struct{ start, end time.Time }{
		start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local),
		end:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.Local),
	}

	newLeased := func(start time.Time, end *time.Time) *Tenant {
		tenant := NewTenant("T", "", "")
		tenant.LeaseStartDate = &start
		tenant.LeaseEndDate = end
		return tenant
	}

	t.Run("no lease start means no window", func(t *testing.T) {
		tenant := NewTenant("T", "", "")
		assert.False(t, tenant.InLeaseWindow(jan.start, jan.end))
	})

	t.Run("open-ended lease started before the period", func(t *testing.T) {
		tenant := newLeased(time.Date(2023, time.June, 1, 0, 0, 0, 0, time.Local), nil)
		assert.True(t, tenant.InLeaseWindow(jan.start, jan.end))
	})

	t.Run("lease starting mid-period is inside the window", func(t *testing.T) {
		tenant := newLeased(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local), nil)
		assert.True(t, tenant.InLeaseWindow(jan.start, jan.end))
	})

	t.Run("lease starting after the period is outside", func(t *testing.T) {
		tenant := newLeased(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local), nil)
		assert.False(t, tenant.InLeaseWindow(jan.start, jan.end))
	})

	t.Run("lease ended before the period is outside", func(t *testing.T) {
		end := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.Local)
		tenant := newLeased(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local), &end)
		assert.False(t, tenant.InLeaseWindow(jan.start, jan.end))
	})

	t.Run("lease ending mid-period is inside", func(t *testing.T) {
		end := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)
		tenant := newLeased(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local), &end)
		assert.True(t, tenant.InLeaseWindow(jan.start, jan.end))
	})
}
