package persistence

import (
	"context"
	"testing"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRoomRepository_Roundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	room, err := housing.NewRoom("204", 2, php(t, "6000"), php(t, "5000"))
	require.NoError(t, err)
	first := uuid.New()
	second := uuid.New()
	require.NoError(t, room.AddTenant(first))
	require.NoError(t, room.AddTenant(second))
	room.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, room))

	found, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "204", found.Number)
	assert.Equal(t, 2, found.Capacity)
	assert.Equal(t, "6000.00", found.MonthlyRent.StringFixed(2))
	assert.Equal(t, "5000.00", found.SecurityDeposit.StringFixed(2))
	assert.Equal(t, 2, found.Occupancy)
	assert.True(t, found.HasTenant(first))
	assert.True(t, found.HasTenant(second))
	assert.True(t, found.IsFull())

	missing, err := repo.FindByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormRoomRepository_UpdatePersistsMembership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	room, err := housing.NewRoom("101", 3, php(t, "4500"), php(t, "4500"))
	require.NoError(t, err)
	tenantID := uuid.New()
	require.NoError(t, room.AddTenant(tenantID))
	room.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, room))

	require.NoError(t, room.RemoveTenant(tenantID))
	room.ClearDomainEvents()
	require.NoError(t, repo.Update(ctx, room))

	found, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.HasTenant(tenantID))
	assert.Equal(t, 0, found.Occupancy)
	assert.Empty(t, found.Tenants)
}

func TestGormRoomRepository_FindAllOrdersByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	for _, number := range []string{"305", "101", "204"} {
		room, err := housing.NewRoom(number, 2, php(t, "4500"), php(t, "4500"))
		require.NoError(t, err)
		room.ClearDomainEvents()
		require.NoError(t, repo.Save(ctx, room))
	}

	rooms, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, "204", rooms[1].Number)
	assert.Equal(t, "305", rooms[2].Number)
}
