package persistence

import (
	"context"
	"errors"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoomRepository implements housing.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID finds a room by its ID
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	var room housing.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// Save persists a new room
func (r *GormRoomRepository) Save(ctx context.Context, room *housing.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// Update persists changes to an existing room
func (r *GormRoomRepository) Update(ctx context.Context, room *housing.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// FindAll finds all rooms ordered by room number
func (r *GormRoomRepository) FindAll(ctx context.Context) ([]*housing.Room, error) {
	var rooms []*housing.Room
	err := r.db.WithContext(ctx).
		Order("number ASC").
		Find(&rooms).Error
	return rooms, err
}

var _ housing.RoomRepository = (*GormRoomRepository)(nil)
