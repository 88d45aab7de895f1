package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	roomDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/room"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	HotelID    int64     `gorm:"not null;uniqueIndex:idx_rooms_hotel_number"`
	RoomNumber string    `gorm:"size:20;not null;uniqueIndex:idx_rooms_hotel_number"`
	RoomType   string    `gorm:"size:50"`
	PriceCents int64     `gorm:"not null;default:0"`
	Status     string    `gorm:"size:20;not null;default:'empty';index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room; a missing row is a RoomNotFound error.
func (r *GormRoomRepository) FindByID(ctx context.Context, id int64) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindRoomNotFound, "room", id)
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toRoomDomain(&model), nil
}

// FindByHotel lists a hotel's rooms ordered by room number.
func (r *GormRoomRepository) FindByHotel(ctx context.Context, hotelID int64) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("room_number ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotel rooms: %w", err)
	}
	return toRoomDomains(models), nil
}

// FindByHotelAndStatus lists a hotel's rooms in one status.
func (r *GormRoomRepository) FindByHotelAndStatus(ctx context.Context, hotelID int64, status roomDomain.Status) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, string(status)).
		Order("room_number ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotel rooms by status: %w", err)
	}
	return toRoomDomains(models), nil
}

// ExistsByHotelAndNumber reports whether the hotel already has a room with this number.
func (r *GormRoomRepository) ExistsByHotelAndNumber(ctx context.Context, hotelID int64, roomNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RoomModel{}).
		Where("hotel_id = ? AND room_number = ?", hotelID, roomNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room number: %w", err)
	}
	return count > 0, nil
}

// Save persists a new room and assigns its ID.
func (r *GormRoomRepository) Save(ctx context.Context, room *roomDomain.Room) error {
	model := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	room.AssignID(model.ID)
	return nil
}

// Update persists room changes.
func (r *GormRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	model := toRoomModel(room)
	result := r.db.WithContext(ctx).Model(&RoomModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"room_number": model.RoomNumber,
			"room_type":   model.RoomType,
			"price_cents": model.PriceCents,
			"status":      model.Status,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.KindRoomNotFound, "room", room.ID())
	}
	return nil
}

// Delete removes a room.
func (r *GormRoomRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func toRoomModel(rm *roomDomain.Room) *RoomModel {
	return &RoomModel{
		ID:         rm.ID(),
		HotelID:    rm.HotelID(),
		RoomNumber: rm.RoomNumber(),
		RoomType:   rm.RoomType(),
		PriceCents: rm.PriceCents(),
		Status:     string(rm.Status()),
		CreatedAt:  rm.CreatedAt(),
		UpdatedAt:  rm.UpdatedAt(),
	}
}

func toRoomDomain(m *RoomModel) *roomDomain.Room {
	return roomDomain.Reconstruct(
		m.ID, m.HotelID,
		m.RoomNumber, m.RoomType,
		m.PriceCents,
		roomDomain.Status(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
}

func toRoomDomains(models []RoomModel) []*roomDomain.Room {
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms
}
