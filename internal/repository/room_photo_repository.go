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

// RoomPhotoModel is the GORM model for the room_photos table.
type RoomPhotoModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	RoomID    int64     `gorm:"not null;index"`
	Filename  string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (RoomPhotoModel) TableName() string { return "room_photos" }

// GormRoomPhotoRepository implements PhotoRepository using GORM.
type GormRoomPhotoRepository struct {
	db *gorm.DB
}

// NewGormRoomPhotoRepository creates a new GormRoomPhotoRepository.
func NewGormRoomPhotoRepository(db *gorm.DB) *GormRoomPhotoRepository {
	return &GormRoomPhotoRepository{db: db}
}

// Save persists a new room photo.
func (r *GormRoomPhotoRepository) Save(ctx context.Context, photo *roomDomain.Photo) error {
	model := toRoomPhotoModel(photo)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save room photo: %w", err)
	}
	photo.AssignID(model.ID)
	return nil
}

// FindByID returns a single photo by ID.
func (r *GormRoomPhotoRepository) FindByID(ctx context.Context, id int64) (*roomDomain.Photo, error) {
	var model RoomPhotoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindNotFound, "room photo", id)
		}
		return nil, fmt.Errorf("failed to find room photo: %w", err)
	}
	return toRoomPhotoDomain(&model), nil
}

// FindByRoomID returns all photos of a room in upload order.
func (r *GormRoomPhotoRepository) FindByRoomID(ctx context.Context, roomID int64) ([]*roomDomain.Photo, error) {
	var models []RoomPhotoModel
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find room photos: %w", err)
	}

	photos := make([]*roomDomain.Photo, len(models))
	for i := range models {
		photos[i] = toRoomPhotoDomain(&models[i])
	}
	return photos, nil
}

// FindByFilename returns the photo stored under filename.
func (r *GormRoomPhotoRepository) FindByFilename(ctx context.Context, filename string) (*roomDomain.Photo, error) {
	var model RoomPhotoModel
	if err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindNotFound, "room photo", filename)
		}
		return nil, fmt.Errorf("failed to find room photo: %w", err)
	}
	return toRoomPhotoDomain(&model), nil
}

// Delete removes one photo record.
func (r *GormRoomPhotoRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RoomPhotoModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete room photo: %w", err)
	}
	return nil
}

// DeleteByRoomID removes every photo record of a room.
func (r *GormRoomPhotoRepository) DeleteByRoomID(ctx context.Context, roomID int64) error {
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&RoomPhotoModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete room photos: %w", err)
	}
	return nil
}

func toRoomPhotoModel(p *roomDomain.Photo) RoomPhotoModel {
	return RoomPhotoModel{
		ID:        p.ID(),
		RoomID:    p.RoomID(),
		Filename:  p.Filename(),
		CreatedAt: p.CreatedAt(),
	}
}

func toRoomPhotoDomain(m *RoomPhotoModel) *roomDomain.Photo {
	return roomDomain.ReconstructPhoto(m.ID, m.RoomID, m.Filename, m.CreatedAt)
}
