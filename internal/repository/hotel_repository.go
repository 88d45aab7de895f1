package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	hotelDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:120;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	Phone        string    `gorm:"size:30"`
	Address      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (HotelModel) TableName() string { return "hotels" }

// GormHotelRepository implements HotelRepository using GORM.
type GormHotelRepository struct {
	db *gorm.DB
}

// NewGormHotelRepository creates a new GormHotelRepository.
func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{db: db}
}

// FindByID retrieves a hotel; a missing row is a HotelNotFound error.
func (r *GormHotelRepository) FindByID(ctx context.Context, id int64) (*hotelDomain.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindHotelNotFound, "hotel", id)
		}
		return nil, fmt.Errorf("failed to find hotel by ID: %w", err)
	}
	return toHotelDomain(&model), nil
}

// FindByEmail retrieves a hotel by its login email.
func (r *GormHotelRepository) FindByEmail(ctx context.Context, email string) (*hotelDomain.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindHotelNotFound, "hotel", email)
		}
		return nil, fmt.Errorf("failed to find hotel by email: %w", err)
	}
	return toHotelDomain(&model), nil
}

// ExistsByEmail reports whether the email is already registered.
func (r *GormHotelRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check hotel email: %w", err)
	}
	return count > 0, nil
}

// Save persists a new hotel and assigns its ID.
func (r *GormHotelRepository) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	model := &HotelModel{
		Name:         h.Name(),
		Email:        h.Email(),
		PasswordHash: h.PasswordHash(),
		Phone:        h.Phone(),
		Address:      h.Address(),
		CreatedAt:    h.CreatedAt(),
		UpdatedAt:    h.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save hotel: %w", err)
	}
	h.AssignID(model.ID)
	return nil
}

func toHotelDomain(m *HotelModel) *hotelDomain.Hotel {
	return hotelDomain.Reconstruct(m.ID, m.Name, m.Email, m.PasswordHash, m.Phone, m.Address, m.CreatedAt, m.UpdatedAt)
}
