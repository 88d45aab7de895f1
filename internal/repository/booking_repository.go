package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	UserID        int64     `gorm:"index;not null"`
	HotelID       int64     `gorm:"index;not null"`
	RoomID        int64     `gorm:"index;not null"`
	PetID         int64     `gorm:"not null"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	PaymentMethod string    `gorm:"size:50;not null"`
	PaymentProof  string    `gorm:"size:255"`
	State         string    `gorm:"size:20;not null;index"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// ServiceHistoryModel is the GORM model for the service_history table.
type ServiceHistoryModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	HotelID     int64     `gorm:"index;not null"`
	UserID      int64     `gorm:"index;not null"`
	BookingID   int64     `gorm:"index;not null"`
	CompletedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ServiceHistoryModel) TableName() string {
	return "service_history"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindBookingNotFound, "booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindByHotel retrieves every booking of a hotel, newest first.
func (r *GormBookingRepository) FindByHotel(ctx context.Context, hotelID int64) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotel bookings: %w", err)
	}
	return toDomainBookings(models), nil
}

// FindByHotelAndState retrieves a hotel's bookings in one state.
func (r *GormBookingRepository) FindByHotelAndState(ctx context.Context, hotelID int64, state bookingDomain.State) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND state = ?", hotelID, string(state)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotel bookings by state: %w", err)
	}
	return toDomainBookings(models), nil
}

// CountActiveByRoom counts waiting or approved bookings holding a room.
func (r *GormBookingRepository) CountActiveByRoom(ctx context.Context, roomID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ? AND state IN ?", roomID,
			[]string{string(bookingDomain.StateWaiting), string(bookingDomain.StateApproved)}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count room bookings: %w", err)
	}
	return count, nil
}

// Save persists a new booking and assigns its ID.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// The caller bumps the version first; the stored row must hold the previous one.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return updateBooking(r.db.WithContext(ctx), bk)
}

// RecordCompletion stores the completed booking and its history entry in one transaction.
func (r *GormBookingRepository) RecordCompletion(ctx context.Context, bk *bookingDomain.Booking, history *bookingDomain.ServiceHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateBooking(tx, bk); err != nil {
			return err
		}
		model := toServiceHistoryModel(history)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save service history: %w", err)
		}
		history.AssignID(model.ID)
		return nil
	})
}

// Delete removes a booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.KindBookingNotFound, "booking", id)
	}
	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models), total, nil
}

// CountByState returns booking counts grouped by state (admin).
func (r *GormBookingRepository) CountByState(ctx context.Context) (map[string]int64, error) {
	type stateCount struct {
		State string
		Count int64
	}
	var results []stateCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("state, count(*) as count").
		Group("state").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by state: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.State] = sc.Count
	}
	return counts, nil
}

func updateBooking(db *gorm.DB, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := db.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"room_id":        model.RoomID,
			"pet_id":         model.PetID,
			"start_date":     model.StartDate,
			"end_date":       model.EndDate,
			"payment_method": model.PaymentMethod,
			"payment_proof":  model.PaymentProof,
			"state":          model.State,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(fmt.Sprintf("booking %d was modified by another request", bk.ID()))
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:            bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		PetID:         bk.PetID(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		PaymentMethod: bk.PaymentMethod(),
		PaymentProof:  bk.PaymentProof(),
		State:         string(bk.State()),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

// toDomainBooking trusts the stored state; rows are only written through the aggregate.
func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.UserID,
		m.HotelID,
		m.RoomID,
		m.PetID,
		m.StartDate,
		m.EndDate,
		m.PaymentMethod,
		m.PaymentProof,
		bookingDomain.State(m.State),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings
}

func toServiceHistoryModel(h *bookingDomain.ServiceHistory) *ServiceHistoryModel {
	return &ServiceHistoryModel{
		ID:          h.ID(),
		HotelID:     h.HotelID(),
		UserID:      h.UserID(),
		BookingID:   h.BookingID(),
		CompletedAt: h.CompletedAt(),
	}
}
