package booking

import "context"

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking; a missing row is a BookingNotFound error.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByHotel retrieves every booking of a hotel, newest first.
	FindByHotel(ctx context.Context, hotelID int64) ([]*Booking, error)

	// FindByHotelAndState retrieves a hotel's bookings in the given state.
	FindByHotelAndState(ctx context.Context, hotelID int64, state State) ([]*Booking, error)

	// CountActiveByRoom counts waiting or approved bookings holding a room.
	CountActiveByRoom(ctx context.Context, roomID int64) (int64, error)

	// Save persists a new booking and assigns its ID.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// RecordCompletion updates the booking and inserts its history entry atomically.
	RecordCompletion(ctx context.Context, booking *Booking, history *ServiceHistory) error

	// Delete removes a booking.
	Delete(ctx context.Context, id int64) error

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByState returns booking counts grouped by state (admin).
	CountByState(ctx context.Context) (map[string]int64, error)
}
