package booking

import "time"

// ServiceHistory records a completed stay for the hotel and the pet owner.
type ServiceHistory struct {
	id          int64
	hotelID     int64
	userID      int64
	bookingID   int64
	completedAt time.Time
}

// NewServiceHistory creates the history entry for a completed booking.
func NewServiceHistory(b *Booking) *ServiceHistory {
	return &ServiceHistory{
		hotelID:     b.HotelID(),
		userID:      b.UserID(),
		bookingID:   b.ID(),
		completedAt: time.Now().UTC(),
	}
}

// ReconstructServiceHistory rebuilds a ServiceHistory from persistence.
func ReconstructServiceHistory(id, hotelID, userID, bookingID int64, completedAt time.Time) *ServiceHistory {
	return &ServiceHistory{
		id:          id,
		hotelID:     hotelID,
		userID:      userID,
		bookingID:   bookingID,
		completedAt: completedAt,
	}
}

func (h *ServiceHistory) ID() int64              { return h.id }
func (h *ServiceHistory) HotelID() int64         { return h.hotelID }
func (h *ServiceHistory) UserID() int64          { return h.userID }
func (h *ServiceHistory) BookingID() int64       { return h.bookingID }
func (h *ServiceHistory) CompletedAt() time.Time { return h.completedAt }

// AssignID sets the identifier generated by the store on insert.
func (h *ServiceHistory) AssignID(id int64) { h.id = id }
