// Package events defines the Kafka topics and payloads exchanged with other services.
package events

import "time"

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Booking event types.
const (
	BookingReserved     = "booking.reserved"
	BookingStateChanged = "booking.state_changed"
	BookingUpdated      = "booking.updated"
	BookingCancelled    = "booking.cancelled"
	BookingDeleted      = "booking.deleted"
)

// Payment event types.
const (
	PaymentProofVerified = "payment.proof_verified"
)

// BookingReservedEvent is published when a pet owner reserves a room.
type BookingReservedEvent struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	HotelID       int64     `json:"hotel_id"`
	RoomID        int64     `json:"room_id"`
	PetID         int64     `json:"pet_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	PaymentMethod string    `json:"payment_method"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStateChangedEvent is published when a hotel considers a booking.
type BookingStateChangedEvent struct {
	BookingID     int64     `json:"booking_id"`
	HotelID       int64     `json:"hotel_id"`
	UserID        int64     `json:"user_id"`
	PreviousState string    `json:"previous_state"`
	State         string    `json:"state"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingUpdatedEvent is published after a waiting booking is edited.
type BookingUpdatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	RoomID        int64     `json:"room_id"`
	PetID         int64     `json:"pet_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	PaymentMethod string    `json:"payment_method"`
	ProofAttached bool      `json:"proof_attached"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID  int64     `json:"booking_id"`
	HotelID    int64     `json:"hotel_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDeletedEvent is published after a booking record is removed.
type BookingDeletedEvent struct {
	BookingID  int64     `json:"booking_id"`
	HotelID    int64     `json:"hotel_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentProofVerifiedEvent is consumed from the payment service once a
// transfer slip has been matched to a payment.
type PaymentProofVerifiedEvent struct {
	BookingID   int64     `json:"booking_id"`
	PaymentID   string    `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	VerifiedAt  time.Time `json:"verified_at"`
}
