package room

import (
	"fmt"
	"strings"
	"time"
)

// Status is the occupancy status of a room.
type Status string

const (
	StatusEmpty       Status = "empty"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusEmpty, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// ParseStatus converts user input to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid room status: %q", s)
	}
	return status, nil
}

// Room is a bookable room that belongs to one hotel.
type Room struct {
	id         int64
	hotelID    int64
	roomNumber string
	roomType   string
	priceCents int64
	status     Status
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRoom creates an empty room.
func NewRoom(hotelID int64, roomNumber, roomType string, priceCents int64) (*Room, error) {
	if hotelID == 0 {
		return nil, fmt.Errorf("hotel ID is required")
	}
	if strings.TrimSpace(roomNumber) == "" {
		return nil, fmt.Errorf("room number is required")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	now := time.Now().UTC()
	return &Room{
		hotelID:    hotelID,
		roomNumber: strings.TrimSpace(roomNumber),
		roomType:   roomType,
		priceCents: priceCents,
		status:     StatusEmpty,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(id, hotelID int64, roomNumber, roomType string, priceCents int64, status Status, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id:         id,
		hotelID:    hotelID,
		roomNumber: roomNumber,
		roomType:   roomType,
		priceCents: priceCents,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Room) ID() int64            { return r.id }
func (r *Room) HotelID() int64       { return r.hotelID }
func (r *Room) RoomNumber() string   { return r.roomNumber }
func (r *Room) RoomType() string     { return r.roomType }
func (r *Room) PriceCents() int64    { return r.priceCents }
func (r *Room) Status() Status       { return r.status }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// AssignID sets the identifier generated by the store on insert.
func (r *Room) AssignID(id int64) { r.id = id }

// IsEmpty reports whether the room can take a new booking.
func (r *Room) IsEmpty() bool { return r.status == StatusEmpty }

// BelongsTo reports whether the room is part of the given hotel.
func (r *Room) BelongsTo(hotelID int64) bool { return r.hotelID == hotelID }

// Update applies partial updates; zero values leave fields unchanged.
func (r *Room) Update(roomNumber, roomType string, priceCents int64, status Status) {
	if roomNumber != "" {
		r.roomNumber = roomNumber
	}
	if roomType != "" {
		r.roomType = roomType
	}
	if priceCents > 0 {
		r.priceCents = priceCents
	}
	if status != "" {
		r.status = status
	}
	r.updatedAt = time.Now().UTC()
}
