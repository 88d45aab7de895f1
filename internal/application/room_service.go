package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/booking"
	hotelDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	roomDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/room"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// AddRoomRequest is the request DTO for adding a room to the actor's hotel.
type AddRoomRequest struct {
	RoomNumber string `json:"room_number" binding:"required"`
	RoomType   string `json:"room_type"`
	PriceCents int64  `json:"price_cents"`
}

// UpdateRoomRequest is the request DTO for changing a room. Empty fields are left alone.
type UpdateRoomRequest struct {
	ID         int64  `json:"id" binding:"required"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	PriceCents int64  `json:"price_cents"`
	Status     string `json:"status"`
}

// RoomDTO is the API response representation of a room.
type RoomDTO struct {
	ID         int64     `json:"id"`
	HotelID    int64     `json:"hotel_id"`
	RoomNumber string    `json:"room_number"`
	RoomType   string    `json:"room_type"`
	PriceCents int64     `json:"price_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RoomService manages the room inventory of hotels.
type RoomService struct {
	rooms    roomDomain.RoomRepository
	photos   roomDomain.PhotoRepository
	hotels   hotelDomain.HotelRepository
	bookings bookingDomain.BookingRepository
	images   MediaStore
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	rooms roomDomain.RoomRepository,
	photos roomDomain.PhotoRepository,
	hotels hotelDomain.HotelRepository,
	bookings bookingDomain.BookingRepository,
	images MediaStore,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		photos:   photos,
		hotels:   hotels,
		bookings: bookings,
		images:   images,
		logger:   logger,
	}
}

// AddRoom creates an empty room in the actor's hotel.
func (s *RoomService) AddRoom(ctx context.Context, actor Actor, req AddRoomRequest) (string, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return "", err
	}
	exists, err := s.rooms.ExistsByHotelAndNumber(ctx, hotel.ID(), req.RoomNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.NewError(domain.KindDuplicate, fmt.Sprintf("room No.%s already exists", req.RoomNumber))
	}

	room, err := roomDomain.NewRoom(hotel.ID(), req.RoomNumber, req.RoomType, req.PriceCents)
	if err != nil {
		return "", domain.NewValidationError(err.Error())
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return "", err
	}

	s.logger.Info("room added", zap.Int64("hotel_id", hotel.ID()), zap.Int64("room_id", room.ID()))
	return fmt.Sprintf("Room No.%s has been added.", room.RoomNumber()), nil
}

// UpdateRoom changes a room of the actor's hotel.
func (s *RoomService) UpdateRoom(ctx context.Context, actor Actor, req UpdateRoomRequest) (string, error) {
	room, err := s.ownedRoom(ctx, actor, req.ID)
	if err != nil {
		return "", err
	}

	var status roomDomain.Status
	if req.Status != "" {
		if status, err = roomDomain.ParseStatus(req.Status); err != nil {
			return "", domain.NewValidationError(err.Error())
		}
	}
	if req.PriceCents < 0 {
		return "", domain.NewValidationError("price cannot be negative")
	}
	if req.RoomNumber != "" && req.RoomNumber != room.RoomNumber() {
		exists, err := s.rooms.ExistsByHotelAndNumber(ctx, room.HotelID(), req.RoomNumber)
		if err != nil {
			return "", err
		}
		if exists {
			return "", domain.NewError(domain.KindDuplicate, fmt.Sprintf("room No.%s already exists", req.RoomNumber))
		}
	}

	room.Update(req.RoomNumber, req.RoomType, req.PriceCents, status)
	if err := s.rooms.Update(ctx, room); err != nil {
		return "", err
	}

	s.logger.Info("room updated", zap.Int64("room_id", room.ID()), zap.String("status", string(room.Status())))
	return fmt.Sprintf("Room No.%s has been updated.", room.RoomNumber()), nil
}

// ListRooms returns every room of the actor's hotel.
func (s *RoomService) ListRooms(ctx context.Context, actor Actor) ([]RoomDTO, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.FindByHotel(ctx, hotel.ID())
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("hotel %d has no rooms", hotel.ID()))
	}
	return toRoomDTOs(rooms), nil
}

// ListRoomsByStatus returns the actor's hotel rooms in one status.
func (s *RoomService) ListRoomsByStatus(ctx context.Context, actor Actor, status string) ([]RoomDTO, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	st, err := roomDomain.ParseStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	rooms, err := s.rooms.FindByHotelAndStatus(ctx, hotel.ID(), st)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("hotel %d has no %s rooms", hotel.ID(), st))
	}
	return toRoomDTOs(rooms), nil
}

// DeleteRoom removes a room together with its photos. Rooms held by a
// waiting or approved booking cannot be removed.
func (s *RoomService) DeleteRoom(ctx context.Context, actor Actor, id int64) (string, error) {
	room, err := s.ownedRoom(ctx, actor, id)
	if err != nil {
		return "", err
	}
	active, err := s.bookings.CountActiveByRoom(ctx, room.ID())
	if err != nil {
		return "", err
	}
	if active > 0 {
		return "", domain.NewError(domain.KindRoomNotAvailable,
			fmt.Sprintf("room No.%s has %d active bookings", room.RoomNumber(), active))
	}

	photos, err := s.photos.FindByRoomID(ctx, room.ID())
	if err != nil {
		return "", err
	}
	for _, p := range photos {
		if err := s.images.Delete(ctx, p.Filename()); err != nil {
			if !domain.IsKind(err, domain.KindFileMissing) {
				return "", err
			}
			s.logger.Warn("room photo already gone", zap.String("file", p.Filename()))
		}
	}
	if err := s.photos.DeleteByRoomID(ctx, room.ID()); err != nil {
		return "", err
	}
	if err := s.rooms.Delete(ctx, room.ID()); err != nil {
		return "", err
	}

	s.logger.Info("room deleted", zap.Int64("room_id", room.ID()), zap.Int("photos", len(photos)))
	return fmt.Sprintf("Room No.%s has been deleted.", room.RoomNumber()), nil
}

func (s *RoomService) resolveHotel(ctx context.Context, actor Actor) (*hotelDomain.Hotel, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("hotel login is required")
	}
	return s.hotels.FindByID(ctx, actor.ID)
}

// ownedRoom loads a room of the actor's hotel. Rooms of other hotels are reported as missing.
func (s *RoomService) ownedRoom(ctx context.Context, actor Actor, id int64) (*roomDomain.Room, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, domain.NewValidationError("room id is required")
	}
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.BelongsTo(hotel.ID()) {
		return nil, domain.NewNotFoundError(domain.KindRoomNotFound, "room", id)
	}
	return room, nil
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:         r.ID(),
		HotelID:    r.HotelID(),
		RoomNumber: r.RoomNumber(),
		RoomType:   r.RoomType(),
		PriceCents: r.PriceCents(),
		Status:     string(r.Status()),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}

func toRoomDTOs(rooms []*roomDomain.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	return dtos
}
