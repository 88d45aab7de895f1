package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	hotelDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	roomDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/room"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// RoomPhotoDTO is the API response representation of a room photo.
type RoomPhotoDTO struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomPhotoService handles room photo use cases.
type RoomPhotoService struct {
	photos roomDomain.PhotoRepository
	rooms  roomDomain.RoomRepository
	hotels hotelDomain.HotelRepository
	images MediaStore
	logger *zap.Logger
}

// NewRoomPhotoService creates a new RoomPhotoService.
func NewRoomPhotoService(
	photos roomDomain.PhotoRepository,
	rooms roomDomain.RoomRepository,
	hotels hotelDomain.HotelRepository,
	images MediaStore,
	logger *zap.Logger,
) *RoomPhotoService {
	return &RoomPhotoService{photos: photos, rooms: rooms, hotels: hotels, images: images, logger: logger}
}

// Upload stores every file as a photo of the room. All files are validated
// before the first write. Either all files are kept or, on the first
// failure, the ones already stored are removed.
func (s *RoomPhotoService) Upload(ctx context.Context, actor Actor, roomID int64, uploads []media.Upload) ([]RoomPhotoDTO, error) {
	if len(uploads) == 0 {
		return nil, domain.NewValidationError("at least one file is required")
	}
	room, err := s.ownedRoom(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}

	for _, up := range uploads {
		if err := s.images.Validate(up); err != nil {
			return nil, err
		}
	}

	saved := make([]*roomDomain.Photo, 0, len(uploads))
	for _, up := range uploads {
		name, err := s.images.Store(ctx, up)
		if err != nil {
			s.rollback(ctx, saved)
			return nil, err
		}
		photo, err := roomDomain.NewPhoto(room.ID(), name)
		if err == nil {
			err = s.photos.Save(ctx, photo)
		}
		if err != nil {
			s.removeFile(ctx, name)
			s.rollback(ctx, saved)
			return nil, err
		}
		saved = append(saved, photo)
	}

	s.logger.Info("room photos uploaded", zap.Int64("room_id", room.ID()), zap.Int("count", len(saved)))
	dtos := make([]RoomPhotoDTO, len(saved))
	for i, p := range saved {
		dtos[i] = s.toRoomPhotoDTO(p)
	}
	return dtos, nil
}

// GetImage opens one room photo for streaming.
func (s *RoomPhotoService) GetImage(ctx context.Context, photoID int64) (*FileDTO, error) {
	if photoID == 0 {
		return nil, domain.NewValidationError("photo id is required")
	}
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	content, size, contentType, err := s.images.Retrieve(ctx, photo.Filename())
	if err != nil {
		return nil, err
	}
	return &FileDTO{Name: photo.Filename(), Content: content, Size: size, ContentType: contentType}, nil
}

// GetImageURLs lists the stored locations of a room's photos.
func (s *RoomPhotoService) GetImageURLs(ctx context.Context, roomID int64) ([]string, error) {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	photos, err := s.photos.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("room %d has no photos", roomID))
	}
	urls := make([]string, len(photos))
	for i, p := range photos {
		urls[i] = s.images.Path(p.Filename())
	}
	return urls, nil
}

// DeleteImage removes a photo file and its record.
func (s *RoomPhotoService) DeleteImage(ctx context.Context, actor Actor, name string) (string, error) {
	if name == "" {
		return "", domain.NewValidationError("file name is required")
	}
	photo, err := s.photos.FindByFilename(ctx, name)
	if err != nil {
		return "", err
	}
	if _, err := s.ownedRoom(ctx, actor, photo.RoomID()); err != nil {
		return "", err
	}
	if err := s.images.Delete(ctx, name); err != nil {
		return "", err
	}
	if err := s.photos.Delete(ctx, photo.ID()); err != nil {
		return "", err
	}

	s.logger.Info("room photo deleted", zap.Int64("room_id", photo.RoomID()), zap.String("file", name))
	return fmt.Sprintf("Image %s has been deleted.", name), nil
}

func (s *RoomPhotoService) ownedRoom(ctx context.Context, actor Actor, roomID int64) (*roomDomain.Room, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("hotel login is required")
	}
	if _, err := s.hotels.FindByID(ctx, actor.ID); err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.BelongsTo(actor.ID) {
		return nil, domain.NewNotFoundError(domain.KindRoomNotFound, "room", roomID)
	}
	return room, nil
}

func (s *RoomPhotoService) rollback(ctx context.Context, saved []*roomDomain.Photo) {
	for _, p := range saved {
		if err := s.photos.Delete(ctx, p.ID()); err != nil {
			s.logger.Warn("failed to remove room photo record", zap.Int64("photo_id", p.ID()), zap.Error(err))
		}
		s.removeFile(ctx, p.Filename())
	}
}

func (s *RoomPhotoService) removeFile(ctx context.Context, name string) {
	if err := s.images.Delete(ctx, name); err != nil {
		s.logger.Warn("failed to remove room photo file", zap.String("file", name), zap.Error(err))
	}
}

func (s *RoomPhotoService) toRoomPhotoDTO(p *roomDomain.Photo) RoomPhotoDTO {
	return RoomPhotoDTO{
		ID:        p.ID(),
		RoomID:    p.RoomID(),
		Filename:  p.Filename(),
		URL:       s.images.Path(p.Filename()),
		CreatedAt: p.CreatedAt(),
	}
}
