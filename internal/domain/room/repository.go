package room

import "context"

// RoomRepository defines persistence operations for rooms.
type RoomRepository interface {
	FindByID(ctx context.Context, id int64) (*Room, error)
	FindByHotel(ctx context.Context, hotelID int64) ([]*Room, error)
	FindByHotelAndStatus(ctx context.Context, hotelID int64, status Status) ([]*Room, error)
	ExistsByHotelAndNumber(ctx context.Context, hotelID int64, roomNumber string) (bool, error)
	Save(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id int64) error
}

// PhotoRepository defines persistence operations for room photos.
type PhotoRepository interface {
	Save(ctx context.Context, photo *Photo) error
	FindByID(ctx context.Context, id int64) (*Photo, error)
	FindByRoomID(ctx context.Context, roomID int64) ([]*Photo, error)
	FindByFilename(ctx context.Context, filename string) (*Photo, error)
	Delete(ctx context.Context, id int64) error
	DeleteByRoomID(ctx context.Context, roomID int64) error
}
