package hotel

import "context"

// HotelRepository defines persistence operations for hotels.
type HotelRepository interface {
	FindByID(ctx context.Context, id int64) (*Hotel, error)
	FindByEmail(ctx context.Context, email string) (*Hotel, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, hotel *Hotel) error
}
