package pet

import "context"

// PetRepository defines persistence operations for pet profiles.
type PetRepository interface {
	FindByID(ctx context.Context, id int64) (*Pet, error)
	FindByOwnerID(ctx context.Context, ownerID int64) ([]*Pet, error)
	Save(ctx context.Context, pet *Pet) error
	Update(ctx context.Context, pet *Pet) error
	Delete(ctx context.Context, id int64) error
}
