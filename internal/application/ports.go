package application

import (
	"context"
	"io"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/kafka"
)

// Actor is the authenticated caller as resolved by the HTTP layer.
// For hotel accounts ID is the hotel id.
type Actor struct {
	ID   int64
	Role string
}

// IsAnonymous reports whether no account is attached.
func (a Actor) IsAnonymous() bool { return a.ID == 0 }

// EventPublisher publishes domain events. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// MediaStore persists uploaded images. *media.Store implements it.
type MediaStore interface {
	Validate(up media.Upload) error
	Store(ctx context.Context, up media.Upload) (string, error)
	Retrieve(ctx context.Context, name string) (io.ReadCloser, int64, string, error)
	Delete(ctx context.Context, name string) error
	Path(name string) string
}

// UserFinder resolves user accounts. *UserService implements it with caching.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// FileDTO is a stored file opened for streaming. The caller closes Content.
type FileDTO struct {
	Name        string
	Content     io.ReadCloser
	Size        int64
	ContentType string
}

const eventSource = "service-pethotel"
