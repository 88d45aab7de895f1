package room

import (
	"fmt"
	"time"
)

// Photo is an image of a room stored by the media store under filename.
type Photo struct {
	id        int64
	roomID    int64
	filename  string
	createdAt time.Time
}

// NewPhoto creates a new room photo record.
func NewPhoto(roomID int64, filename string) (*Photo, error) {
	if roomID == 0 {
		return nil, fmt.Errorf("room ID is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	return &Photo{
		roomID:    roomID,
		filename:  filename,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructPhoto rebuilds a Photo from persistence.
func ReconstructPhoto(id, roomID int64, filename string, createdAt time.Time) *Photo {
	return &Photo{
		id:        id,
		roomID:    roomID,
		filename:  filename,
		createdAt: createdAt,
	}
}

// Getters.
func (p *Photo) ID() int64            { return p.id }
func (p *Photo) RoomID() int64        { return p.roomID }
func (p *Photo) Filename() string     { return p.filename }
func (p *Photo) CreatedAt() time.Time { return p.createdAt }

// AssignID sets the identifier generated by the store on insert.
func (p *Photo) AssignID(id int64) { p.id = id }
