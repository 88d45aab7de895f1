package hotel

import (
	"fmt"
	"strings"
	"time"
)

// Hotel is the aggregate root for a pet hotel account. Hotels sign in with
// their own credentials; the hotel id is the subject of their tokens.
type Hotel struct {
	id           int64
	name         string
	email        string
	passwordHash string
	phone        string
	address      string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewHotel creates a new hotel with validated fields.
func NewHotel(name, email, passwordHash, phone, address string) (*Hotel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("hotel name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password is required")
	}

	now := time.Now().UTC()
	return &Hotel{
		name:         strings.TrimSpace(name),
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		phone:        phone,
		address:      address,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Hotel from persistence data (no validation).
func Reconstruct(id int64, name, email, passwordHash, phone, address string, createdAt, updatedAt time.Time) *Hotel {
	return &Hotel{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		phone:        phone,
		address:      address,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (h *Hotel) ID() int64            { return h.id }
func (h *Hotel) Name() string         { return h.name }
func (h *Hotel) Email() string        { return h.email }
func (h *Hotel) PasswordHash() string { return h.passwordHash }
func (h *Hotel) Phone() string        { return h.phone }
func (h *Hotel) Address() string      { return h.address }
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }
func (h *Hotel) UpdatedAt() time.Time { return h.updatedAt }

// AssignID sets the identifier generated by the store on insert.
func (h *Hotel) AssignID(id int64) { h.id = id }
