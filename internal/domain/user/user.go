package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a pet owner account. Bookings and pets belong to a user.
type User struct {
	id           int64
	username     string
	passwordHash string
	name         string
	email        string
	phone        string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new user with validated fields.
func NewUser(username, passwordHash, name, email, phone string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %s", email)
	}

	now := time.Now().UTC()
	return &User{
		username:     username,
		passwordHash: passwordHash,
		name:         strings.TrimSpace(name),
		email:        strings.ToLower(strings.TrimSpace(email)),
		phone:        phone,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, username, passwordHash, name, email, phone string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		name:         name,
		email:        email,
		phone:        phone,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Phone() string        { return u.phone }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AssignID sets the identifier generated by the store on insert.
func (u *User) AssignID(id int64) { u.id = id }

// UpdateProfile applies partial updates; empty values leave fields unchanged.
func (u *User) UpdateProfile(name, email, phone string) error {
	if email != "" && !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email: %s", email)
	}
	if name != "" {
		u.name = strings.TrimSpace(name)
	}
	if email != "" {
		u.email = strings.ToLower(strings.TrimSpace(email))
	}
	if phone != "" {
		u.phone = phone
	}
	u.updatedAt = time.Now().UTC()
	return nil
}
