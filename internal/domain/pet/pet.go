package pet

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a pet profile.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Pet is a pet profile owned by a registered user. Bookings reference it.
type Pet struct {
	id        int64
	ownerID   int64
	name      string
	petType   string
	breed     string
	weightKg  float64
	ageMonths int
	notes     string
	status    Status
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewPet creates an active pet profile.
func NewPet(ownerID int64, name, petType, breed string, weightKg float64, ageMonths int, notes string) (*Pet, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("pet name is required")
	}
	if petType == "" {
		return nil, fmt.Errorf("pet type is required")
	}
	if weightKg < 0 || ageMonths < 0 {
		return nil, fmt.Errorf("weight and age cannot be negative")
	}

	now := time.Now().UTC()
	return &Pet{
		ownerID:   ownerID,
		name:      name,
		petType:   petType,
		breed:     breed,
		weightKg:  weightKg,
		ageMonths: ageMonths,
		notes:     notes,
		status:    StatusActive,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, petType, breed string,
	weightKg float64,
	ageMonths int,
	notes string,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:        id,
		ownerID:   ownerID,
		name:      name,
		petType:   petType,
		breed:     breed,
		weightKg:  weightKg,
		ageMonths: ageMonths,
		notes:     notes,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *Pet) ID() int64            { return p.id }
func (p *Pet) OwnerID() int64       { return p.ownerID }
func (p *Pet) Name() string         { return p.name }
func (p *Pet) PetType() string      { return p.petType }
func (p *Pet) Breed() string        { return p.breed }
func (p *Pet) WeightKg() float64    { return p.weightKg }
func (p *Pet) AgeMonths() int       { return p.ageMonths }
func (p *Pet) Notes() string        { return p.notes }
func (p *Pet) Status() Status       { return p.status }
func (p *Pet) Version() int64       { return p.version }
func (p *Pet) CreatedAt() time.Time { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time { return p.updatedAt }

// AssignID sets the identifier generated by the store on insert.
func (p *Pet) AssignID(id int64) { p.id = id }

// IsOwnedBy checks if the pet belongs to the given user.
func (p *Pet) IsOwnedBy(ownerID int64) bool { return p.ownerID == ownerID }

// IsActive returns true if the profile has not been archived.
func (p *Pet) IsActive() bool { return p.status == StatusActive }

// Update applies partial updates; zero values leave fields unchanged.
func (p *Pet) Update(name, petType, breed string, weightKg float64, ageMonths int, notes string) {
	if name != "" {
		p.name = name
	}
	if petType != "" {
		p.petType = petType
	}
	if breed != "" {
		p.breed = breed
	}
	if weightKg > 0 {
		p.weightKg = weightKg
	}
	if ageMonths > 0 {
		p.ageMonths = ageMonths
	}
	if notes != "" {
		p.notes = notes
	}
	p.version++
	p.updatedAt = time.Now().UTC()
}

// Archive hides the profile from the owner's list.
func (p *Pet) Archive() {
	p.status = StatusArchived
	p.version++
	p.updatedAt = time.Now().UTC()
}
