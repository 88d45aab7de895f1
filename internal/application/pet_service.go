package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	petDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// CreatePetRequest is the request DTO for creating a pet profile.
type CreatePetRequest struct {
	Name      string  `json:"name" binding:"required"`
	PetType   string  `json:"pet_type" binding:"required"`
	Breed     string  `json:"breed"`
	WeightKg  float64 `json:"weight_kg"`
	AgeMonths int     `json:"age_months"`
	Notes     string  `json:"notes"`
}

// UpdatePetRequest is the request DTO for updating a pet profile.
type UpdatePetRequest struct {
	Name      string  `json:"name"`
	PetType   string  `json:"pet_type"`
	Breed     string  `json:"breed"`
	WeightKg  float64 `json:"weight_kg"`
	AgeMonths int     `json:"age_months"`
	Notes     string  `json:"notes"`
}

// PetDTO is the API response representation of a pet profile.
type PetDTO struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	PetType   string    `json:"pet_type"`
	Breed     string    `json:"breed"`
	WeightKg  float64   `json:"weight_kg"`
	AgeMonths int       `json:"age_months"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PetService implements use cases for pet profile management.
type PetService struct {
	repo   petDomain.PetRepository
	users  UserFinder
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(repo petDomain.PetRepository, users UserFinder, logger *zap.Logger) *PetService {
	return &PetService{repo: repo, users: users, logger: logger}
}

// CreatePet creates a new pet profile for the actor.
func (s *PetService) CreatePet(ctx context.Context, actor Actor, req CreatePetRequest) (*PetDTO, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("login is required")
	}
	if _, err := s.users.FindByID(ctx, actor.ID); err != nil {
		return nil, err
	}

	pet, err := petDomain.NewPet(actor.ID, req.Name, req.PetType, req.Breed, req.WeightKg, req.AgeMonths, req.Notes)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid pet data: %v", err))
	}

	if err := s.repo.Save(ctx, pet); err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.logger.Info("pet profile created",
		zap.Int64("pet_id", pet.ID()),
		zap.Int64("owner_id", actor.ID),
	)
	result := toPetDTO(pet)
	return &result, nil
}

// GetMyPets returns all active pet profiles of the actor.
func (s *PetService) GetMyPets(ctx context.Context, actor Actor) ([]PetDTO, error) {
	pets, err := s.repo.FindByOwnerID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pets: %w", err)
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// GetPet returns a single pet profile, verifying ownership.
func (s *PetService) GetPet(ctx context.Context, actor Actor, petID int64) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, actor, petID)
	if err != nil {
		return nil, err
	}
	result := toPetDTO(pet)
	return &result, nil
}

// UpdatePet updates a pet profile, verifying ownership.
func (s *PetService) UpdatePet(ctx context.Context, actor Actor, petID int64, req UpdatePetRequest) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, actor, petID)
	if err != nil {
		return nil, err
	}

	pet.Update(req.Name, req.PetType, req.Breed, req.WeightKg, req.AgeMonths, req.Notes)

	if err := s.repo.Update(ctx, pet); err != nil {
		s.logger.Error("failed to update pet", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet profile updated", zap.Int64("pet_id", petID))
	result := toPetDTO(pet)
	return &result, nil
}

// DeletePet archives a pet profile. Bookings keep referring to it.
func (s *PetService) DeletePet(ctx context.Context, actor Actor, petID int64) error {
	pet, err := s.ownedPet(ctx, actor, petID)
	if err != nil {
		return err
	}

	pet.Archive()
	if err := s.repo.Update(ctx, pet); err != nil {
		s.logger.Error("failed to archive pet", zap.Error(err))
		return err
	}

	s.logger.Info("pet profile archived", zap.Int64("pet_id", petID))
	return nil
}

func (s *PetService) ownedPet(ctx context.Context, actor Actor, petID int64) (*petDomain.Pet, error) {
	pet, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !pet.IsOwnedBy(actor.ID) {
		return nil, domain.NewForbiddenError("you do not own this pet profile")
	}
	return pet, nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	return PetDTO{
		ID:        p.ID(),
		OwnerID:   p.OwnerID(),
		Name:      p.Name(),
		PetType:   p.PetType(),
		Breed:     p.Breed(),
		WeightKg:  p.WeightKg(),
		AgeMonths: p.AgeMonths(),
		Notes:     p.Notes(),
		Status:    string(p.Status()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
