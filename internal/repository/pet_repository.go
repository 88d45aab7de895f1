package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	petDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID   int64     `gorm:"not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	PetType   string    `gorm:"type:varchar(20);not null"`
	Breed     string    `gorm:"type:varchar(100)"`
	WeightKg  float64   `gorm:"type:decimal(5,2)"`
	AgeMonths int       `gorm:"type:int"`
	Notes     string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (PetModel) TableName() string { return "pets" }

// GormPetRepository implements PetRepository using GORM.
type GormPetRepository struct {
	db *gorm.DB
}

func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

// FindByID returns any pet, archived ones included; bookings keep pointing at them.
func (r *GormPetRepository) FindByID(ctx context.Context, id int64) (*petDomain.Pet, error) {
	var model PetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.KindPetNotFound, "pet", id)
		}
		return nil, fmt.Errorf("failed to find pet: %w", err)
	}
	return toPetDomain(&model), nil
}

func (r *GormPetRepository) FindByOwnerID(ctx context.Context, ownerID int64) ([]*petDomain.Pet, error) {
	var models []PetModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, string(petDomain.StatusActive)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	pets := make([]*petDomain.Pet, len(models))
	for i := range models {
		pets[i] = toPetDomain(&models[i])
	}
	return pets, nil
}

func (r *GormPetRepository) Save(ctx context.Context, pet *petDomain.Pet) error {
	model := toPetModel(pet)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	pet.AssignID(model.ID)
	return nil
}

func (r *GormPetRepository) Update(ctx context.Context, pet *petDomain.Pet) error {
	model := toPetModel(pet)
	previousVersion := pet.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update pet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("pet was modified by another request")
	}
	return nil
}

func (r *GormPetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&PetModel{}).Error
}

// --- Conversions ---

func toPetModel(p *petDomain.Pet) *PetModel {
	return &PetModel{
		ID:        p.ID(),
		OwnerID:   p.OwnerID(),
		Name:      p.Name(),
		PetType:   p.PetType(),
		Breed:     p.Breed(),
		WeightKg:  p.WeightKg(),
		AgeMonths: p.AgeMonths(),
		Notes:     p.Notes(),
		Status:    string(p.Status()),
		Version:   p.Version(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toPetDomain(m *PetModel) *petDomain.Pet {
	return petDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.PetType, m.Breed,
		m.WeightKg, m.AgeMonths,
		m.Notes,
		petDomain.Status(m.Status),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
