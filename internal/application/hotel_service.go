package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	hotelDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// RegisterHotelRequest is the request DTO for creating a hotel account.
type RegisterHotelRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// HotelDTO is the API response representation of a hotel.
type HotelDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HotelService manages hotel accounts.
type HotelService struct {
	repo   hotelDomain.HotelRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewHotelService creates a new HotelService.
func NewHotelService(repo hotelDomain.HotelRepository, jwt *auth.JWTManager, logger *zap.Logger) *HotelService {
	return &HotelService{repo: repo, jwt: jwt, logger: logger}
}

// Register creates a hotel account.
func (s *HotelService) Register(ctx context.Context, req RegisterHotelRequest) (*HotelDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicate, fmt.Sprintf("email %s is already registered", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	h, err := hotelDomain.NewHotel(req.Name, email, string(hash), req.Phone, req.Address)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.repo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}

	s.logger.Info("hotel registered", zap.Int64("hotel_id", h.ID()))
	result := toHotelDTO(h)
	return &result, nil
}

// Login checks the password and issues a hotel token whose subject is the hotel id.
func (s *HotelService) Login(ctx context.Context, req LoginRequest) (*TokenDTO, error) {
	h, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash()), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(h.ID(), auth.RoleHotel)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &TokenDTO{AccessToken: token, ExpiresAt: expiresAt, Role: auth.RoleHotel}, nil
}

// GetProfile returns the actor's hotel.
func (s *HotelService) GetProfile(ctx context.Context, actor Actor) (*HotelDTO, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("hotel login is required")
	}
	h, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	result := toHotelDTO(h)
	return &result, nil
}

func toHotelDTO(h *hotelDomain.Hotel) HotelDTO {
	return HotelDTO{
		ID:        h.ID(),
		Name:      h.Name(),
		Email:     h.Email(),
		Phone:     h.Phone(),
		Address:   h.Address(),
		CreatedAt: h.CreatedAt(),
	}
}
