package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/cache"
	userDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// RegisterUserRequest is the request DTO for creating a pet owner account.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=60"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// LoginRequest is shared by user and hotel logins. Hotels sign in with their email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest holds the profile fields to change.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TokenDTO is returned after a successful login.
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserService manages pet owner accounts and serves cached identity lookups.
type UserService struct {
	repo   userDomain.UserRepository
	cache  cache.UserCache
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, userCache cache.UserCache, jwt *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: userCache, jwt: jwt, logger: logger}
}

// FindByID returns a user, reading through the cache.
func (s *UserService) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	if id == 0 {
		return nil, domain.NewValidationError("user id is required")
	}
	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, u)
	return u, nil
}

// Register creates an owner account.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*UserDTO, error) {
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicate, fmt.Sprintf("username %s is already taken", req.Username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := userDomain.NewUser(req.Username, string(hash), req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// Login checks the password and issues an owner token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*TokenDTO, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.NewUnauthorizedError("invalid username or password")
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID(), auth.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &TokenDTO{AccessToken: token, ExpiresAt: expiresAt, Role: auth.RoleOwner}, nil
}

// GetProfile returns the actor's profile.
func (s *UserService) GetProfile(ctx context.Context, actor Actor) (*UserDTO, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("login is required")
	}
	u, err := s.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// UpdateProfile changes the actor's profile and refreshes the cache.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, req UpdateProfileRequest) (*UserDTO, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("login is required")
	}
	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(req.Name, req.Email, req.Phone); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Set(ctx, u)

	s.logger.Info("user profile updated", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// Delete removes the actor's account and evicts it from the cache.
func (s *UserService) Delete(ctx context.Context, actor Actor) error {
	if actor.IsAnonymous() {
		return domain.NewUnauthorizedError("login is required")
	}
	if err := s.repo.Delete(ctx, actor.ID); err != nil {
		return err
	}
	s.cache.Delete(ctx, actor.ID)

	s.logger.Info("user deleted", zap.Int64("user_id", actor.ID))
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Username:  u.Username(),
		Name:      u.Name(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		CreatedAt: u.CreatedAt(),
	}
}
