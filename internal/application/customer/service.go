package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/otp"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/id"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmail        = "email"
	fieldName         = "name"
	fieldProfileImage = "profile_image"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateCustomerRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Create provisions an account directly, skipping email verification.
// It is an admin-only path; self-service signup goes through the OTP flow.
func (s *service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.User, error) {
	email := otp.NormalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", domain.ErrConflict)
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	role := domain.RoleCustomer
	if req.Role != nil {
		switch *req.Role {
		case domain.RoleAdmin, domain.RoleCustomer:
			role = *req.Role
		default:
			return nil, fmt.Errorf("invalid role: %w", domain.ErrBadRequest)
		}
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateCustomerRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Email != nil {
		email := otp.NormalizeEmail(*req.Email)
		if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.UserID != userID {
			return nil, fmt.Errorf("user with this email already exists: %w", domain.ErrConflict)
		}
		updates[fieldEmail] = email
	}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.ProfileImage != nil {
		updates[fieldProfileImage] = *req.ProfileImage
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
