package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samraify/multicore-crm-new/internal/auth"
	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/repository"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// AuthService coordinates registration and login flows. The token manager is
// constructed once at startup and injected; the service holds no signing
// state of its own.
type AuthService struct {
	users      repository.UserRepository
	businesses repository.BusinessRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	BusinessRepo repository.BusinessRepository
	TokenManager *auth.TokenManager
	BcryptCost   int
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	BusinessID *string
	Roles      []domain.Role
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		businesses: deps.BusinessRepo,
		tokenMgr:   deps.TokenManager,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates a new account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password required", nil)
	}
	if len(input.Roles) == 0 {
		input.Roles = []domain.Role{domain.RoleCustomer}
	}
	for _, role := range input.Roles {
		if !domain.ValidRole(role) {
			return nil, "", time.Time{}, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
		}
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if input.BusinessID != nil {
		business, err := s.businesses.GetByID(ctx, *input.BusinessID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, "", time.Time{}, apperrors.NewNotFound("business", map[string]any{"business_id": *input.BusinessID})
			}
			return nil, "", time.Time{}, apperrors.MapError(err)
		}
		if !business.Active {
			return nil, "", time.Time{}, apperrors.NewConflict("business inactive", nil)
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		BusinessID:   input.BusinessID,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Roles:        input.Roles,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a user and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}
