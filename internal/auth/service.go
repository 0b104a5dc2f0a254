package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByEmail(ctx context.Context, email string) (*datamodel.UserProfile, error)
	GetByID(ctx context.Context, id string) (*datamodel.UserProfile, error)
	GetProfile(ctx context.Context, id string) (*datamodel.UserProfile, error)
	EmailTaken(ctx context.Context, email string, exceptID string) (bool, error)
	Create(ctx context.Context, u *datamodel.UserProfile) error
	Update(ctx context.Context, u *datamodel.UserProfile) error
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, "")
	if err != nil {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if taken {
		s.logger.Warn("register: email already exists", "email", dto.Email)
		return nil, internal.NewConflictError("User with this email already exists", internal.ErrCodeEmailAlreadyExists)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	parts := user.NameParts{FirstName: dto.FirstName, LastName: dto.LastName, SecondName: dto.SecondName}
	profile := &datamodel.UserProfile{
		Username:     dto.Email,
		Email:        dto.Email,
		PasswordHash: hash,
		FullName:     user.JoinName(parts),
		FirstName:    parts.FirstName,
		LastName:     parts.LastName,
		SecondName:   parts.SecondName,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		s.logger.Error("register: failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	token, err := s.tokenGenerator.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	s.logger.Info("user registered", "user_id", profile.ID)
	return &AuthResponse{Token: token, User: toUserResponse(profile)}, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(dto.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrInvalidCredentials()
		}
		s.logger.Error("login: user lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to login", err)
	}

	if !VerifyPassword(profile.PasswordHash, dto.Password) {
		return nil, internal.ErrInvalidCredentials()
	}

	token, err := s.tokenGenerator.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	return &AuthResponse{Token: token, User: toUserResponse(profile)}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound()
		}
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	return toProfileResponse(profile), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, dto UpdateProfileDTO) (*user.Public, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound()
		}
		return nil, internal.NewInternalError("failed to load profile", err)
	}

	if dto.FullName != nil {
		fullName := strings.Join(strings.Fields(*dto.FullName), " ")
		parts := user.SplitName(fullName)
		profile.FullName = fullName
		profile.FirstName = parts.FirstName
		profile.LastName = parts.LastName
		profile.SecondName = parts.SecondName
	}

	if dto.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*dto.Email))
		if email != profile.Email {
			taken, err := s.repo.EmailTaken(ctx, email, profile.ID)
			if err != nil {
				return nil, internal.NewInternalError("failed to update profile", err)
			}
			if taken {
				return nil, internal.NewConflictError("User with this email already exists", internal.ErrCodeEmailAlreadyExists)
			}
			profile.Email = email
		}
	}

	if dto.ChangesPassword() {
		if !VerifyPassword(profile.PasswordHash, dto.CurrentPassword) {
			s.logger.Warn("update profile: current password mismatch", "user_id", userID)
			return nil, internal.NewUnauthorizedError("Current password is incorrect", internal.ErrCodeIncorrectPassword)
		}
		hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		profile.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		s.logger.Error("update profile: save failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	return user.FromDataModel(profile), nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, internal.ErrTokenExpired()
		}
		return nil, internal.ErrInvalidToken()
	}
	return claims, nil
}

// Authenticate resolves a bearer token to a stored user. A valid token whose
// user no longer exists is rejected with "User not found".
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*datamodel.UserProfile, error) {
	if tokenString == "" {
		return nil, internal.ErrMissingToken()
	}

	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewUnauthorizedError("User not found", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return profile, nil
}
