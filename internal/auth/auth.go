package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	"github.com/frahmantamala/task-tracker/internal/core/user"
	"github.com/frahmantamala/task-tracker/internal/core/view"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenGenerator issues and verifies session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret []byte
	AccessTokenTTL    time.Duration
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	// ErrNotFound is returned by repositories when no profile matches.
	ErrNotFound = errors.New("user profile not found")
)

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret: []byte(secret),
		AccessTokenTTL:    ttl,
	}
}

// GenerateAccessToken creates a signed HS256 token for the user
func (j *JWTTokenGenerator) GenerateAccessToken(userID string, email string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.AccessTokenSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	SecondName *string `json:"secondName"`
	FullName   string  `json:"fullName"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ProfileResponse struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	FullName      string       `json:"fullName"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	SecondName    *string      `json:"secondName"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	WorkerProfile *view.Worker `json:"workerProfile"`
}

func toUserResponse(u *datamodel.UserProfile) UserResponse {
	parts := user.PartsOf(u)
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  parts.FirstName,
		LastName:   parts.LastName,
		SecondName: parts.SecondName,
		FullName:   u.FullName,
	}
}

func toProfileResponse(u *datamodel.UserProfile) *ProfileResponse {
	parts := user.PartsOf(u)
	return &ProfileResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		FirstName:     parts.FirstName,
		LastName:      parts.LastName,
		SecondName:    parts.SecondName,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		WorkerProfile: view.WorkerOf(u.Worker),
	}
}
