// Package auth handles registration, login and JWT issuance.
package auth

import (
	"errors"
	"fmt"
	"time"

	"pulsa/internal/models"
	"pulsa/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email or phone already registered")
)

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type Service interface {
	Register(input RegisterInput) (*models.User, error)
	Login(email, password string) (string, *models.User, error)
}

// Config holds auth service configuration.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

const DefaultTokenTTL = 24 * time.Hour

type service struct {
	users  repositories.UserRepository
	config Config
}

func NewService(users repositories.UserRepository, config Config) Service {
	if users == nil {
		panic("user repository is required")
	}
	if config.JWTSecret == "" {
		panic("jwt secret is required")
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = DefaultTokenTTL
	}
	return &service{users: users, config: config}
}

func (s *service) Register(input RegisterInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
		Phone:    input.Phone,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &models.UserClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}
