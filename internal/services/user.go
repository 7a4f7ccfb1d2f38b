package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-story-backend/internal/models"
	"travel-story-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs bearer tokens for a user id
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// AuthResult is returned by registration and login
type AuthResult struct {
	User        models.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
}

// UserService handles registration, login and profile lookup
type UserService struct {
	userRepo   UserStore
	tokens     TokenIssuer
	bcryptCost int
	// compared against when the email is unknown so both login failures cost the same
	dummyHash []byte
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, tokens TokenIssuer, bcryptCost int) (*UserService, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}, nil
}

// CreateAccount registers a new user and returns a fresh token
func (s *UserService) CreateAccount(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" || password == "" {
		return nil, validationError("All fields are required")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, conflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedOn:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("User already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResult(user)
}

// Login verifies credentials and returns a fresh token. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("Email and Password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, unauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, unauthorizedError("Invalid credentials")
	}

	return s.authResult(user)
}

// GetCurrentUser resolves the user id carried by a verified token
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, unauthorizedError("Unauthorized")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorizedError("Unauthorized")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user.Public(), AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
