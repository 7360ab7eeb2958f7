package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budget/internal/auth"
	"budget/internal/db"
	"budget/internal/models"

	"github.com/google/uuid"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type UserStore interface {
	Create(ctx context.Context, id, username, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// UserService handles registration and login against the shared system
// database. Ledger data lives elsewhere, one database file per user.
type UserService struct {
	userStore UserStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(userStore UserStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userStore: userStore,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *UserService) Register(ctx context.Context, username, password string) (models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	id := uuid.NewString()
	if err := s.userStore.Create(ctx, id, username, hash); err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, "", ErrUsernameTaken
		}
		return models.User{}, "", err
	}
	token, err := auth.GenerateToken(s.jwtSecret, id, s.tokenTTL)
	if err != nil {
		return models.User{}, "", err
	}
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, "", ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
