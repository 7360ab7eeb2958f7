package store

import (
	"context"

	"budget/internal/models"
)

// UserStore lives on the shared system database, not the per-user ledgers.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, id, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES (?, ?, ?)
	`, id, username, passwordHash)
	return err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}
