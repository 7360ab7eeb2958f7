package handlers

import (
	"context"

	"budget/internal/models"
	"budget/internal/workspace"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (models.User, string, error)
	Login(ctx context.Context, username, password string) (models.User, string, error)
	Get(ctx context.Context, id string) (models.User, error)
}

type WorkspaceProvider interface {
	Get(ctx context.Context, userID string) (*workspace.Workspace, error)
	Snapshot(ctx context.Context, userID string) ([]byte, error)
	Restore(ctx context.Context, userID string, data []byte) error
}
