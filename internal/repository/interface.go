package repository

import (
	"context"
	"errors"

	"inbox-dashboard/internal/model"
)

var ErrActionNotFound = errors.New("action not found")

// ActionRepository defines the interface for action record operations
type ActionRepository interface {
	Create(ctx context.Context, action *model.ActionRecord) error
	FindByID(ctx context.Context, id string) (*model.ActionRecord, error)
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*model.ActionRecord, error)
	Update(ctx context.Context, action *model.ActionRecord) error
	DeleteBySession(ctx context.Context, sessionID string) error
}
