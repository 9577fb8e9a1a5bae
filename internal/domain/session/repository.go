package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (string, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
