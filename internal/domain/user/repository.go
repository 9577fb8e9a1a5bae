package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, u User) error
	FindByLogin(ctx context.Context, login string) (User, error)
}
