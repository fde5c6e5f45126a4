package ports

import (
	"context"
	"errors"

	"github.com/emarket/emarket-api/internal/domains/users/domain"
)

var ErrUserNotFound = errors.New("user not found")

// Repository persists user identities.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
