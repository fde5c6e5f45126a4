package ports

import (
	"context"
	"errors"
)

// ErrSessionNotFound marks a token that is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts session/token persistence. Tokens are opaque bearer
// strings resolved to user identities.
type SessionStore interface {
	Save(ctx context.Context, token string, userID int64) error
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) error
}
