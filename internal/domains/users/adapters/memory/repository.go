package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emarket/emarket-api/internal/domains/users/domain"
	"github.com/emarket/emarket-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[int64]*domain.User{}}
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	now := time.Now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	clone.UpdatedAt = now
	r.users[clone.ID] = &clone
	result := clone
	return &result, nil
}
