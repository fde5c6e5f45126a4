package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
)

// User is a resolved caller identity. Orders are scoped to a user; the API
// never exposes one user's data to another.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds a user ensuring required invariants.
func NewUser(name, email string) (*User, error) {
	user := &User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
