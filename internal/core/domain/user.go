package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidIdentity    = errors.New("identity provider returned no subject")
	ErrUnauthorized       = errors.New("unauthorized access")
)

// User is an account created from an external identity provider login.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Provider  string    `json:"provider" db:"provider"`
	Subject   string    `json:"-" db:"subject"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(provider, subject, email, name string) (*User, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(provider) == "" {
		return nil, ErrInvalidIdentity
	}

	email = strings.TrimSpace(email)
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(email),
		Name:      strings.TrimSpace(name),
		Provider:  provider,
		Subject:   subject,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Refresh copies profile fields that may change at the provider between logins.
func (u *User) Refresh(email, name string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	changed := false
	if email != "" && email != u.Email && isValidEmail(email) {
		u.Email = email
		changed = true
	}
	if name != "" && name != u.Name {
		u.Name = name
		changed = true
	}
	if changed {
		u.UpdatedAt = time.Now().UTC()
	}
	return changed
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
