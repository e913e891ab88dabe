package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Identity is what an external login provider tells us about the user.
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

type AuthService struct {
	repo domain.UserRepository
}

func NewAuthService(repo domain.UserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Login finds the user behind a provider identity, creating the account on first login
// and refreshing the stored profile on later ones.
func (s *AuthService) Login(ctx context.Context, identity Identity) (*domain.User, error) {
	user, err := s.repo.GetBySubject(ctx, identity.Provider, identity.Subject)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: failed to look up user: %w", err)
	}

	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = domain.NewUser(identity.Provider, identity.Subject, identity.Email, identity.Name)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("auth service: failed to create user: %w", err)
		}
		log.Printf("[AUTH] New %s user %s", user.Provider, user.ID)
		return user, nil
	}

	if user.Refresh(identity.Email, identity.Name) {
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("auth service: failed to update user: %w", err)
		}
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
