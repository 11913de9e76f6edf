package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

var ErrInvalidIdentity = errors.New("username and grade are required")

type IdentityService struct {
	repository IdentityRepository
}

func NewIdentityService(repository IdentityRepository) *IdentityService {
	return &IdentityService{repository: repository}
}

// Login persists username and grade for a Telegram user, replacing earlier values.
func (s *IdentityService) Login(ctx context.Context, userID int64, username, grade string) (*entities.Identity, error) {
	username = strings.TrimSpace(username)
	grade = strings.TrimSpace(grade)
	if username == "" || grade == "" {
		return nil, ErrInvalidIdentity
	}

	identity := entities.NewIdentity(userID, username, grade)
	if err := s.repository.Save(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Current returns the stored identity or ErrNotLoggedIn.
func (s *IdentityService) Current(ctx context.Context, userID int64) (*entities.Identity, error) {
	identity, err := s.repository.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrIdentityNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return identity, nil
}

func (s *IdentityService) Logout(ctx context.Context, userID int64) error {
	return s.repository.Delete(ctx, userID)
}
