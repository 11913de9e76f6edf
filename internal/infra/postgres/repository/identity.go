package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/infra/postgres"
)

// IdentityRepository stores login identities in PostgreSQL.
type IdentityRepository struct {
	db postgres.DBTX
}

// NewIdentityRepository creates a new IdentityRepository with the provided database handle.
func NewIdentityRepository(db postgres.DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Save inserts a new identity or replaces username and grade of an existing one.
func (r *IdentityRepository) Save(ctx context.Context, identity *entities.Identity) error {
	query := `
		INSERT INTO identities (user_id, username, grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			grade = EXCLUDED.grade,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, identity.UserID, identity.Username, identity.Grade, identity.CreatedAt)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}

	return nil
}

// Get returns the identity of a Telegram user.
func (r *IdentityRepository) Get(ctx context.Context, userID int64) (*entities.Identity, error) {
	query := `
		SELECT user_id, username, grade, created_at
		FROM identities
		WHERE user_id = $1
	`

	var identity entities.Identity
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&identity.UserID,
		&identity.Username,
		&identity.Grade,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}

	return &identity, nil
}

// Delete removes the identity of a Telegram user. Deleting a missing identity is not an error.
func (r *IdentityRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM identities WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}
