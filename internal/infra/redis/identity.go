// Package redis holds the redis-backed identity store.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// IdentityStore keeps login identities in redis hashes.
type IdentityStore struct {
	client goredis.Cmdable
}

func NewIdentityStore(client goredis.Cmdable) *IdentityStore {
	return &IdentityStore{client: client}
}

func identityKey(userID int64) string {
	return fmt.Sprintf("identity:%d", userID)
}

func (s *IdentityStore) Save(ctx context.Context, identity *entities.Identity) error {
	err := s.client.HSet(ctx, identityKey(identity.UserID),
		"username", identity.Username,
		"grade", identity.Grade,
		"created_at", identity.CreatedAt.UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Get(ctx context.Context, userID int64) (*entities.Identity, error) {
	fields, err := s.client.HGetAll(ctx, identityKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	if len(fields) == 0 {
		return nil, entities.ErrIdentityNotFound
	}

	identity := &entities.Identity{
		UserID:   userID,
		Username: fields["username"],
		Grade:    fields["grade"],
	}
	if ts, err := time.Parse(time.RFC3339, fields["created_at"]); err == nil {
		identity.CreatedAt = ts
	}

	return identity, nil
}

func (s *IdentityStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, identityKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable.
func (s *IdentityStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
