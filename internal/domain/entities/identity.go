package entities

import (
	"errors"
	"time"
)

var ErrIdentityNotFound = errors.New("identity not found")

// Identity is what the login step persists for a Telegram user.
type Identity struct {
	UserID    int64  // Telegram user ID
	Username  string // username known to the question server
	Grade     string // school grade, used by the server to pick the question bank
	CreatedAt time.Time
}

func NewIdentity(userID int64, username, grade string) *Identity {
	return &Identity{
		UserID:    userID,
		Username:  username,
		Grade:     grade,
		CreatedAt: time.Now(),
	}
}
