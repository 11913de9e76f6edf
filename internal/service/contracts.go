package service

import (
	"context"
	"time"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

// QuizAPI is the remote question/feedback/scoring server.
type QuizAPI interface {
	GetQuestions(ctx context.Context, username string) ([]entities.Question, error)
	GenerateFeedback(ctx context.Context, q entities.Question, studentAnswer string) (string, error)
	CalculateScore(ctx context.Context, questions []entities.Question, answers []string) (*entities.ScoreResult, error)
}

// IdentityRepository persists what the login step knows about a user.
type IdentityRepository interface {
	Save(ctx context.Context, identity *entities.Identity) error
	Get(ctx context.Context, userID int64) (*entities.Identity, error)
	Delete(ctx context.Context, userID int64) error
}

// SessionStorage keeps one quiz session per chat.
type SessionStorage interface {
	Put(chatID int64, session entities.Session)
	Get(chatID int64) (entities.Session, bool)
	Delete(chatID int64)
}

// IdleSessionSweeper drops sessions that were not touched for ttl and
// reports how many are left.
type IdleSessionSweeper interface {
	DeleteIdle(ttl time.Duration) int
	Len() int
}
