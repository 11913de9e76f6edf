package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/feedbackapi"
)

var (
	ErrNotLoggedIn  = errors.New("user is not logged in")
	ErrNoQuestions  = errors.New("no questions available")
	ErrNoSession    = errors.New("no active quiz session")
	ErrFeedback     = errors.New("feedback request failed")
	ErrScoreRequest = errors.New("score request failed")
)

// QuizService drives one quiz session per chat.
//
// Each operation loads the chat's session, applies one transition and stores
// the result, so the returned Session is always what the chat should display.
type QuizService struct {
	api        QuizAPI
	identities IdentityRepository
	sessions   SessionStorage
	logger     *zap.Logger
}

func NewQuizService(
	api QuizAPI,
	identities IdentityRepository,
	sessions SessionStorage,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		api:        api,
		identities: identities,
		sessions:   sessions,
		logger:     logger,
	}
}

// Start discards any previous session of the chat and loads a fresh question set.
// On failure no session is kept.
func (s *QuizService) Start(ctx context.Context, chatID, userID int64) (entities.Session, error) {
	s.sessions.Delete(chatID)

	identity, err := s.identities.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrIdentityNotFound) {
			return entities.Session{}, ErrNotLoggedIn
		}
		return entities.Session{}, fmt.Errorf("get identity: %w", err)
	}

	questions, err := s.api.GetQuestions(ctx, identity.Username)
	if err != nil {
		// An error response from the server carries no question set.
		var apiErr *feedbackapi.APIError
		if errors.As(err, &apiErr) {
			s.logger.Warn("question server refused the request",
				zap.Int64("chat_id", chatID),
				zap.Int("status", apiErr.StatusCode),
				zap.String("message", apiErr.Message),
			)
			return entities.Session{}, fmt.Errorf("%w: %w", ErrNoQuestions, err)
		}
		return entities.Session{}, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return entities.Session{}, ErrNoQuestions
	}

	session := entities.NewSession(chatID, *identity, questions)
	s.sessions.Put(chatID, session)

	s.logger.Info("quiz session started",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID.String()),
		zap.Int("questions", len(questions)),
	)

	return session, nil
}

// Session returns the current session of the chat.
func (s *QuizService) Session(chatID int64) (entities.Session, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.Session{}, ErrNoSession
	}
	return session, nil
}

// Discard forgets the chat's session.
func (s *QuizService) Discard(chatID int64) {
	s.sessions.Delete(chatID)
}

// SetPage remembers which chat message displays the session.
func (s *QuizService) SetPage(chatID int64, messageID int) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return
	}
	session.PageMessageID = messageID
	s.sessions.Put(chatID, session)
}

// SetDraft replaces the answer box of the current question.
func (s *QuizService) SetDraft(chatID int64, text string) (entities.Session, error) {
	return s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.SetDraft(text)
	})
}

// Jump saves the draft and moves to question i.
func (s *QuizService) Jump(chatID int64, i int) (entities.Session, error) {
	return s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.Jump(i)
	})
}

// Retry reopens the answered current question.
func (s *QuizService) Retry(chatID int64) (entities.Session, error) {
	return s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.Retry()
	})
}

// RequestEarlySubmit asks for confirmation before ending the quiz early.
// It fails with entities.ErrNothingAnswered when no question is answered yet.
func (s *QuizService) RequestEarlySubmit(chatID int64) (entities.Session, error) {
	return s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.RequestEarlySubmit()
	})
}

func (s *QuizService) CancelEarlySubmit(chatID int64) (entities.Session, error) {
	return s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.CancelEarlySubmit(), nil
	})
}

// ConfirmEarlySubmit saves the draft and requests the score.
func (s *QuizService) ConfirmEarlySubmit(ctx context.Context, chatID int64) (entities.Session, error) {
	session, err := s.apply(chatID, func(cur entities.Session) (entities.Session, error) {
		return cur.ConfirmEarlySubmit()
	})
	if err != nil {
		return session, err
	}

	return s.score(ctx, session)
}

// Advance saves the draft and moves on; on the last question it requests the score.
func (s *QuizService) Advance(ctx context.Context, chatID int64) (entities.Session, error) {
	cur, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.Session{}, ErrNoSession
	}

	next, last, err := cur.Advance()
	if err != nil {
		return cur, err
	}
	s.sessions.Put(chatID, next)

	if !last {
		return next, nil
	}
	return s.score(ctx, next)
}

// Submit sends the draft of the current question for feedback.
//
// Empty drafts are rejected with entities.ErrEmptyAnswer without a request.
// When the request fails the question keeps its status and ErrFeedback is
// returned together with the session showing the inline error.
func (s *QuizService) Submit(ctx context.Context, chatID int64) (entities.Session, error) {
	cur, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.Session{}, ErrNoSession
	}

	pending, answer, err := cur.BeginSubmit(cur.Draft)
	if err != nil {
		if errors.Is(err, entities.ErrEmptyAnswer) {
			s.sessions.Put(chatID, pending)
		}
		return pending, err
	}
	s.sessions.Put(chatID, pending)

	index := pending.CurrentIndex
	feedback, err := s.api.GenerateFeedback(ctx, pending.Current(), answer)
	if err != nil {
		s.logger.Warn("feedback request failed",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", pending.ID.String()),
			zap.Int("question", index+1),
			zap.Error(err),
		)

		failed := s.updateIfCurrent(chatID, pending, func(cur entities.Session) entities.Session {
			return cur.FailSubmit(index)
		})
		return failed, fmt.Errorf("%w: %w", ErrFeedback, err)
	}

	done := s.updateIfCurrent(chatID, pending, func(cur entities.Session) entities.Session {
		return cur.CompleteSubmit(index, feedback)
	})
	return done, nil
}

// Review compares the stored answers with the reference answers.
func (s *QuizService) Review(chatID int64) ([]ReviewItem, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return nil, ErrNoSession
	}
	return BuildReview(session), nil
}

func (s *QuizService) score(ctx context.Context, session entities.Session) (entities.Session, error) {
	result, err := s.api.CalculateScore(ctx, session.Questions, session.AnswersForScoring())
	if err != nil {
		s.logger.Warn("score request failed",
			zap.Int64("chat_id", session.ChatID),
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)

		reason := ""
		var apiErr *feedbackapi.APIError
		if errors.As(err, &apiErr) {
			reason = apiErr.Message
		}

		failed := s.updateIfCurrent(session.ChatID, session, func(cur entities.Session) entities.Session {
			return cur.WithScoreError(reason)
		})
		return failed, fmt.Errorf("%w: %w", ErrScoreRequest, err)
	}

	scored := s.updateIfCurrent(session.ChatID, session, func(cur entities.Session) entities.Session {
		return cur.WithScore(*result)
	})

	s.logger.Info("quiz session scored",
		zap.Int64("chat_id", session.ChatID),
		zap.String("session_id", session.ID.String()),
		zap.Float64("total_score", result.TotalScore),
		zap.Float64("max_score", result.MaxScore),
		zap.String("grade", result.Grade),
	)

	return scored, nil
}

// updateIfCurrent applies fn to the stored session when it is still the quiz
// the request was made for. A session restarted or evicted in the meantime is
// left alone and fn is applied to the request's own snapshot only.
func (s *QuizService) updateIfCurrent(
	chatID int64, snapshot entities.Session, fn func(entities.Session) entities.Session,
) entities.Session {
	cur, ok := s.sessions.Get(chatID)
	if !ok || cur.ID != snapshot.ID {
		return fn(snapshot)
	}

	next := fn(cur)
	s.sessions.Put(chatID, next)
	return next
}

func (s *QuizService) apply(chatID int64, fn func(entities.Session) (entities.Session, error)) (entities.Session, error) {
	cur, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.Session{}, ErrNoSession
	}

	next, err := fn(cur)
	if err != nil {
		// Transitions that fail on validation still carry a notice worth showing.
		if errors.Is(err, entities.ErrNothingAnswered) {
			s.sessions.Put(chatID, next)
		}
		return next, err
	}

	s.sessions.Put(chatID, next)
	return next, nil
}
