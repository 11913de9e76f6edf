package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
)

// handleLogin stores username and grade for the user.
// The grade may contain spaces: "/login amy Year 6".
func (h *Handler) handleLogin(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) == 0 {
			return h.showIdentity(ctx, chatID, userID)
		}
		if len(fields) < 2 {
			return h.send(newPlainMessage(chatID, msgLoginUsage))
		}

		identity, err := h.identityService.Login(ctx, userID, fields[0], strings.Join(fields[1:], " "))
		if err != nil {
			if errors.Is(err, service.ErrInvalidIdentity) {
				return h.send(newPlainMessage(chatID, msgLoginUsage))
			}
			return fmt.Errorf("login: %w", err)
		}

		h.logger.Info("user logged in",
			zap.Int64("user_id", userID),
			zap.String("username", identity.Username),
		)

		text := fmt.Sprintf("%s %s\n%s",
			md("✅ Logged in as"),
			bold(identity.Username),
			md(fmt.Sprintf("Grade %s. Send /quiz to start a test.", identity.Grade)),
		)
		return h.send(newMessage(chatID, text))
	}
}

// showIdentity tells a user who they are logged in as, or how to log in.
func (h *Handler) showIdentity(ctx context.Context, chatID, userID int64) error {
	identity, err := h.identityService.Current(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotLoggedIn) {
			return h.send(newPlainMessage(chatID, msgLoginUsage))
		}
		return fmt.Errorf("current identity: %w", err)
	}

	text := fmt.Sprintf("%s %s\n%s",
		md("👤 Logged in as"),
		bold(identity.Username),
		md(fmt.Sprintf("Grade %s. To change it: /login <username> <grade>", identity.Grade)),
	)
	return h.send(newMessage(chatID, text))
}

// handleLogout forgets the identity and the chat's session.
func (h *Handler) handleLogout(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.identityService.Logout(ctx, userID); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		h.quizService.Discard(chatID)

		h.logger.Info("user logged out", zap.Int64("user_id", userID))
		return h.send(newPlainMessage(chatID, msgLoggedOut))
	}
}

// handleQuiz resumes the chat's unfinished test or starts a new one.
func (h *Handler) handleQuiz(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if s, err := h.quizService.Session(chatID); err == nil && !s.Finished() {
			return h.repostSession(chatID, s)
		}

		return h.startQuiz(ctx, chatID, userID, 0)
	}
}

// handleRestart discards the chat's session and loads a fresh question set.
// A non-zero pageID is reused as the page of the new session.
func (h *Handler) handleRestart(userID int64, pageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.startQuiz(ctx, chatID, userID, pageID)
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID, userID int64, pageID int) error {
	s, err := h.quizService.Start(ctx, chatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotLoggedIn):
			return h.send(newPlainMessage(chatID, msgLoginRequired))
		case errors.Is(err, service.ErrNoQuestions):
			return h.send(newPlainMessage(chatID, msgFailedToLoadQuestions))
		default:
			h.logger.Warn("failed to load questions",
				zap.Int64("chat_id", chatID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgErrorLoadingQuestions))
		}
	}

	if pageID != 0 {
		h.quizService.SetPage(chatID, pageID)
		s.PageMessageID = pageID
	}

	return h.showSession(chatID, s)
}

// handleReview sends the answer review below the page.
func (h *Handler) handleReview() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		items, err := h.quizService.Review(chatID)
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}

		for _, text := range renderReview(items) {
			if err := h.send(newMessage(chatID, text)); err != nil {
				return err
			}
		}
		return nil
	}
}

// handleDraft puts a text message into the answer box of the current question.
func (h *Handler) handleDraft(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.quizService.SetDraft(chatID, text)
		if err != nil {
			return fmt.Errorf("set draft: %w", err)
		}

		return h.repostSession(chatID, s)
	}
}
