package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	if data.Action != actionQuiz {
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	// Buttons pressed on any page message make that message the page.
	h.quizService.SetPage(chatID, cb.Message.MessageID)

	alert, err := h.handleQuizAction(ctx, chatID, cb.From.ID, cb.Message.MessageID, data)
	if err != nil {
		h.logger.Error("handle callback error",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, alert)
}

// handleQuizAction runs one quiz control and returns the alert to show, if any.
func (h *Handler) handleQuizAction(
	ctx context.Context, chatID, userID int64, messageID int, data callbackData,
) (string, error) {
	switch data.subAction() {
	case quizJump:
		i, ok := data.intParam(1)
		if !ok {
			return "", fmt.Errorf("invalid jump callback: %q", data.Raw)
		}
		s, err := h.quizService.Jump(chatID, i)
		return h.present(chatID, s, err)

	case quizSubmit:
		if cur, err := h.quizService.Session(chatID); err == nil &&
			strings.TrimSpace(cur.Draft) != "" && cur.CurrentStatus() != entities.StatusAnswered && !cur.Finished() {
			h.showLoading(chatID, cur, renderFeedbackLoading(cur))
		}
		s, err := h.quizService.Submit(ctx, chatID)
		return h.present(chatID, s, err)

	case quizRetry:
		s, err := h.quizService.Retry(chatID)
		return h.present(chatID, s, err)

	case quizNext:
		if cur, err := h.quizService.Session(chatID); err == nil && cur.IsLast() && !cur.Finished() {
			h.showLoading(chatID, cur, renderScoreLoading(cur))
		}
		s, err := h.quizService.Advance(ctx, chatID)
		return h.present(chatID, s, err)

	case quizEarly:
		s, err := h.quizService.RequestEarlySubmit(chatID)
		return h.present(chatID, s, err)

	case quizEarlyConfirm:
		if cur, err := h.quizService.Session(chatID); err == nil && cur.Phase == entities.PhaseConfirmEarly {
			h.showLoading(chatID, cur, renderScoreLoading(cur))
		}
		s, err := h.quizService.ConfirmEarlySubmit(ctx, chatID)
		return h.present(chatID, s, err)

	case quizEarlyCancel:
		s, err := h.quizService.CancelEarlySubmit(chatID)
		return h.present(chatID, s, err)

	case quizReview:
		return "", h.withErrorHandling("review", h.handleReview())(ctx, chatID)

	case quizRestart:
		return "", h.withErrorHandling("restart", h.handleRestart(userID, messageID))(ctx, chatID)

	case quizLogout:
		h.deleteMessage(chatID, messageID)
		return "", h.withErrorHandling("logout", h.handleLogout(userID))(ctx, chatID)

	default:
		return "", fmt.Errorf("unknown quiz action: %q", data.Raw)
	}
}

// present shows the outcome of a quiz transition. Expected failures are
// rendered on the page; only unexpected errors are returned.
func (h *Handler) present(chatID int64, s entities.Session, err error) (string, error) {
	alert := ""

	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoSession):
		return msgNoSession, nil
	case errors.Is(err, entities.ErrEmptyAnswer):
		alert = msgEmptyAnswer
	case errors.Is(err, entities.ErrNothingAnswered):
		alert = msgNothingAnswered
	case errors.Is(err, service.ErrFeedback),
		errors.Is(err, service.ErrScoreRequest):
		// The session carries the inline error.
	case errors.Is(err, entities.ErrSessionFinished),
		errors.Is(err, entities.ErrAlreadyAnswered),
		errors.Is(err, entities.ErrNotAnswered),
		errors.Is(err, entities.ErrNotConfirming),
		errors.Is(err, entities.ErrQuestionOutOfRange):
		// Stale button; redraw the current state.
		h.logger.Debug("stale quiz control", zap.Int64("chat_id", chatID), zap.Error(err))
	default:
		return "", err
	}

	if !s.Valid() {
		return alert, nil
	}
	return alert, h.showSession(chatID, s)
}
