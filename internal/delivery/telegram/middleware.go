package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
)

// HandlerFunc handles one command or text message in a chat.
type HandlerFunc func(ctx context.Context, chatID int64) error

// userErrors maps errors the user can act on to the reply they get.
var userErrors = []struct {
	err error
	msg string
}{
	{service.ErrNoSession, msgNoSession},
	{service.ErrNotLoggedIn, msgLoginRequired},
	{entities.ErrSessionFinished, msgSessionFinished},
}

// withErrorHandling replies to known errors in plain words and logs the rest
// under the command name before sending a generic error.
func (h *Handler) withErrorHandling(command string, fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		for _, ue := range userErrors {
			if errors.Is(err, ue.err) {
				h.sendError(chatID, ue.msg)
				return nil
			}
		}

		h.logger.Error("handle error",
			zap.String("command", command),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

// recoverUpdate keeps a panic in one update from stopping the update loop.
// Use as: defer h.recoverUpdate(updateID).
func (h *Handler) recoverUpdate(updateID int) {
	if r := recover(); r != nil {
		h.logger.Error("panic while handling update",
			zap.Int("update_id", updateID),
			zap.Error(fmt.Errorf("%v", r)),
			zap.Stack("stack"),
		)
	}
}
