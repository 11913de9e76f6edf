package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	Start(ctx context.Context, chatID, userID int64) (entities.Session, error)
	Session(chatID int64) (entities.Session, error)
	Discard(chatID int64)
	SetPage(chatID int64, messageID int)
	SetDraft(chatID int64, text string) (entities.Session, error)
	Jump(chatID int64, i int) (entities.Session, error)
	Retry(chatID int64) (entities.Session, error)
	RequestEarlySubmit(chatID int64) (entities.Session, error)
	CancelEarlySubmit(chatID int64) (entities.Session, error)
	ConfirmEarlySubmit(ctx context.Context, chatID int64) (entities.Session, error)
	Advance(ctx context.Context, chatID int64) (entities.Session, error)
	Submit(ctx context.Context, chatID int64) (entities.Session, error)
	Review(chatID int64) ([]service.ReviewItem, error)
}

type IdentityService interface {
	Login(ctx context.Context, userID int64, username, grade string) (*entities.Identity, error)
	Current(ctx context.Context, userID int64) (*entities.Identity, error)
	Logout(ctx context.Context, userID int64) error
}
