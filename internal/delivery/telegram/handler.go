package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

// Commands lists the bot commands registered with Telegram.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "login", Description: "Sign in: /login <username> <grade>"},
	{Command: "quiz", Description: "Start or resume a test"},
	{Command: "restart", Description: "Start a new test"},
	{Command: "review", Description: "Compare your answers with the reference"},
	{Command: "logout", Description: "Sign out"},
	{Command: "help", Description: "Help"},
}

type Handler struct {
	bot             Bot
	logger          *zap.Logger
	quizService     QuizService
	identityService IdentityService
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	identityService IdentityService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		quizService:     quizService,
		identityService: identityService,
	}
}

// Run consumes updates one at a time until ctx is done.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer h.recoverUpdate(update.UpdateID)

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Bool("command", update.Message.IsCommand()),
	)

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.send(newPlainMessage(chatID, msgWelcome))

		case "help":
			_ = h.send(newPlainMessage(chatID, msgHelp))

		case "login":
			_ = h.withErrorHandling("login", h.handleLogin(userID, update.Message.CommandArguments()))(ctx, chatID)

		case "logout":
			_ = h.withErrorHandling("logout", h.handleLogout(userID))(ctx, chatID)

		case "quiz":
			_ = h.withErrorHandling("quiz", h.handleQuiz(userID))(ctx, chatID)

		case "restart":
			_ = h.withErrorHandling("restart", h.handleRestart(userID, 0))(ctx, chatID)

		case "review":
			_ = h.withErrorHandling("review", h.handleReview())(ctx, chatID)

		default:
			_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling("draft", h.handleDraft(update.Message.Text))(ctx, chatID)
}

// showSession renders the session onto its page message, sending a new page
// when there is none or the old one can no longer be edited.
func (h *Handler) showSession(chatID int64, s entities.Session) error {
	text, kb := renderSession(s)

	if s.PageMessageID != 0 {
		edit := newEdit(chatID, s.PageMessageID, text)
		edit.ReplyMarkup = kb

		_, err := h.bot.Send(edit)
		if err == nil || isNotModified(err) {
			return nil
		}

		h.logger.Debug("page edit failed, sending new page",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", s.PageMessageID),
			zap.Error(err),
		)
	}

	return h.sendPage(chatID, text, kb)
}

// repostSession deletes the current page and sends it again below the
// latest chat message.
func (h *Handler) repostSession(chatID int64, s entities.Session) error {
	if s.PageMessageID != 0 {
		h.deleteMessage(chatID, s.PageMessageID)
	}

	text, kb := renderSession(s)
	return h.sendPage(chatID, text, kb)
}

func (h *Handler) sendPage(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	msg := newMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}

	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}

	h.quizService.SetPage(chatID, sent.MessageID)
	return nil
}

// showLoading replaces the page with a view without controls.
func (h *Handler) showLoading(chatID int64, s entities.Session, text string) {
	if s.PageMessageID == 0 {
		return
	}
	h.send(newEdit(chatID, s.PageMessageID, text))
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

func (h *Handler) answerCallback(id, alert string) {
	cb := tgbotapi.NewCallback(id, "")
	if alert != "" {
		cb = tgbotapi.NewCallbackWithAlert(id, alert)
	}

	if _, err := h.bot.Request(cb); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newPlainMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
