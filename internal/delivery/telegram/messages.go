// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Inline quiz texts.
const (
	msgFailedToLoadQuestions = "❌ Failed to load questions."
	msgErrorLoadingQuestions = "❌ Error loading questions."
	msgEmptyAnswer           = "Please enter your answer before submitting."
	msgFeedbackFailed        = "❌ Error generating feedback. Please try again."
	msgFeedbackFallback      = "Error getting feedback."
	msgNothingAnswered       = "Please answer at least one question before submitting the test."
	msgScoreFailed           = "❌ Error calculating score. Please try again."
	msgScoreFailedReason     = "❌ Error calculating score: "
	msgGeneratingFeedback    = "🔄 Generating feedback..."
	msgCalculatingScore      = "Calculating your score..."
	msgProcessingAnswers     = "🔄 Processing your answers..."
	msgTypeYourAnswer        = "Type your answer and send it as a message."
)

// Chat texts.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgLoginRequired   = "Missing username or grade. Please log in first:\n/login <username> <grade>"
	msgLoginUsage      = "Usage: /login <username> <grade>\nExample: /login amy 6"
	msgLoggedOut       = "You are logged out. Use /login to sign in again."
	msgNoSession       = "No active test. Send /quiz to start one."
	msgSessionFinished = "This test is finished. Send /restart to take another one."
	msgUnknownCommand  = "Unknown command. Send /help to see what I can do."
	msgHelp            = "📘 Commands\n\n" +
		"/login <username> <grade> · sign in\n" +
		"/quiz · start or resume a test\n" +
		"/restart · start a new test\n" +
		"/review · compare your answers with the reference answers\n" +
		"/logout · sign out\n\n" +
		"Type your answer as a normal message, then press Submit Answer. " +
		"Use the numbered buttons to jump between questions."
	msgWelcome = "👋 Welcome to the feedback quiz!\n\n" +
		"Answer open questions in your own words and get instant feedback on each answer. " +
		"When you are done, submit the test to get your score.\n\n" +
		msgHelp
)

// Button labels.
const (
	btnSubmitAnswer = "📤 Submit Answer"
	btnRetry        = "🔁 Retry"
	btnNext         = "➡️ Next"
	btnSubmitTest   = "🏁 Submit Test"
	btnSubmitEarly  = "📝 Submit Test Early"
	btnReview       = "📖 Review"
	btnConfirmEarly = "✅ Yes, submit"
	btnCancelEarly  = "↩️ Keep answering"
	btnRestart      = "🔄 Take Another Test"
	btnLogout       = "🚪 Logout"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// formatNumber prints scores without trailing zeros: 4, 1.5, 37.5.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// maxMessageRunes is the Telegram limit on message text length.
const maxMessageRunes = 4096

// mdClip escapes s for MarkdownV2 and cuts it so the escaped text, including
// the trailing ellipsis, is at most n runes long.
func mdClip(s string, n int) string {
	escaped := md(s)
	if utf8.RuneCountInString(escaped) <= n {
		return escaped
	}

	var sb strings.Builder
	used := 0
	for _, r := range s {
		e := md(string(r))
		w := utf8.RuneCountInString(e)
		if used+w > n-1 {
			break
		}
		sb.WriteString(e)
		used += w
	}

	return strings.TrimRight(sb.String(), " \n") + "…"
}

func boldClip(s string, n int) string {
	return "*" + mdClip(s, n-2) + "*"
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
