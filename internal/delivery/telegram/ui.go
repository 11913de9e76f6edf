package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

// Telegram renders at most 8 buttons per row comfortably.
const paletteRowSize = 8

// statusMarker returns the palette marker for a question status.
func statusMarker(st entities.Status) string {
	switch st {
	case entities.StatusAnswered:
		return "🟢"
	case entities.StatusNotAnswered:
		return "🟡"
	default:
		return "⚪"
	}
}

// paletteLabel labels the palette button of question i; the current one is bracketed.
func paletteLabel(i int, st entities.Status, current bool) string {
	label := fmt.Sprintf("%s %d", statusMarker(st), i+1)
	if current {
		return "[" + label + "]"
	}
	return label
}

// buildPaletteRows builds one numbered button per question.
func buildPaletteRows(s entities.Session) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, st := range s.Statuses {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			paletteLabel(i, st, i == s.CurrentIndex),
			buildJumpCallback(i),
		))
		if len(row) == paletteRowSize {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return rows
}

// buildQuestionKeyboard builds palette and controls for the answering phase.
func buildQuestionKeyboard(s entities.Session) tgbotapi.InlineKeyboardMarkup {
	rows := buildPaletteRows(s)

	if s.CurrentStatus() == entities.StatusAnswered {
		next := btnNext
		if s.IsLast() {
			next = btnSubmitTest
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnRetry, buildQuizCallback(quizRetry)),
			tgbotapi.NewInlineKeyboardButtonData(next, buildQuizCallback(quizNext)),
		))
	} else {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnSubmitAnswer, buildQuizCallback(quizSubmit)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnSubmitEarly, buildQuizCallback(quizEarly)),
		tgbotapi.NewInlineKeyboardButtonData(btnReview, buildQuizCallback(quizReview)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildConfirmEarlyKeyboard builds keyboard for early submission confirmation.
func buildConfirmEarlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnConfirmEarly, buildQuizCallback(quizEarlyConfirm)),
			tgbotapi.NewInlineKeyboardButtonData(btnCancelEarly, buildQuizCallback(quizEarlyCancel)),
		),
	)
}

// buildFinishedKeyboard builds keyboard for the score screen and the score error screen.
func buildFinishedKeyboard(withReview bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnRestart, buildQuizCallback(quizRestart)),
		),
	}

	last := tgbotapi.NewInlineKeyboardRow()
	if withReview {
		last = append(last, tgbotapi.NewInlineKeyboardButtonData(btnReview, buildQuizCallback(quizReview)))
	}
	last = append(last, tgbotapi.NewInlineKeyboardButtonData(btnLogout, buildQuizCallback(quizLogout)))

	return tgbotapi.NewInlineKeyboardMarkup(append(rows, last)...)
}
