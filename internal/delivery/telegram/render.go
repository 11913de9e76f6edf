package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/feedback-quiz-bot/internal/service"
)

// Rune limits of escaped user and server text on one page. Together with
// the fixed labels they keep every page under maxMessageRunes.
const (
	identityFieldLimit = 64
	questionLimit      = 800
	draftLimit         = 1400
	feedbackLimit      = 1400
	scoreErrorLimit    = 1500

	reviewQuestionLimit = 700
	reviewAnswerLimit   = 1300
)

// renderSession projects the session onto the page text and its keyboard.
func renderSession(s entities.Session) (string, *tgbotapi.InlineKeyboardMarkup) {
	var (
		text string
		kb   tgbotapi.InlineKeyboardMarkup
	)

	switch s.Phase {
	case entities.PhaseScored:
		text, kb = renderScore(s), buildFinishedKeyboard(true)
	case entities.PhaseScoreFailed:
		text, kb = renderScoreFailed(s), buildFinishedKeyboard(false)
	case entities.PhaseConfirmEarly:
		text, kb = renderConfirmEarly(s), buildConfirmEarlyKeyboard()
	default:
		text, kb = renderQuestion(s), buildQuestionKeyboard(s)
	}

	return text, &kb
}

func renderHeader(s entities.Session) string {
	return fmt.Sprintf("%s %s%s",
		boldClip(s.Identity.Username, identityFieldLimit),
		md("· Grade "),
		mdClip(s.Identity.Grade, identityFieldLimit))
}

func renderQuestionTitle(s entities.Session) string {
	return md(fmt.Sprintf("Question %d of %d · %d answered",
		s.CurrentIndex+1, len(s.Questions), s.AnsweredCount()))
}

func renderQuestion(s entities.Session) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(s))
	sb.WriteString("\n")
	sb.WriteString(renderQuestionTitle(s))
	sb.WriteString("\n\n")
	sb.WriteString(boldClip(s.Current().Question, questionLimit))
	sb.WriteString("\n\n")

	sb.WriteString(md("✏️ Your answer:"))
	sb.WriteString("\n")
	if strings.TrimSpace(s.Draft) == "" {
		sb.WriteString(italic(msgTypeYourAnswer))
	} else {
		sb.WriteString(mdClip(s.Draft, draftLimit))
	}

	switch {
	case s.Feedback != "":
		sb.WriteString("\n\n")
		sb.WriteString(md("💬 Feedback:"))
		sb.WriteString("\n")
		sb.WriteString(mdClip(s.Feedback, feedbackLimit))
	case s.Notice == entities.NoticeFeedbackFallback:
		sb.WriteString("\n\n")
		sb.WriteString(md("💬 Feedback:"))
		sb.WriteString("\n")
		sb.WriteString(md(msgFeedbackFallback))
	}

	if notice := noticeText(s.Notice); notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(md(notice))
	}

	return sb.String()
}

func noticeText(n entities.Notice) string {
	switch n {
	case entities.NoticeEmptyAnswer:
		return "⚠️ " + msgEmptyAnswer
	case entities.NoticeFeedbackFailed:
		return msgFeedbackFailed
	case entities.NoticeNothingAnswered:
		return "⚠️ " + msgNothingAnswered
	default:
		return ""
	}
}

// renderFeedbackLoading is shown while the feedback request is in flight.
// It has no keyboard, so the submit control is gone until the answer arrives.
func renderFeedbackLoading(s entities.Session) string {
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s\n\n%s",
		renderHeader(s),
		renderQuestionTitle(s),
		boldClip(s.Current().Question, questionLimit),
		md("✏️ Your answer:"),
		mdClip(s.Draft, draftLimit),
		md(msgGeneratingFeedback),
	)
}

// renderScoreLoading is shown while the score request is in flight.
func renderScoreLoading(s entities.Session) string {
	return fmt.Sprintf("%s\n\n%s\n%s",
		renderHeader(s),
		bold(msgCalculatingScore),
		md(msgProcessingAnswers),
	)
}

func renderConfirmEarly(s entities.Session) string {
	answered := s.AnsweredCount()
	return fmt.Sprintf("%s\n\n%s\n%s",
		renderHeader(s),
		bold("Submit the test now?"),
		md(fmt.Sprintf("You have answered %d of %d questions. Unanswered questions are submitted blank.",
			answered, len(s.Questions))),
	)
}

func renderScore(s entities.Session) string {
	res := s.Score
	if res == nil {
		return renderScoreFailed(s)
	}

	var sb strings.Builder

	sb.WriteString(renderHeader(s))
	sb.WriteString("\n\n")
	sb.WriteString(bold("🎉 Test Completed!"))
	sb.WriteString("\n")
	sb.WriteString(md("Here are your results:"))
	sb.WriteString("\n\n")

	sb.WriteString(bold(fmt.Sprintf("Final Score: %s/%s (%s%%)",
		formatNumber(res.TotalScore), formatNumber(res.MaxScore), formatNumber(res.Percentage))))
	sb.WriteString("\n")
	sb.WriteString(md(gradeEmoji(res.Grade) + " Grade: " + res.Grade))
	sb.WriteString("\n\n")

	if len(res.QuestionScores) > 0 {
		sb.WriteString(bold("Question-wise Breakdown:"))
		for i, q := range res.QuestionScores {
			entry := "\n" + md(fmt.Sprintf("Question %d: %s/%s",
				q.QuestionNumber, formatNumber(q.Score), formatNumber(q.MaxScore))) +
				"\n" + md(buildProgressBar(q.Fraction(), scoreBarLength))

			if runeLen(sb.String())+runeLen(entry) > scoreBreakdownBudget {
				sb.WriteString("\n")
				sb.WriteString(md(fmt.Sprintf("…and %d more", len(res.QuestionScores)-i)))
				break
			}
			sb.WriteString(entry)
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(bold("Scoring Criteria:"))
	sb.WriteString("\n")
	sb.WriteString(md("• 1 mark for including important keywords (60%+ coverage)\n" +
		"• 1 mark for correct spelling of key terms\n" +
		"• Partial marks awarded for partial coverage/accuracy"))

	return sb.String()
}

// scoreBreakdownBudget leaves room for the scoring criteria after the
// per-question breakdown.
const scoreBreakdownBudget = maxMessageRunes - 500

func gradeEmoji(grade string) string {
	switch strings.TrimRight(grade, "+") {
	case "A":
		return "🏆"
	case "B":
		return "🥈"
	case "C":
		return "🥉"
	default:
		return "🏅"
	}
}

func renderScoreFailed(s entities.Session) string {
	reason := msgScoreFailed
	if s.ScoreError != "" {
		reason = msgScoreFailedReason + s.ScoreError
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s",
		renderHeader(s),
		bold(msgCalculatingScore),
		mdClip(reason, scoreErrorLimit),
	)
}

// renderReview renders the side-by-side answer review, split into as many
// messages as needed to stay under maxMessageRunes each.
func renderReview(items []service.ReviewItem) []string {
	var (
		chunks  []string
		current = bold("📖 Answer Review")
	)

	appendBlock := func(block string) {
		if runeLen(current)+2+runeLen(block) > maxMessageRunes {
			chunks = append(chunks, current)
			current = block
			return
		}
		current += "\n\n" + block
	}

	for _, it := range items {
		appendBlock(renderReviewItem(it))
	}
	appendBlock(italic("Keyword coverage is a hint only and does not affect your score."))

	return append(chunks, current)
}

func renderReviewItem(it service.ReviewItem) string {
	answer := italic("not answered")
	if strings.TrimSpace(it.UserAnswer) != "" {
		answer = mdClip(it.UserAnswer, reviewAnswerLimit)
	}

	return fmt.Sprintf("%s\n%s%s\n%s%s\n%s",
		boldClip(fmt.Sprintf("Q%d. %s", it.Number, it.Question), reviewQuestionLimit),
		md("Your answer: "),
		answer,
		md("Reference: "),
		mdClip(it.ReferenceAnswer, reviewAnswerLimit),
		md(fmt.Sprintf("Coverage: %.0f%% · %s", it.Coverage*100, tierLabel(it.Tier))),
	)
}

func tierLabel(t service.CoverageTier) string {
	switch t {
	case service.TierExcellent:
		return "🌟 Excellent"
	case service.TierGood:
		return "👍 Good"
	case service.TierPartial:
		return "🟠 Partial"
	case service.TierLow:
		return "🔴 Low"
	default:
		return "⚪ Not answered"
	}
}
