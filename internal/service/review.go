package service

import (
	"strings"
	"unicode"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

// CoverageTier is a cosmetic label for how much of the reference answer a
// student answer mentions. It has no influence on the server-side score.
type CoverageTier string

const (
	TierExcellent  CoverageTier = "excellent"  // >= 70%
	TierGood       CoverageTier = "good"       // >= 50%
	TierPartial    CoverageTier = "partial"    // >= 30%
	TierLow        CoverageTier = "low"        // anything below
	TierUnanswered CoverageTier = "unanswered" // empty answer
)

// minKeywordLen drops short words ("a", "of", "is") from the reference answer.
const minKeywordLen = 3

// ReviewItem is one row of the side-by-side answer review.
type ReviewItem struct {
	Number          int // 1-based
	Question        string
	UserAnswer      string
	ReferenceAnswer string
	Coverage        float64 // share of reference keywords found in the user answer, 0..1
	Tier            CoverageTier
}

// BuildReview produces one review row per question of the session.
func BuildReview(s entities.Session) []ReviewItem {
	items := make([]ReviewItem, 0, len(s.Questions))
	for i, q := range s.Questions {
		answer := ""
		if i < len(s.UserAnswers) {
			answer = s.UserAnswers[i]
		}

		coverage := Coverage(answer, q.Answer)
		items = append(items, ReviewItem{
			Number:          i + 1,
			Question:        q.Question,
			UserAnswer:      answer,
			ReferenceAnswer: q.Answer,
			Coverage:        coverage,
			Tier:            TierFor(answer, coverage),
		})
	}
	return items
}

// Coverage returns the share of reference keywords that occur, case-insensitively,
// as substrings of the user answer.
func Coverage(userAnswer, reference string) float64 {
	keywords := keywords(reference)
	if len(keywords) == 0 {
		return 0
	}

	answer := strings.ToLower(userAnswer)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(answer, kw) {
			matched++
		}
	}

	return float64(matched) / float64(len(keywords))
}

func TierFor(userAnswer string, coverage float64) CoverageTier {
	switch {
	case strings.TrimSpace(userAnswer) == "":
		return TierUnanswered
	case coverage >= 0.7:
		return TierExcellent
	case coverage >= 0.5:
		return TierGood
	case coverage >= 0.3:
		return TierPartial
	default:
		return TierLow
	}
}

func keywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= minKeywordLen {
			out = append(out, w)
		}
	}
	return out
}
