package entities

// ScoreResult is the summary computed by the scoring server.
type ScoreResult struct {
	TotalScore     float64         `json:"total_score"`
	MaxScore       float64         `json:"max_score"`
	Percentage     float64         `json:"percentage"`
	Grade          string          `json:"grade"`
	QuestionScores []QuestionScore `json:"question_scores"`
}

// QuestionScore is the per-question part of ScoreResult.
type QuestionScore struct {
	QuestionNumber int     `json:"question_number"` // 1-based
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
}

// Fraction returns score/max clamped to [0, 1].
func (q QuestionScore) Fraction() float64 {
	if q.MaxScore <= 0 {
		return 0
	}

	f := q.Score / q.MaxScore
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
