package entities

import (
	"errors"
	"reflect"
	"testing"
)

func fiveQuestions() []Question {
	return []Question{
		{Question: "What is photosynthesis?", Answer: "Plants make food from sunlight"},
		{Question: "What is evaporation?", Answer: "Water turns into vapour"},
		{Question: "What is gravity?", Answer: "Force that attracts objects"},
		{Question: "What is a cell?", Answer: "Basic unit of life"},
		{Question: "What is an atom?", Answer: "Smallest unit of matter"},
	}
}

func newTestSession() Session {
	return NewSession(1, Identity{UserID: 1, Username: "amy", Grade: "6"}, fiveQuestions())
}

func mustAnswer(t *testing.T, s Session, text string) Session {
	t.Helper()
	s, answer, err := s.BeginSubmit(text)
	if err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if answer == "" {
		t.Fatalf("expected non-empty answer")
	}
	return s.CompleteSubmit(s.CurrentIndex, "Nice work")
}

func TestNewSession_Invariants(t *testing.T) {
	s := newTestSession()

	if !s.Valid() {
		t.Fatalf("expected valid session")
	}
	for i, st := range s.Statuses {
		if st != StatusNotVisited {
			t.Fatalf("status[%d]=%s, expected not-visited", i, st)
		}
	}
	if s.Phase != PhaseAnswering {
		t.Fatalf("unexpected phase %s", s.Phase)
	}
}

func TestSession_JumpMarksTargetNotAnswered(t *testing.T) {
	s := newTestSession()

	s, err := s.Jump(3)
	if err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if s.CurrentIndex != 3 {
		t.Fatalf("expected index 3 got %d", s.CurrentIndex)
	}
	if s.Statuses[3] != StatusNotAnswered {
		t.Fatalf("expected not-answered got %s", s.Statuses[3])
	}
	if s.Statuses[1] != StatusNotVisited {
		t.Fatalf("skipped question must stay not-visited, got %s", s.Statuses[1])
	}
	if !s.Valid() {
		t.Fatalf("invariants broken")
	}
}

func TestSession_JumpKeepsAnsweredStatus(t *testing.T) {
	s := newTestSession()
	s = mustAnswer(t, s, "plants use sunlight")

	s, _ = s.Jump(2)
	s, _ = s.Jump(0)

	if s.Statuses[0] != StatusAnswered {
		t.Fatalf("expected answered got %s", s.Statuses[0])
	}
	if s.Draft != "plants use sunlight" {
		t.Fatalf("expected stored answer restored into draft, got %q", s.Draft)
	}
}

func TestSession_JumpOutOfRange(t *testing.T) {
	s := newTestSession()

	for _, i := range []int{-1, 5, 100} {
		if _, err := s.Jump(i); !errors.Is(err, ErrQuestionOutOfRange) {
			t.Fatalf("Jump(%d): expected ErrQuestionOutOfRange got %v", i, err)
		}
	}
}

func TestSession_JumpPreservesUnsubmittedDraft(t *testing.T) {
	s := newTestSession()
	s, _ = s.SetDraft("  half typed answer ")

	s, err := s.Jump(4)
	if err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if s.UserAnswers[0] != "half typed answer" {
		t.Fatalf("draft lost on jump: %q", s.UserAnswers[0])
	}
	if s.Draft != "" {
		t.Fatalf("expected empty draft on unseen question, got %q", s.Draft)
	}
}

func TestSession_SubmitOnlyChangesCurrentIndex(t *testing.T) {
	s := newTestSession()
	s, _ = s.Jump(2)
	before := append([]Status(nil), s.Statuses...)

	s = mustAnswer(t, s, "a force")

	for i := range s.Statuses {
		if i == 2 {
			if s.Statuses[i] != StatusAnswered {
				t.Fatalf("expected answered at 2 got %s", s.Statuses[i])
			}
			continue
		}
		if s.Statuses[i] != before[i] {
			t.Fatalf("status[%d] changed from %s to %s", i, before[i], s.Statuses[i])
		}
	}
	if s.Feedback != "Nice work" {
		t.Fatalf("unexpected feedback %q", s.Feedback)
	}
}

func TestSession_EmptyAnswerRejected(t *testing.T) {
	s := newTestSession()

	for _, text := range []string{"", "   ", "\n\t"} {
		next, _, err := s.BeginSubmit(text)
		if !errors.Is(err, ErrEmptyAnswer) {
			t.Fatalf("BeginSubmit(%q): expected ErrEmptyAnswer got %v", text, err)
		}
		if next.Notice != NoticeEmptyAnswer {
			t.Fatalf("expected empty answer notice got %q", next.Notice)
		}
		if !reflect.DeepEqual(next.Statuses, s.Statuses) {
			t.Fatalf("statuses changed on empty submit")
		}
	}
}

func TestSession_SubmitTwiceRejected(t *testing.T) {
	s := mustAnswer(t, newTestSession(), "sunlight")

	if _, _, err := s.BeginSubmit("again"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered got %v", err)
	}
}

func TestSession_FailSubmitKeepsStatus(t *testing.T) {
	s := newTestSession()
	s, _ = s.Jump(1)
	s, _, _ = s.BeginSubmit("vapour")

	s = s.FailSubmit(1)

	if s.Statuses[1] != StatusNotAnswered {
		t.Fatalf("expected not-answered got %s", s.Statuses[1])
	}
	if s.Notice != NoticeFeedbackFailed {
		t.Fatalf("expected feedback failed notice got %q", s.Notice)
	}
}

func TestSession_EmptyFeedbackFallsBack(t *testing.T) {
	s := newTestSession()
	s, _, _ = s.BeginSubmit("sunlight")

	s = s.CompleteSubmit(0, "  ")

	if s.Statuses[0] != StatusAnswered {
		t.Fatalf("expected answered got %s", s.Statuses[0])
	}
	if s.Notice != NoticeFeedbackFallback {
		t.Fatalf("expected fallback notice got %q", s.Notice)
	}
}

func TestSession_RetryKeepsAnswerText(t *testing.T) {
	s := mustAnswer(t, newTestSession(), "sunlight makes food")

	s, err := s.Retry()
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if s.Statuses[0] != StatusNotAnswered {
		t.Fatalf("expected not-answered got %s", s.Statuses[0])
	}
	if s.Feedback != "" {
		t.Fatalf("expected feedback cleared got %q", s.Feedback)
	}
	if s.UserAnswers[0] != "sunlight makes food" || s.Draft != "sunlight makes food" {
		t.Fatalf("answer text lost: stored=%q draft=%q", s.UserAnswers[0], s.Draft)
	}
}

func TestSession_RetryRequiresAnswered(t *testing.T) {
	if _, err := newTestSession().Retry(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("expected ErrNotAnswered got %v", err)
	}
}

func TestSession_AdvanceOnLastRequestsScoring(t *testing.T) {
	s := newTestSession()
	s, _ = s.Jump(4)
	s, _ = s.SetDraft("matter")

	next, last, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !last {
		t.Fatalf("expected last=true")
	}
	if next.CurrentIndex != 4 {
		t.Fatalf("index must not move past the end, got %d", next.CurrentIndex)
	}
	if next.UserAnswers[4] != "matter" {
		t.Fatalf("draft not persisted: %q", next.UserAnswers[4])
	}
}

func TestSession_AdvanceMovesForward(t *testing.T) {
	s := newTestSession()

	s, last, err := s.Advance()
	if err != nil || last {
		t.Fatalf("unexpected last=%v err=%v", last, err)
	}
	if s.CurrentIndex != 1 || s.Statuses[1] != StatusNotAnswered {
		t.Fatalf("unexpected index=%d status=%s", s.CurrentIndex, s.Statuses[1])
	}
}

func TestSession_EarlySubmitNeedsAnsweredQuestion(t *testing.T) {
	s := newTestSession()

	next, err := s.RequestEarlySubmit()
	if !errors.Is(err, ErrNothingAnswered) {
		t.Fatalf("expected ErrNothingAnswered got %v", err)
	}
	if next.Phase != PhaseAnswering {
		t.Fatalf("phase must not change, got %s", next.Phase)
	}
}

func TestSession_EarlySubmitFlow(t *testing.T) {
	s := mustAnswer(t, newTestSession(), "ans1")
	s, _ = s.Jump(2)
	s = mustAnswer(t, s, "ans3")
	s, _ = s.Jump(3)

	s, err := s.RequestEarlySubmit()
	if err != nil {
		t.Fatalf("RequestEarlySubmit: %v", err)
	}
	if s.Phase != PhaseConfirmEarly {
		t.Fatalf("expected confirm phase got %s", s.Phase)
	}

	s, err = s.ConfirmEarlySubmit()
	if err != nil {
		t.Fatalf("ConfirmEarlySubmit: %v", err)
	}

	want := []string{"ans1", "", "ans3", "", ""}
	if got := s.AnswersForScoring(); !reflect.DeepEqual(got, want) {
		t.Fatalf("answers=%q want %q", got, want)
	}
}

func TestSession_ConfirmWithoutRequest(t *testing.T) {
	if _, err := newTestSession().ConfirmEarlySubmit(); !errors.Is(err, ErrNotConfirming) {
		t.Fatalf("expected ErrNotConfirming got %v", err)
	}
}

func TestSession_CancelEarlySubmit(t *testing.T) {
	s := mustAnswer(t, newTestSession(), "ans1")
	s, _ = s.RequestEarlySubmit()

	s = s.CancelEarlySubmit()
	if s.Phase != PhaseAnswering {
		t.Fatalf("expected answering got %s", s.Phase)
	}
}

func TestSession_FinishedRejectsNavigation(t *testing.T) {
	s := newTestSession().WithScore(ScoreResult{Grade: "F"})

	if _, err := s.Jump(1); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished got %v", err)
	}
	if _, _, err := s.Advance(); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished got %v", err)
	}
}

func TestSession_TransitionsDoNotAliasPreviousState(t *testing.T) {
	s := newTestSession()
	s, _ = s.SetDraft("draft")

	next, _ := s.Jump(1)
	next.UserAnswers[0] = "mutated"

	if s.UserAnswers[0] != "" {
		t.Fatalf("previous state was mutated: %q", s.UserAnswers[0])
	}
}

func TestQuestionScore_Fraction(t *testing.T) {
	tests := []struct {
		name string
		q    QuestionScore
		want float64
	}{
		{"half", QuestionScore{Score: 1, MaxScore: 2}, 0.5},
		{"zero max", QuestionScore{Score: 1, MaxScore: 0}, 0},
		{"over", QuestionScore{Score: 3, MaxScore: 2}, 1},
		{"negative", QuestionScore{Score: -1, MaxScore: 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Fraction(); got != tt.want {
				t.Fatalf("Fraction()=%v want %v", got, tt.want)
			}
		})
	}
}
