package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrEmptyAnswer        = errors.New("answer is empty")
	ErrAlreadyAnswered    = errors.New("question is already answered")
	ErrNotAnswered        = errors.New("question is not answered")
	ErrNothingAnswered    = errors.New("no answered questions")
	ErrNotConfirming      = errors.New("early submission was not requested")
	ErrSessionFinished    = errors.New("quiz session is finished")
)

// Phase is the session-level display state.
type Phase string

const (
	PhaseAnswering    Phase = "answering"     // navigating and answering questions
	PhaseConfirmEarly Phase = "confirm_early" // waiting for early submission confirmation
	PhaseScored       Phase = "scored"        // score breakdown received
	PhaseScoreFailed  Phase = "score_failed"  // scoring request failed, nothing left to do but restart
)

// Notice is an inline message shown under the current question.
type Notice string

const (
	NoticeNone             Notice = ""
	NoticeEmptyAnswer      Notice = "empty_answer"
	NoticeFeedbackFailed   Notice = "feedback_failed"
	NoticeNothingAnswered  Notice = "nothing_answered"
	NoticeFeedbackFallback Notice = "feedback_fallback"
)

// Session is the whole quiz state of one chat.
//
// Every transition is a value method that returns the next state, so
// callers never share slices with a stored session.
type Session struct {
	ID           uuid.UUID
	ChatID       int64
	Identity     Identity
	Questions    []Question
	CurrentIndex int
	Statuses     []Status
	UserAnswers  []string

	Draft      string // the answer box of the current question
	Feedback   string // feedback shown for the current question
	Notice     Notice
	Phase      Phase
	Score      *ScoreResult
	ScoreError string // server-provided reason when Phase is PhaseScoreFailed

	PageMessageID int // chat message currently showing the session, 0 if none

	UpdatedAt time.Time
}

// NewSession creates a session positioned on the first question.
// The caller must pass at least one question.
func NewSession(chatID int64, identity Identity, questions []Question) Session {
	qs := make([]Question, len(questions))
	copy(qs, questions)

	statuses := make([]Status, len(qs))
	for i := range statuses {
		statuses[i] = StatusNotVisited
	}

	return Session{
		ID:          uuid.New(),
		ChatID:      chatID,
		Identity:    identity,
		Questions:   qs,
		Statuses:    statuses,
		UserAnswers: make([]string, len(qs)),
		Phase:       PhaseAnswering,
		UpdatedAt:   time.Now(),
	}
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s

	out.Questions = append([]Question(nil), s.Questions...)
	out.Statuses = append([]Status(nil), s.Statuses...)
	out.UserAnswers = append([]string(nil), s.UserAnswers...)
	if s.Score != nil {
		score := *s.Score
		score.QuestionScores = append([]QuestionScore(nil), s.Score.QuestionScores...)
		out.Score = &score
	}

	return out
}

// Valid reports whether the length and index invariants hold.
func (s Session) Valid() bool {
	n := len(s.Questions)
	return n > 0 &&
		len(s.Statuses) == n &&
		len(s.UserAnswers) == n &&
		s.CurrentIndex >= 0 &&
		s.CurrentIndex < n
}

func (s Session) Current() Question {
	return s.Questions[s.CurrentIndex]
}

func (s Session) CurrentStatus() Status {
	return s.Statuses[s.CurrentIndex]
}

func (s Session) IsLast() bool {
	return s.CurrentIndex == len(s.Questions)-1
}

func (s Session) Finished() bool {
	return s.Phase == PhaseScored || s.Phase == PhaseScoreFailed
}

func (s Session) AnsweredCount() int {
	n := 0
	for _, st := range s.Statuses {
		if st == StatusAnswered {
			n++
		}
	}
	return n
}

// AnswersForScoring returns a copy of the stored answers, unanswered slots empty.
func (s Session) AnswersForScoring() []string {
	return append([]string(nil), s.UserAnswers...)
}

// SetDraft replaces the answer box contents.
func (s Session) SetDraft(text string) (Session, error) {
	if s.Finished() {
		return s, ErrSessionFinished
	}

	out := s.Clone()
	out.Draft = text
	out.Notice = NoticeNone
	return out, nil
}

// Jump saves the draft and moves to question i.
func (s Session) Jump(i int) (Session, error) {
	if s.Finished() {
		return s, ErrSessionFinished
	}
	if i < 0 || i >= len(s.Questions) {
		return s, ErrQuestionOutOfRange
	}

	out := s.Clone()
	out.commitDraft()
	out.moveTo(i)
	return out, nil
}

// Advance saves the draft and moves to the next question. When the current
// question is the last one, the session is returned unmoved with last=true and
// the caller is expected to request scoring.
func (s Session) Advance() (next Session, last bool, err error) {
	if s.Finished() {
		return s, false, ErrSessionFinished
	}

	out := s.Clone()
	out.commitDraft()

	if out.IsLast() {
		return out, true, nil
	}

	out.moveTo(out.CurrentIndex + 1)
	return out, false, nil
}

// BeginSubmit validates text and stores it as the answer of the current
// question. It returns the trimmed answer to send for feedback.
func (s Session) BeginSubmit(text string) (Session, string, error) {
	if s.Finished() {
		return s, "", ErrSessionFinished
	}
	if s.CurrentStatus() == StatusAnswered {
		return s, "", ErrAlreadyAnswered
	}

	out := s.Clone()

	answer := strings.TrimSpace(text)
	if answer == "" {
		out.Notice = NoticeEmptyAnswer
		return out, "", ErrEmptyAnswer
	}

	out.UserAnswers[out.CurrentIndex] = answer
	out.Draft = answer
	out.Feedback = ""
	out.Notice = NoticeNone
	return out, answer, nil
}

// CompleteSubmit records feedback for question i and marks it answered.
func (s Session) CompleteSubmit(i int, feedback string) Session {
	out := s.Clone()
	if i < 0 || i >= len(out.Statuses) {
		return out
	}

	out.Statuses[i] = StatusAnswered
	if i != out.CurrentIndex {
		return out
	}

	out.Feedback = feedback
	out.Notice = NoticeNone
	if strings.TrimSpace(feedback) == "" {
		out.Feedback = ""
		out.Notice = NoticeFeedbackFallback
	}
	return out
}

// FailSubmit leaves the status of question i untouched and shows an inline error.
func (s Session) FailSubmit(i int) Session {
	out := s.Clone()
	if i == out.CurrentIndex {
		out.Feedback = ""
		out.Notice = NoticeFeedbackFailed
	}
	return out
}

// Retry reopens an answered current question. The stored answer text stays.
func (s Session) Retry() (Session, error) {
	if s.Finished() {
		return s, ErrSessionFinished
	}
	if s.CurrentStatus() != StatusAnswered {
		return s, ErrNotAnswered
	}

	out := s.Clone()
	out.Statuses[out.CurrentIndex] = StatusNotAnswered
	out.Feedback = ""
	out.Notice = NoticeNone
	return out, nil
}

// RequestEarlySubmit asks for confirmation to end the quiz now.
func (s Session) RequestEarlySubmit() (Session, error) {
	if s.Finished() {
		return s, ErrSessionFinished
	}

	out := s.Clone()
	if out.AnsweredCount() == 0 {
		out.Notice = NoticeNothingAnswered
		return out, ErrNothingAnswered
	}

	out.Phase = PhaseConfirmEarly
	out.Notice = NoticeNone
	return out, nil
}

func (s Session) CancelEarlySubmit() Session {
	out := s.Clone()
	if out.Phase == PhaseConfirmEarly {
		out.Phase = PhaseAnswering
	}
	return out
}

// ConfirmEarlySubmit saves the draft; the caller then requests scoring.
func (s Session) ConfirmEarlySubmit() (Session, error) {
	if s.Phase != PhaseConfirmEarly {
		return s, ErrNotConfirming
	}

	out := s.Clone()
	out.commitDraft()
	out.Phase = PhaseAnswering
	return out, nil
}

func (s Session) WithScore(result ScoreResult) Session {
	out := s.Clone()
	out.Phase = PhaseScored
	out.Score = &result
	out.ScoreError = ""
	out.Feedback = ""
	out.Notice = NoticeNone
	return out
}

func (s Session) WithScoreError(reason string) Session {
	out := s.Clone()
	out.Phase = PhaseScoreFailed
	out.Score = nil
	out.ScoreError = reason
	out.Feedback = ""
	out.Notice = NoticeNone
	return out
}

func (s *Session) commitDraft() {
	s.UserAnswers[s.CurrentIndex] = strings.TrimSpace(s.Draft)
}

func (s *Session) moveTo(i int) {
	s.CurrentIndex = i
	if s.Statuses[i] == StatusNotVisited {
		s.Statuses[i] = StatusNotAnswered
	}

	s.Phase = PhaseAnswering
	s.Draft = s.UserAnswers[i]
	s.Feedback = ""
	s.Notice = NoticeNone
}
