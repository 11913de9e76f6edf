package storage

import (
	"testing"
	"time"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

func testSession(chatID int64) entities.Session {
	return entities.NewSession(chatID, entities.Identity{Username: "amy", Grade: "6"}, []entities.Question{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	})
}

func TestSessionStorage_PutGetDelete(t *testing.T) {
	s := NewSessionStorage()

	if _, ok := s.Get(1); ok {
		t.Fatalf("expected empty storage")
	}

	s.Put(1, testSession(1))
	got, ok := s.Get(1)
	if !ok {
		t.Fatalf("expected session")
	}
	if got.ChatID != 1 || len(got.Questions) != 2 {
		t.Fatalf("unexpected session %+v", got)
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatalf("expected session to be deleted")
	}
}

func TestSessionStorage_GetReturnsCopy(t *testing.T) {
	s := NewSessionStorage()
	s.Put(1, testSession(1))

	got, _ := s.Get(1)
	got.UserAnswers[0] = "changed"

	again, _ := s.Get(1)
	if again.UserAnswers[0] != "" {
		t.Fatalf("stored session was mutated through a copy: %q", again.UserAnswers[0])
	}
}

func TestSessionStorage_DeleteIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStorage()

	s.now = func() time.Time { return now.Add(-3 * time.Hour) }
	s.Put(1, testSession(1))
	s.now = func() time.Time { return now.Add(-10 * time.Minute) }
	s.Put(2, testSession(2))
	s.now = func() time.Time { return now }

	removed := s.DeleteIdle(time.Hour)
	if removed != 1 {
		t.Fatalf("expected 1 removed got %d", removed)
	}
	if _, ok := s.Get(1); ok {
		t.Fatalf("idle session must be removed")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatalf("active session must stay")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session got %d", s.Len())
	}
}
