package service

import (
	"math"
	"testing"

	"github.com/aliskhannn/feedback-quiz-bot/internal/domain/entities"
)

func TestCoverage(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		reference string
		want      float64
	}{
		{"all keywords", "Plants make FOOD using sunlight", "plants make food from sunlight", 0.8},
		{"short words ignored", "cell", "the basic unit of a cell", 0.25},
		{"punctuation split", "gravity, pulls", "Gravity: pulls-objects!", 2.0 / 3.0},
		{"no keywords", "anything", "a an of", 0},
		{"empty answer", "", "water vapour", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coverage(tt.answer, tt.reference)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Coverage(%q, %q) = %v, want %v", tt.answer, tt.reference, got, tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		answer   string
		coverage float64
		want     CoverageTier
	}{
		{"", 0, TierUnanswered},
		{"   ", 1, TierUnanswered},
		{"x", 0.7, TierExcellent},
		{"x", 0.69, TierGood},
		{"x", 0.5, TierGood},
		{"x", 0.3, TierPartial},
		{"x", 0.29, TierLow},
		{"x", 0, TierLow},
	}

	for _, tt := range tests {
		if got := TierFor(tt.answer, tt.coverage); got != tt.want {
			t.Errorf("TierFor(%q, %v) = %s, want %s", tt.answer, tt.coverage, got, tt.want)
		}
	}
}

func TestBuildReview(t *testing.T) {
	s := entities.NewSession(1, entities.Identity{Username: "amy", Grade: "6"}, []entities.Question{
		{Question: "What is photosynthesis?", Answer: "plants make food"},
		{Question: "What is evaporation?", Answer: "water becomes vapour"},
	})
	s.UserAnswers[0] = "plants make their food"

	items := BuildReview(s)
	if len(items) != 2 {
		t.Fatalf("expected 2 rows got %d", len(items))
	}

	if items[0].Number != 1 || items[0].Tier != TierExcellent || items[0].Coverage != 1 {
		t.Fatalf("unexpected first row %+v", items[0])
	}
	if items[1].Number != 2 || items[1].Tier != TierUnanswered || items[1].UserAnswer != "" {
		t.Fatalf("unexpected second row %+v", items[1])
	}
	if items[1].ReferenceAnswer != "water becomes vapour" {
		t.Fatalf("reference answer missing: %+v", items[1])
	}
}
