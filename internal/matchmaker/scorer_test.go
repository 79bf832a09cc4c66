package matchmaker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

func TestScore(t *testing.T) {
	stub := &stubGenerator{response: `{
		"compatibility_score": 82,
		"strengths": "Shared love of travel and food.",
		"potential_challenges": "Different energy levels.",
		"conversation_starters": ["Ask about Lisbon", "Favorite dish to cook?", "Morning hikes?"]
	}`}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	a := &profile.User{ID: "1", Name: "Alice", Bio: "traveler"}
	b := &profile.User{ID: "2", Name: "Bob", Bio: "cook"}

	result, err := scorer.Score(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 82 {
		t.Fatalf("expected score 82, got %d", result.Score)
	}
	if len(result.ConversationStarters) != 3 {
		t.Fatalf("expected 3 conversation starters, got %d", len(result.ConversationStarters))
	}
	if !strings.Contains(stub.lastPrompt, `"Alice"`) || !strings.Contains(stub.lastPrompt, `"Bob"`) {
		t.Fatal("expected both profiles embedded in the prompt")
	}
}

func TestScoreLenientScoreTypes(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     int
	}{
		{"float score", `{"compatibility_score": 73.4}`, 73},
		{"string score", `{"compatibility_score": "64"}`, 64},
		{"missing score", `{"strengths": "some"}`, 0},
		{"out of range passes through", `{"compatibility_score": 140}`, 140},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scorer := NewScorer(&stubGenerator{response: tc.response}, zap.NewNop(), 0)
			result, err := scorer.Score(context.Background(), &profile.User{ID: "1"}, &profile.User{ID: "2"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Score != tc.want {
				t.Fatalf("expected score %d, got %d", tc.want, result.Score)
			}
		})
	}
}

func TestScoreParseError(t *testing.T) {
	scorer := NewScorer(&stubGenerator{response: "not json at all"}, zap.NewNop(), 0)

	_, err := scorer.Score(context.Background(), &profile.User{ID: "1"}, &profile.User{ID: "2"})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestScoreNilProfile(t *testing.T) {
	scorer := NewScorer(&stubGenerator{}, zap.NewNop(), 0)
	if _, err := scorer.Score(context.Background(), nil, &profile.User{}); err == nil {
		t.Fatal("expected error for nil profile")
	}
}
