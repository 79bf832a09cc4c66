package matchmaker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzeProfile(t *testing.T) {
	stub := &stubGenerator{response: `{
		"personality_traits": ["warm", "curious", "driven", "funny", "loyal"],
		"interests": ["hiking", "jazz", "cooking", "travel", "books"],
		"values": ["honesty", "family", "growth"],
		"looking_for": "Someone kind who likes the outdoors."
	}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	analysis, err := analyzer.AnalyzeProfile(context.Background(), "I love hiking and jazz.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.PersonalityTraits) != 5 {
		t.Fatalf("expected 5 traits, got %d", len(analysis.PersonalityTraits))
	}
	if len(analysis.Interests) != 5 {
		t.Fatalf("expected 5 interests, got %d", len(analysis.Interests))
	}
	if len(analysis.Values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(analysis.Values))
	}
	if analysis.LookingFor == "" {
		t.Fatal("expected looking_for to be populated")
	}

	if !strings.Contains(stub.lastPrompt, "I love hiking and jazz.") {
		t.Fatal("expected bio to be embedded in the prompt")
	}
	if strings.Contains(stub.lastPrompt, "{{BIO}}") {
		t.Fatal("expected template placeholder to be replaced")
	}
}

func TestAnalyzeProfileFencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"looking_for\": \"a hiking partner\"}\n```"}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	analysis, err := analyzer.AnalyzeProfile(context.Background(), "bio text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.LookingFor != "a hiking partner" {
		t.Fatalf("unexpected looking_for: %q", analysis.LookingFor)
	}
	if len(analysis.Interests) != 0 {
		t.Fatalf("expected missing lists to decode as empty, got %v", analysis.Interests)
	}
}

func TestAnalyzeProfileParseError(t *testing.T) {
	stub := &stubGenerator{response: "I had trouble with that request."}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	_, err := analyzer.AnalyzeProfile(context.Background(), "bio text")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestAnalyzeProfileEmptyBio(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := analyzer.AnalyzeProfile(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty bio")
	}
}

func TestAnalyzeProfileGeneratorError(t *testing.T) {
	wantErr := errors.New("api unavailable")
	analyzer := NewAnalyzer(&stubGenerator{err: wantErr}, zap.NewNop(), 0)

	_, err := analyzer.AnalyzeProfile(context.Background(), "bio text")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generator error to pass through, got %v", err)
	}
}
