package matchmaker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/logger"
	"github.com/matchpoint-app/matchpoint/internal/profile"
)

//go:embed prompts/compatibility.md
var compatibilityPromptTemplate string

// Scorer produces a compatibility assessment for a pair of profiles via one
// model call per pair.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Scorer{generator: generator, logger: log, maxLogLen: maxLogLength}
}

// Score embeds both profiles into the compatibility prompt and parses the
// model's JSON reply. The score passes through as the model supplied it;
// only total parse failure is an error (wrapping ErrParse).
func (s *Scorer) Score(ctx context.Context, a, b *profile.User) (*profile.Compatibility, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("both profiles are required")
	}

	aJSON, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile %s: %w", a.ID, err)
	}
	bJSON, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile %s: %w", b.ID, err)
	}

	prompt := strings.ReplaceAll(compatibilityPromptTemplate, "{{PROFILE_A_JSON}}", string(aJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_B_JSON}}", string(bJSON))

	s.logger.Debug("compatibility request",
		zap.String("user_id", a.ID),
		zap.String("candidate_id", b.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("compatibility response",
		zap.String("user_id", a.ID),
		zap.String("candidate_id", b.ID),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return parseCompatibility(raw)
}

func parseCompatibility(raw string) (*profile.Compatibility, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	return &profile.Compatibility{
		Score:                coerceInt(data["compatibility_score"]),
		Strengths:            coerceString(data["strengths"]),
		PotentialChallenges:  coerceString(data["potential_challenges"]),
		ConversationStarters: coerceStringList(data["conversation_starters"]),
	}, nil
}
