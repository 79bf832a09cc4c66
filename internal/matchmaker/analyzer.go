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
)

//go:embed prompts/analyze_profile.md
var analyzePromptTemplate string

const defaultMaxLogLength = 200

// Analyzer turns a free-text bio into structured profile traits via one
// model call.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Analyzer{generator: generator, logger: log, maxLogLen: maxLogLength}
}

// AnalyzeProfile asks the model to extract traits, interests, values and a
// looking-for description from the bio. A reply that is not valid JSON wraps
// ErrParse so the handler can render it as a retryable failure.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, bio string) (*Analysis, error) {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return nil, fmt.Errorf("bio must not be empty")
	}

	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{BIO}}", bio)

	a.logger.Debug("profile analysis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("profile analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseAnalysis(raw)
}

func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	return &Analysis{
		PersonalityTraits: coerceStringList(data["personality_traits"]),
		Interests:         coerceStringList(data["interests"]),
		Values:            coerceStringList(data["values"]),
		LookingFor:        coerceString(data["looking_for"]),
	}, nil
}
