// Package matchmaker holds the two model-backed operations of the system:
// extracting structured traits from a free-text bio, and scoring pairwise
// compatibility between two stored profiles.
package matchmaker

import (
	"context"
	"errors"
)

// ErrParse marks a model reply that could not be parsed as the requested JSON
// object. The analyzer surfaces it to the user as a retryable failure; the
// scorer's callers drop the affected candidate and continue.
var ErrParse = errors.New("model response is not a valid JSON object")

// contentGenerator is the minimal text-generation surface the prompts need.
// Production uses the gemini.Generator; tests stub it.
type contentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Analysis is the structured extraction from one bio.
type Analysis struct {
	PersonalityTraits []string `json:"personality_traits"`
	Interests         []string `json:"interests"`
	Values            []string `json:"values"`
	LookingFor        string   `json:"looking_for"`
}
