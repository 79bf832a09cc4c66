package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks user input that cannot become a profile. Handlers
// surface these to the client instead of logging them as server faults.
var ErrValidation = errors.New("validation error")

// User is a stored dating profile. Wire names are snake_case in every
// backend and in API responses.
type User struct {
	ID                string   `json:"id" mapstructure:"id"`
	Name              string   `json:"name" mapstructure:"name"`
	Age               int      `json:"age" mapstructure:"age"`
	Gender            string   `json:"gender" mapstructure:"gender"`
	Bio               string   `json:"bio" mapstructure:"bio"`
	PersonalityTraits []string `json:"personality_traits" mapstructure:"personality_traits"`
	Interests         []string `json:"interests" mapstructure:"interests"`
	Values            []string `json:"values" mapstructure:"values"`
	LookingFor        string   `json:"looking_for" mapstructure:"looking_for"`
}

// Compatibility is the model-supplied assessment of one candidate pair. It is
// recomputed per session and never persisted.
type Compatibility struct {
	Score                int      `json:"compatibility_score"`
	Strengths            string   `json:"strengths"`
	PotentialChallenges  string   `json:"potential_challenges"`
	ConversationStarters []string `json:"conversation_starters"`
}

const minAge = 18

// Validate checks the fields supplied by the user themselves. Analysis-derived
// fields are not checked here: the model's output passes through as-is.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if u.Age < minAge {
		return fmt.Errorf("%w: age must be at least %d", ErrValidation, minAge)
	}
	if strings.TrimSpace(u.Bio) == "" {
		return fmt.Errorf("%w: bio is required, either typed or transcribed", ErrValidation)
	}
	return nil
}
