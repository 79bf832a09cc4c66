package server

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/profile"
)

// Match pairs a candidate's stored profile with the model's compatibility
// assessment. Rank is 1-based display order after sorting.
type Match struct {
	Rank          int                    `json:"rank"`
	User          *profile.User          `json:"user"`
	Compatibility *profile.Compatibility `json:"compatibility"`
}

type matchList struct {
	Matches []*Match `json:"matches"`
}

// computeMatches builds the ranked list for the current user: every stored
// record except their own, capped to the first candidates in store order
// before any scoring happens, then sorted by score descending. A candidate
// whose scoring call fails is dropped and the rest continue; ties keep the
// original store order.
func (s *Server) computeMatches(ctx context.Context, current *profile.User) ([]*Match, error) {
	all, err := s.store.GetAllUsers(ctx)
	if err != nil {
		s.logger.Error("loading users for matching", zap.Error(err))
		return nil, err
	}

	candidates := make([]*profile.User, 0, s.candidateLimit)
	for _, u := range all {
		if u.ID == current.ID {
			continue
		}
		candidates = append(candidates, u)
		if len(candidates) == s.candidateLimit {
			break
		}
	}

	matches := make([]*Match, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := s.scorer.Score(ctx, current, candidate)
		if err != nil {
			s.logger.Warn("dropping candidate after scoring failure",
				zap.String("user_id", current.ID),
				zap.String("candidate_id", candidate.ID),
				zap.Error(err),
			)
			continue
		}
		matches = append(matches, &Match{User: candidate, Compatibility: result})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Compatibility.Score > matches[j].Compatibility.Score
	})
	for i, m := range matches {
		m.Rank = i + 1
	}

	s.logger.Info("computed matches",
		zap.String("user_id", current.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}
