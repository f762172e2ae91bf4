package service

import (
	"sort"

	"github.com/RON-000000/photocomp/internal/model"
)

// Community votes are mapped onto the jury's 0-10 scale: one point per ten
// votes, capped at ten. The cap keeps runaway-popular entries from drowning
// out the jury half of the weighting.
const (
	communityVotesPerPoint = 10.0
	maxNormalizedCommunity = 10.0
)

// ScoringService produces a single comparable score per submission within a
// competition and ranks submission sets. Pure computation over
// already-fetched data; no I/O.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// NormalizeCommunity maps a raw community vote count onto 0-10.
func (s *ScoringService) NormalizeCommunity(votes int) float64 {
	if votes <= 0 {
		return 0
	}
	normalized := float64(votes) / communityVotesPerPoint
	if normalized > maxNormalizedCommunity {
		return maxNormalizedCommunity
	}
	return normalized
}

// TotalScore combines the community count and jury average under the
// competition's weighting:
//
//	score = normalizedCommunity * weight.community + juryAverage * weight.jury
func (s *ScoringService) TotalScore(communityVotes int, juryAverage float64, w model.VotingWeight) float64 {
	return s.NormalizeCommunity(communityVotes)*w.Community + juryAverage*w.Jury
}

// Leaderboard attaches a total score to each submission and sorts
// descending. The sort is stable, so tied entries keep their input order.
func (s *ScoringService) Leaderboard(subs []model.Submission, w model.VotingWeight) []model.ScoredSubmission {
	scored := make([]model.ScoredSubmission, 0, len(subs))
	for _, sub := range subs {
		scored = append(scored, model.ScoredSubmission{
			Submission: sub,
			TotalScore: s.TotalScore(sub.Votes.Community, sub.Votes.Jury, w),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	return scored
}

// TopWinners returns the top n scored submissions with 1-based ranks.
func (s *ScoringService) TopWinners(subs []model.Submission, w model.VotingWeight, n int) []model.Winner {
	ranked := s.Leaderboard(subs, w)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	winners := make([]model.Winner, 0, len(ranked))
	for i, entry := range ranked {
		winners = append(winners, model.Winner{Rank: i + 1, Submission: entry})
	}
	return winners
}
