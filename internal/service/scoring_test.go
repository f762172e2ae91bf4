package service

import (
	"math"
	"testing"

	"github.com/RON-000000/photocomp/internal/model"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestNormalizeCommunity(t *testing.T) {
	svc := NewScoringService()

	tests := []struct {
		name  string
		votes int
		want  float64
	}{
		{"zero votes", 0, 0.0},
		{"negative guard", -5, 0.0},
		{"five votes", 5, 0.5},
		{"ten votes", 10, 1.0},
		{"fifty votes", 50, 5.0},
		{"hundred votes hits cap", 100, 10.0},
		{"beyond cap stays clamped", 100000, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.NormalizeCommunity(tt.votes)
			if got != tt.want {
				t.Errorf("NormalizeCommunity(%d) = %.2f, want %.2f", tt.votes, got, tt.want)
			}
		})
	}
}

func TestTotalScore_Formula(t *testing.T) {
	svc := NewScoringService()

	weights := []model.VotingWeight{
		{Community: 0.6, Jury: 0.4},
		{Community: 0.5, Jury: 0.5},
		{Community: 0.3, Jury: 0.7},
		{Community: 1.0, Jury: 0.0},
		{Community: 0.0, Jury: 1.0},
	}
	cases := []struct {
		community int
		jury      float64
	}{
		{0, 0}, {10, 5}, {37, 8.5}, {200, 10}, {3, 1},
	}

	for _, w := range weights {
		for _, c := range cases {
			want := svc.NormalizeCommunity(c.community)*w.Community + c.jury*w.Jury
			got := svc.TotalScore(c.community, c.jury, w)
			if !almostEqual(got, want, 1e-9) {
				t.Errorf("TotalScore(%d, %.1f, %+v) = %.4f, want %.4f", c.community, c.jury, w, got, want)
			}
		}
	}
}

func TestTotalScore_KnownValues(t *testing.T) {
	svc := NewScoringService()
	w := model.VotingWeight{Community: 0.6, Jury: 0.4}

	// 30 votes -> 3.0 normalized; 3.0*0.6 + 8.0*0.4 = 5.0
	got := svc.TotalScore(30, 8.0, w)
	if !almostEqual(got, 5.0, 1e-9) {
		t.Errorf("TotalScore(30, 8.0) = %.4f, want 5.0000", got)
	}

	// Clamp: 500 votes normalizes to 10, not 50.
	got = svc.TotalScore(500, 0, w)
	if !almostEqual(got, 6.0, 1e-9) {
		t.Errorf("TotalScore(500, 0) = %.4f, want 6.0000 (clamped)", got)
	}
}

func submissionWith(id string, community int, jury float64) model.Submission {
	return model.Submission{
		SubmissionID: id,
		Votes:        model.Votes{Community: community, Jury: jury},
	}
}

func TestLeaderboard_SortedDescending(t *testing.T) {
	svc := NewScoringService()
	w := model.VotingWeight{Community: 0.6, Jury: 0.4}

	subs := []model.Submission{
		submissionWith("low", 2, 1.0),
		submissionWith("high", 80, 9.5),
		submissionWith("mid", 40, 5.0),
	}

	ranked := svc.Leaderboard(subs, w)

	if len(ranked) != 3 {
		t.Fatalf("leaderboard size = %d, want 3", len(ranked))
	}
	for i := 0; i < len(ranked)-1; i++ {
		if ranked[i].TotalScore < ranked[i+1].TotalScore {
			t.Errorf("leaderboard not descending at %d: %.2f < %.2f",
				i, ranked[i].TotalScore, ranked[i+1].TotalScore)
		}
	}
	if ranked[0].SubmissionID != "high" || ranked[2].SubmissionID != "low" {
		t.Errorf("order = [%s %s %s], want [high mid low]",
			ranked[0].SubmissionID, ranked[1].SubmissionID, ranked[2].SubmissionID)
	}
}

func TestLeaderboard_TiesKeepInputOrder(t *testing.T) {
	svc := NewScoringService()
	w := model.VotingWeight{Community: 0.5, Jury: 0.5}

	subs := []model.Submission{
		submissionWith("first", 20, 4.0),
		submissionWith("second", 20, 4.0),
		submissionWith("third", 20, 4.0),
	}

	ranked := svc.Leaderboard(subs, w)

	got := []string{ranked[0].SubmissionID, ranked[1].SubmissionID, ranked[2].SubmissionID}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tie order[%d] = %s, want %s (stable sort)", i, got[i], want[i])
		}
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	svc := NewScoringService()
	ranked := svc.Leaderboard(nil, model.DefaultVotingWeight)
	if len(ranked) != 0 {
		t.Errorf("leaderboard of nil input has %d entries, want 0", len(ranked))
	}
}

func TestTopWinners_RanksAndTruncates(t *testing.T) {
	svc := NewScoringService()
	w := model.DefaultVotingWeight

	subs := []model.Submission{
		submissionWith("a", 10, 2.0),
		submissionWith("b", 90, 9.0),
		submissionWith("c", 50, 6.0),
		submissionWith("d", 30, 4.0),
	}

	winners := svc.TopWinners(subs, w, 3)

	if len(winners) != 3 {
		t.Fatalf("winners = %d, want 3", len(winners))
	}
	for i, win := range winners {
		if win.Rank != i+1 {
			t.Errorf("winner[%d].Rank = %d, want %d", i, win.Rank, i+1)
		}
	}
	if winners[0].Submission.SubmissionID != "b" {
		t.Errorf("first winner = %s, want b", winners[0].Submission.SubmissionID)
	}
}

func TestTopWinners_FewerThanN(t *testing.T) {
	svc := NewScoringService()
	winners := svc.TopWinners([]model.Submission{submissionWith("only", 5, 7.0)}, model.DefaultVotingWeight, 3)
	if len(winners) != 1 {
		t.Fatalf("winners = %d, want 1", len(winners))
	}
	if winners[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", winners[0].Rank)
	}
}

func TestDefaultWeightFallback(t *testing.T) {
	// A competition without a stored weighting falls back to 0.6/0.4.
	c := model.Competition{}
	w := c.Weight()
	if w.Community != 0.6 || w.Jury != 0.4 {
		t.Errorf("default weight = %+v, want {0.6 0.4}", w)
	}

	c.VotingWeight = model.VotingWeight{Community: 0.7, Jury: 0.3}
	w = c.Weight()
	if w.Community != 0.7 || w.Jury != 0.3 {
		t.Errorf("explicit weight = %+v, want {0.7 0.3}", w)
	}
}
