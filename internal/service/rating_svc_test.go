package service

import "testing"

// juryMean mirrors the recompute done inside RatingRepo.Upsert: the cached
// jury average is always AVG over the current set of ratings.
func juryMean(ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

func TestJuryMean(t *testing.T) {
	tests := []struct {
		name    string
		ratings map[string]float64
		want    float64
	}{
		{"no ratings", map[string]float64{}, 0},
		{"single rating", map[string]float64{"alice": 7}, 7},
		{"two ratings", map[string]float64{"alice": 7, "bob": 9}, 8},
		{"three ratings", map[string]float64{"alice": 6, "bob": 7, "carol": 8}, 7},
		{"fractional mean", map[string]float64{"alice": 7, "bob": 8}, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := juryMean(tt.ratings)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("juryMean() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJuryMean_ReplaceReaverages(t *testing.T) {
	ratings := map[string]float64{"alice": 7, "bob": 9}
	if got := juryMean(ratings); !almostEqual(got, 8.0, 1e-9) {
		t.Fatalf("initial mean = %v, want 8.0", got)
	}

	// Alice revises her rating. The average is recomputed over the full
	// set, not blended with the previous average.
	ratings["alice"] = 5
	if got := juryMean(ratings); !almostEqual(got, 7.0, 1e-9) {
		t.Errorf("after replace = %v, want 7.0", got)
	}
	if running := (8.0 + 5.0) / 2; almostEqual(juryMean(ratings), running, 1e-9) {
		t.Errorf("mean matched a running average (%v); must re-average from scratch", running)
	}
}

func TestRatingBounds(t *testing.T) {
	tests := []struct {
		rating float64
		valid  bool
	}{
		{0, false},
		{0.9, false},
		{1, true},
		{5.5, true},
		{10, true},
		{10.1, false},
		{-3, false},
	}

	for _, tt := range tests {
		got := tt.rating >= minJuryRating && tt.rating <= maxJuryRating
		if got != tt.valid {
			t.Errorf("rating %v: valid = %v, want %v", tt.rating, got, tt.valid)
		}
	}
}
