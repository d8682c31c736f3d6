package analysis

import "testing"

func TestPopularityScore(t *testing.T) {
	t.Run("MaxItemScoresExactly100", func(t *testing.T) {
		if got := PopularityScore(1000, 100, 10, 1000, 100, 10); got != 100 {
			t.Errorf("max item scored %d, want 100", got)
		}
	})

	t.Run("ZeroMaximaScoreZero", func(t *testing.T) {
		if got := PopularityScore(0, 0, 0, 0, 0, 0); got != 0 {
			t.Errorf("empty-stat item scored %d, want 0", got)
		}
	})

	t.Run("WeightsAreViews50Likes30Comments20", func(t *testing.T) {
		if got := PopularityScore(1000, 0, 0, 1000, 100, 10); got != 50 {
			t.Errorf("views-only max scored %d, want 50", got)
		}
		if got := PopularityScore(0, 100, 0, 1000, 100, 10); got != 30 {
			t.Errorf("likes-only max scored %d, want 30", got)
		}
		if got := PopularityScore(0, 0, 10, 1000, 100, 10); got != 20 {
			t.Errorf("comments-only max scored %d, want 20", got)
		}
	})

	t.Run("AlwaysWithinBounds", func(t *testing.T) {
		cases := [][6]int64{
			{1, 1, 1, 1, 1, 1},
			{500, 30, 2, 1000, 100, 10},
			{0, 0, 0, 1000, 100, 10},
			{999, 99, 9, 1000, 100, 10},
			{7, 0, 3, 7, 0, 3},
		}
		for _, c := range cases {
			got := PopularityScore(c[0], c[1], c[2], c[3], c[4], c[5])
			if got < 0 || got > 100 {
				t.Errorf("PopularityScore(%v) = %d, out of [0,100]", c, got)
			}
		}
	})
}
