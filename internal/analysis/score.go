package analysis

import "math"

// PopularityScore computes the weighted composite score for one item
// against the maxima of the collection being scored: reach carries half
// the weight, approval 30% and depth of engagement 20%. Scores are only
// comparable within one result set and are recomputed on every run.
func PopularityScore(views, likes, comments, maxViews, maxLikes, maxComments int64) int {
	score := share(views, maxViews)*50 + share(likes, maxLikes)*30 + share(comments, maxComments)*20
	return int(math.Round(score))
}

func share(count, max int64) float64 {
	if max <= 0 {
		return 0
	}
	return float64(count) / float64(max)
}
