package analysis

import (
	"sort"

	"creatorlens/internal/models"
	"creatorlens/internal/youtube"
)

// VideoType filters a collection by duration class.
type VideoType string

const (
	TypeAll     VideoType = "all"
	TypeRegular VideoType = "regular"
	TypeShort   VideoType = "short"
)

// SortKey orders a processed collection.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortViews      SortKey = "views"
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
)

// ProcessVideos annotates every record with a popularity score computed
// against the input collection's maxima, applies the type filter and sort
// key, and truncates to limit (0 means no truncation). Truncation happens
// strictly after filtering and sorting so the fetch order cannot bias the
// result. The input records are never mutated.
func ProcessVideos(videos []models.VideoRecord, typeFilter VideoType, sortKey SortKey, limit int) []models.VideoRecord {
	scored := annotateScores(videos)
	filtered := filterByType(scored, typeFilter)
	sortVideos(filtered, sortKey)

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func annotateScores(videos []models.VideoRecord) []models.VideoRecord {
	var maxViews, maxLikes, maxComments int64
	for _, v := range videos {
		if v.ViewCount > maxViews {
			maxViews = v.ViewCount
		}
		if v.LikeCount > maxLikes {
			maxLikes = v.LikeCount
		}
		if v.CommentCount > maxComments {
			maxComments = v.CommentCount
		}
	}

	scored := make([]models.VideoRecord, len(videos))
	for i, v := range videos {
		score := PopularityScore(v.ViewCount, v.LikeCount, v.CommentCount, maxViews, maxLikes, maxComments)
		v.PopularityScore = &score
		scored[i] = v
	}
	return scored
}

func filterByType(videos []models.VideoRecord, typeFilter VideoType) []models.VideoRecord {
	if typeFilter == TypeAll || typeFilter == "" {
		return videos
	}

	filtered := make([]models.VideoRecord, 0, len(videos))
	for _, v := range videos {
		short := youtube.IsShortForm(v.DurationSeconds)
		if (typeFilter == TypeShort && short) || (typeFilter == TypeRegular && !short) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func sortVideos(videos []models.VideoRecord, sortKey SortKey) {
	switch sortKey {
	case SortViews:
		sort.Slice(videos, func(i, j int) bool {
			return videos[i].ViewCount > videos[j].ViewCount
		})
	case SortNewest:
		sort.Slice(videos, func(i, j int) bool {
			return videos[i].PublishedAt.After(videos[j].PublishedAt)
		})
	case SortOldest:
		sort.Slice(videos, func(i, j int) bool {
			return videos[i].PublishedAt.Before(videos[j].PublishedAt)
		})
	default: // popularity
		sort.Slice(videos, func(i, j int) bool {
			return scoreOf(videos[i]) > scoreOf(videos[j])
		})
	}
}

func scoreOf(v models.VideoRecord) int {
	if v.PopularityScore == nil {
		return 0
	}
	return *v.PopularityScore
}
