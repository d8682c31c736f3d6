package analysis

import (
	"sort"

	"creatorlens/internal/models"
)

// ComputeKeywordStats derives the aggregate statistics the opportunity
// report is generated from. Everything is computed locally so the advisor
// only ever sees numbers, never the raw result set.
func ComputeKeywordStats(videos []models.VideoRecord) models.KeywordStats {
	stats := models.KeywordStats{VideoCount: len(videos)}
	if len(videos) == 0 {
		return stats
	}

	var totalViews int64
	views := make([]int64, 0, len(videos))
	viewsByChannel := make(map[string]int64)
	for _, v := range videos {
		totalViews += v.ViewCount
		views = append(views, v.ViewCount)
		viewsByChannel[v.ChannelID] += v.ViewCount
	}

	stats.MeanViews = float64(totalViews) / float64(len(videos))
	stats.UniqueChannels = len(viewsByChannel)

	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })
	mid := len(views) / 2
	if len(views)%2 == 0 {
		stats.MedianViews = float64(views[mid-1]+views[mid]) / 2
	} else {
		stats.MedianViews = float64(views[mid])
	}

	if totalViews > 0 {
		channelTotals := make([]int64, 0, len(viewsByChannel))
		for _, total := range viewsByChannel {
			channelTotals = append(channelTotals, total)
		}
		sort.Slice(channelTotals, func(i, j int) bool { return channelTotals[i] > channelTotals[j] })

		var topViews int64
		for i, total := range channelTotals {
			if i >= 5 {
				break
			}
			topViews += total
		}
		stats.TopChannelShare = float64(topViews) / float64(totalViews)
	}

	return stats
}
