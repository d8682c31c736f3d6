package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"creatorlens/internal/models"
	"creatorlens/internal/youtube"
)

// Window is a caller-selected recency lookback.
type Window string

const (
	Window90d  Window = "90d"
	Window180d Window = "180d"
	Window365d Window = "365d"
	WindowAll  Window = "all"
)

func (w Window) days() int {
	switch w {
	case Window90d:
		return 90
	case Window180d:
		return 180
	case Window365d:
		return 365
	}
	return 0
}

// Valid reports whether w is one of the supported windows.
func (w Window) Valid() bool {
	switch w {
	case Window90d, Window180d, Window365d, WindowAll:
		return true
	}
	return false
}

// maxDistinctChannels bounds the downstream channel and video lookups.
const maxDistinctChannels = 40

// Source is the slice of the remote data gateway the aggregator needs.
type Source interface {
	SearchHits(ctx context.Context, q youtube.SearchQuery) ([]models.SearchHit, error)
	ChannelsByIDs(ctx context.Context, channelIDs []string) ([]models.ChannelRecord, error)
	VideosByIDs(ctx context.Context, videoIDs []string) ([]models.VideoRecord, error)
}

// RisingChannelQuery describes one rising-channel aggregation run.
type RisingChannelQuery struct {
	Topic      string
	Window     Window
	Region     string
	CategoryID string
	Length     string    // "", "short" or "long"
	Now        time.Time // injected by tests; zero means wall clock
}

// SearchCutoff is the publishedAfter constraint for the underlying search.
// The unbounded window still caps the search at one year back: that bound
// is about result relevance, not correctness, and deliberately does not
// match the creation-date filter.
func (q RisingChannelQuery) SearchCutoff(now time.Time) time.Time {
	if days := q.Window.days(); days > 0 {
		return now.AddDate(0, 0, -days)
	}
	return now.AddDate(-1, 0, 0)
}

// CreationCutoff is the channel-age filter instant. The unbounded window
// applies no exclusion at all.
func (q RisingChannelQuery) CreationCutoff(now time.Time) (time.Time, bool) {
	if days := q.Window.days(); days > 0 {
		return now.AddDate(0, 0, -days), true
	}
	return time.Time{}, false
}

// RisingChannels finds channels that are both newly created within the
// query window and currently viral: their best recent video is
// outperforming their subscriber base. It issues exactly one search, at
// most one channel batch fetch and one video batch fetch, and returns the
// survivors sorted descending by virality score.
//
// The second return value is the full detail record of every search hit,
// in search order. Unlike the rising list it keeps repeat channels and
// skips no one, so it is the set keyword aggregates are computed over.
func RisingChannels(ctx context.Context, src Source, q RisingChannelQuery) ([]models.RisingChannel, []models.VideoRecord, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	hits, err := src.SearchHits(ctx, youtube.SearchQuery{
		Query:          q.Topic,
		Region:         q.Region,
		CategoryID:     q.CategoryID,
		DurationClass:  q.Length,
		PublishedAfter: q.SearchCutoff(now),
		Order:          "viewCount",
		MaxResults:     50,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rising-channel search for %q failed: %w", q.Topic, err)
	}
	if len(hits) == 0 {
		return nil, nil, nil
	}

	// The search is ordered by view count, so the first hit seen for a
	// channel is its representative video. The video batch still covers
	// every hit: the aggregates need the whole result set, not just the
	// representatives.
	representative := make(map[string]string, maxDistinctChannels)
	var channelIDs []string
	videoIDs := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.VideoID == "" {
			continue
		}
		videoIDs = append(videoIDs, hit.VideoID)
		if hit.ChannelID == "" {
			continue
		}
		if _, seen := representative[hit.ChannelID]; seen {
			continue
		}
		if len(channelIDs) >= maxDistinctChannels {
			continue
		}
		representative[hit.ChannelID] = hit.VideoID
		channelIDs = append(channelIDs, hit.ChannelID)
	}

	channels, err := src.ChannelsByIDs(ctx, channelIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch channel batch: %w", err)
	}

	videos, err := src.VideosByIDs(ctx, videoIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch video batch: %w", err)
	}
	videosByID := make(map[string]models.VideoRecord, len(videos))
	for _, v := range videos {
		videosByID[v.ID] = v
	}
	searchVideos := make([]models.VideoRecord, 0, len(videos))
	for _, id := range videoIDs {
		if v, ok := videosByID[id]; ok {
			searchVideos = append(searchVideos, v)
		}
	}

	cutoff, bounded := q.CreationCutoff(now)

	var results []models.RisingChannel
	for _, channel := range channels {
		if bounded {
			// Channels with no creation date cannot pass an age-bounded
			// filter.
			if channel.PublishedAt == nil || channel.PublishedAt.Before(cutoff) {
				continue
			}
		}

		video, ok := videosByID[representative[channel.ID]]
		if !ok {
			continue
		}

		subscribers := channel.SubscriberCount
		if subscribers < 1 {
			subscribers = 1
		}

		results = append(results, models.RisingChannel{
			Channel:  channel,
			TopVideo: video,
			Score:    float64(video.ViewCount) / float64(subscribers),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, searchVideos, nil
}
