package models

import "time"

// ChannelRecord is one fetched channel with its public statistics.
// PublishedAt is nil when the API did not return a creation date; such
// channels are excluded from any age-bounded filtering that depends on it.
type ChannelRecord struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Thumbnail       string     `json:"thumbnail"`
	SubscriberCount int64      `json:"subscriber_count"`
	VideoCount      int64      `json:"video_count"`
	ViewCount       int64      `json:"view_count"`
	Country         string     `json:"country,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// RisingChannel pairs a channel with its single best-performing recent
// video and the virality score derived from the two: representative-video
// views divided by subscriber count (floored to 1). Collections of this
// type are always sorted descending by Score.
type RisingChannel struct {
	Channel  ChannelRecord `json:"channel"`
	TopVideo VideoRecord   `json:"top_video"`
	Score    float64       `json:"score"`
}
