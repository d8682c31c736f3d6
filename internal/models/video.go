package models

import "time"

// VideoRecord is one fetched video together with its public statistics.
// Fetched fields are never mutated after decoding; PopularityScore is
// attached by the analysis processor onto a copy and stays nil until then.
type VideoRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	PublishedAt     time.Time `json:"published_at"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	Tags            []string  `json:"tags,omitempty"`
	PopularityScore *int      `json:"popularity_score,omitempty"`
}

// URL returns the public watch URL for the video.
func (v *VideoRecord) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// SearchHit is the lightweight shape returned by a keyword search before
// the detail batch is fetched. Statistics are not available at this stage.
type SearchHit struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
}

// VideoCategory is one entry of the regional content-category taxonomy.
type VideoCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
