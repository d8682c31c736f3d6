package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"creatorlens/internal/models"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrNotFound signals that a lookup completed but matched nothing. Callers
// surface it as a user-visible notice rather than a failure.
var ErrNotFound = errors.New("no matching item found")

const maxSearchResults = 50

// Client is a read-only, API-key-authenticated gateway to the YouTube Data
// API v3. All calls are paced by a shared limiter so a burst of dashboard
// workflows cannot exhaust the daily quota in one spike.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(8), 8),
	}, nil
}

// SearchQuery constrains a keyword video search.
type SearchQuery struct {
	Query          string
	Region         string    // ISO 3166-1 alpha-2, empty for global
	CategoryID     string    // taxonomy ID, empty for all
	DurationClass  string    // "short", "long" or empty for any length
	PublishedAfter time.Time // zero value means no cutoff
	Order          string    // "viewCount", "date", ...; empty means relevance
	MaxResults     int64     // capped at 50
}

// ResolveChannelByName finds the best channel match for a display name and
// returns its full detail record. A search with no hits yields ErrNotFound.
func (c *Client) ResolveChannelByName(ctx context.Context, name string) (*models.ChannelRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("channel search for %q failed: %w", name, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %q: %w", name, ErrNotFound)
	}

	return c.GetChannel(ctx, resp.Items[0].Snippet.ChannelId)
}

// GetChannel fetches one channel's snippet, statistics and content details.
func (c *Client) GetChannel(ctx context.Context, channelID string) (*models.ChannelRecord, error) {
	channels, err := c.ChannelsByIDs(ctx, []string{channelID})
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}
	return &channels[0], nil
}

// ChannelsByIDs fetches full channel records for a batch of identifiers in
// a single request. IDs the API does not recognize are simply absent from
// the result.
func (c *Client) ChannelsByIDs(ctx context.Context, channelIDs []string) ([]models.ChannelRecord, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(channelIDs, ",")).
		MaxResults(int64(len(channelIDs))).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel details: %w", err)
	}

	records := make([]models.ChannelRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, channelFromAPI(item))
	}
	return records, nil
}

// RecentUploads returns up to n of the channel's most recent uploads with
// full detail, resolved through the channel's uploads playlist.
func (c *Client) RecentUploads(ctx context.Context, channelID string, n int64) ([]models.VideoRecord, error) {
	if n < 1 {
		n = 1
	}
	if n > maxSearchResults {
		n = maxSearchResults
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	channelResp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads playlist for %s: %w", channelID, err)
	}
	if len(channelResp.Items) == 0 || channelResp.Items[0].ContentDetails == nil ||
		channelResp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return nil, fmt.Errorf("channel %s uploads playlist: %w", channelID, ErrNotFound)
	}

	playlistID := channelResp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if playlistID == "" {
		return nil, fmt.Errorf("channel %s uploads playlist: %w", channelID, ErrNotFound)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	playlistResp, err := c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(n).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items for %s: %w", channelID, err)
	}

	var videoIDs []string
	for _, item := range playlistResp.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	return c.VideosByIDs(ctx, videoIDs)
}

// ListCategories fetches the assignable content-category taxonomy for a
// region.
func (c *Client) ListCategories(ctx context.Context, region string) ([]models.VideoCategory, error) {
	if region == "" {
		region = "US"
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.VideoCategories.List([]string{"snippet"}).
		RegionCode(region).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list video categories for %s: %w", region, err)
	}

	var categories []models.VideoCategory
	for _, item := range resp.Items {
		if item.Snippet == nil || !item.Snippet.Assignable {
			continue
		}
		categories = append(categories, models.VideoCategory{
			ID:    item.Id,
			Title: item.Snippet.Title,
		})
	}
	return categories, nil
}

// SearchHits issues a single keyword search and returns the lightweight
// hits in API order, without fetching statistics.
func (c *Client) SearchHits(ctx context.Context, q SearchQuery) ([]models.SearchHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	max := q.MaxResults
	if max < 1 || max > maxSearchResults {
		max = maxSearchResults
	}

	call := c.service.Search.List([]string{"snippet"}).
		Q(q.Query).
		Type("video").
		MaxResults(max).
		Context(ctx)
	if q.Region != "" {
		call = call.RegionCode(q.Region)
	}
	if q.CategoryID != "" {
		call = call.VideoCategoryId(q.CategoryID)
	}
	if q.DurationClass != "" {
		call = call.VideoDuration(q.DurationClass)
	}
	if !q.PublishedAfter.IsZero() {
		call = call.PublishedAfter(q.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if q.Order != "" {
		call = call.Order(q.Order)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("video search for %q failed: %w", q.Query, err)
	}

	hits := make([]models.SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		hit := models.SearchHit{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			hit.PublishedAt = publishedAt
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// SearchVideos runs SearchHits and resolves the hits into full detail
// records with one batch call, preserving the search order.
func (c *Client) SearchVideos(ctx context.Context, q SearchQuery) ([]models.VideoRecord, error) {
	hits, err := c.SearchHits(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.VideoID)
	}

	videos, err := c.VideosByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.VideoRecord, len(videos))
	for _, video := range videos {
		byID[video.ID] = video
	}

	ordered := make([]models.VideoRecord, 0, len(videos))
	for _, id := range ids {
		if video, ok := byID[id]; ok {
			ordered = append(ordered, video)
		}
	}
	return ordered, nil
}

// VideosByIDs fetches full detail records for an explicit batch of video
// identifiers with a single comma-joined request.
func (c *Client) VideosByIDs(ctx context.Context, videoIDs []string) ([]models.VideoRecord, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(strings.Join(videoIDs, ",")).
		MaxResults(int64(len(videoIDs))).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	records := make([]models.VideoRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, videoFromAPI(item))
	}
	return records, nil
}

// ValidateKey probes the API with the cheapest available call and reports
// whether the key is accepted.
func (c *Client) ValidateKey(ctx context.Context) bool {
	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}
	_, err := c.service.VideoCategories.List([]string{"snippet"}).
		RegionCode("US").
		Context(ctx).Do()
	if err != nil {
		log.Printf("YouTube key validation failed: %v", err)
		return false
	}
	return true
}

func videoFromAPI(item *youtube.Video) models.VideoRecord {
	video := models.VideoRecord{ID: item.Id}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.Tags = item.Snippet.Tags
		video.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
		video.DurationSeconds = ParseDurationSeconds(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}
	return video
}

func channelFromAPI(item *youtube.Channel) models.ChannelRecord {
	channel := models.ChannelRecord{ID: item.Id}

	if item.Snippet != nil {
		channel.Title = item.Snippet.Title
		channel.Description = item.Snippet.Description
		channel.Country = item.Snippet.Country
		channel.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			channel.PublishedAt = &publishedAt
		}
	}
	if item.Statistics != nil {
		channel.SubscriberCount = int64(item.Statistics.SubscriberCount)
		channel.VideoCount = int64(item.Statistics.VideoCount)
		channel.ViewCount = int64(item.Statistics.ViewCount)
	}
	return channel
}

func bestThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	switch {
	case thumbs.Medium != nil:
		return thumbs.Medium.Url
	case thumbs.High != nil:
		return thumbs.High.Url
	case thumbs.Default != nil:
		return thumbs.Default.Url
	}
	return ""
}
