package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"creatorlens/internal/models"

	"google.golang.org/genai"
)

const (
	maxChannelReportVideos = 50
	maxKeywordReportVideos = 20
)

// Advisor generates structured strategy reports from fetched metadata via
// the Gemini API. Every report call requests JSON output against an
// explicit response schema, so a reply that does not match the schema
// fails at the decoding boundary instead of leaking partial fields
// downstream.
type Advisor struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Advisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Advisor{client: client, model: model}, nil
}

// ChannelReport produces a growth/diagnosis/strategy report for one
// channel from its summary and up to 50 recent video summaries.
func (a *Advisor) ChannelReport(ctx context.Context, channel *models.ChannelRecord, videos []models.VideoRecord) (*models.ChannelReport, error) {
	if channel == nil {
		return nil, fmt.Errorf("channel cannot be nil")
	}
	if len(videos) > maxChannelReportVideos {
		videos = videos[:maxChannelReportVideos]
	}

	prompt := buildChannelPrompt(channel, videos)

	var report models.ChannelReport
	if err := a.generateInto(ctx, prompt, channelReportSchema, &report); err != nil {
		return nil, fmt.Errorf("channel report for %s failed: %w", channel.Title, err)
	}
	if report.Diagnosis == "" {
		return nil, fmt.Errorf("channel report for %s is missing a diagnosis", channel.Title)
	}

	report.ChannelTitle = channel.Title
	return &report, nil
}

// KeywordReport produces a market report for a keyword from up to 20 of
// its top videos.
func (a *Advisor) KeywordReport(ctx context.Context, keyword string, videos []models.VideoRecord) (*models.KeywordReport, error) {
	if len(videos) > maxKeywordReportVideos {
		videos = videos[:maxKeywordReportVideos]
	}

	prompt := buildKeywordPrompt(keyword, videos)

	var report models.KeywordReport
	if err := a.generateInto(ctx, prompt, keywordReportSchema, &report); err != nil {
		return nil, fmt.Errorf("keyword report for %q failed: %w", keyword, err)
	}
	if report.MarketOverview == "" {
		return nil, fmt.Errorf("keyword report for %q is missing the market overview", keyword)
	}

	report.Keyword = keyword
	return &report, nil
}

// OpportunityReport classifies a topic as red or blue ocean from locally
// computed aggregates. The raw result set never reaches the model.
func (a *Advisor) OpportunityReport(ctx context.Context, topic string, stats models.KeywordStats) (*models.OpportunityReport, error) {
	prompt := buildOpportunityPrompt(topic, stats)

	var report models.OpportunityReport
	if err := a.generateInto(ctx, prompt, opportunityReportSchema, &report); err != nil {
		return nil, fmt.Errorf("opportunity report for %q failed: %w", topic, err)
	}
	if report.Verdict == "" {
		return nil, fmt.Errorf("opportunity report for %q is missing a verdict", topic)
	}

	if report.Score < 0 {
		report.Score = 0
	} else if report.Score > 100 {
		report.Score = 100
	}
	if report.OceanType != "red" && report.OceanType != "blue" {
		return nil, fmt.Errorf("opportunity report for %q has unknown ocean type %q", topic, report.OceanType)
	}

	report.Topic = topic
	return &report, nil
}

// SummarizeVideo returns a short free-text summary of one video built
// from its title, description, tags and view count.
func (a *Advisor) SummarizeVideo(ctx context.Context, video *models.VideoRecord) (string, error) {
	if video == nil {
		return "", fmt.Errorf("video cannot be nil")
	}

	prompt := fmt.Sprintf(`Summarize the following YouTube video in 2-3 plain sentences for a channel consultant. Do not speculate beyond the metadata.

Title: %s
Tags: %s
View count: %d
Description: %s`,
		video.Title,
		strings.Join(video.Tags, ", "),
		video.ViewCount,
		truncate(video.Description, 1000),
	)

	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to summarize video %s: %w", video.ID, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no summary received for video %s", video.ID)
	}
	return text, nil
}

// ValidateKey probes the API with a one-word generation and reports
// whether the key is accepted.
func (a *Advisor) ValidateKey(ctx context.Context) bool {
	_, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text("ping"), nil)
	if err != nil {
		log.Printf("Gemini key validation failed: %v", err)
		return false
	}
	return true
}

func (a *Advisor) generateInto(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return fmt.Errorf("empty response from model")
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("response did not match the report schema: %w", err)
	}
	return nil
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
