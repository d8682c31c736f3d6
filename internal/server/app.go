package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"creatorlens/internal/advisor"
	"creatorlens/internal/analysis"
	"creatorlens/internal/config"
	"creatorlens/internal/keystore"
	"creatorlens/internal/mail"
	"creatorlens/internal/models"
	"creatorlens/internal/monitoring"
	"creatorlens/internal/youtube"
)

// errNoCredential is returned when a workflow needs a gateway whose key
// is neither configured nor stored. Handlers surface it as a blocking
// prompt; no workflow proceeds without its key.
var errNoCredential = errors.New("API key is missing")

// VideoGateway is the surface of the YouTube data gateway the handlers
// use. The production implementation is *youtube.Client.
type VideoGateway interface {
	analysis.Source
	ResolveChannelByName(ctx context.Context, name string) (*models.ChannelRecord, error)
	RecentUploads(ctx context.Context, channelID string, n int64) ([]models.VideoRecord, error)
	ListCategories(ctx context.Context, region string) ([]models.VideoCategory, error)
	SearchVideos(ctx context.Context, q youtube.SearchQuery) ([]models.VideoRecord, error)
	ValidateKey(ctx context.Context) bool
}

// ReportAdvisor is the surface of the AI narrative gateway. The
// production implementation is *advisor.Advisor.
type ReportAdvisor interface {
	ChannelReport(ctx context.Context, channel *models.ChannelRecord, videos []models.VideoRecord) (*models.ChannelReport, error)
	KeywordReport(ctx context.Context, keyword string, videos []models.VideoRecord) (*models.KeywordReport, error)
	OpportunityReport(ctx context.Context, topic string, stats models.KeywordStats) (*models.OpportunityReport, error)
	SummarizeVideo(ctx context.Context, video *models.VideoRecord) (string, error)
	ValidateKey(ctx context.Context) bool
}

// Application wires the dashboard's dependencies together. Gateway
// clients are built lazily from whichever credential is current (config
// takes precedence over the key store) and rebuilt when the key changes.
type Application struct {
	Logger  *log.Logger
	Config  *config.Config
	Keys    *keystore.Store
	Monitor *monitoring.Monitor
	Mailer  *mail.Sender

	newVideoGateway func(ctx context.Context, apiKey string) (VideoGateway, error)
	newAdvisor      func(ctx context.Context, apiKey, model string) (ReportAdvisor, error)

	mu          sync.Mutex
	videoClient VideoGateway
	videoKey    string
	aiClient    ReportAdvisor
	aiKey       string
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := log.New(os.Stdout, "", log.Ldate|log.Ltime)

	keys, err := keystore.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open key store: %w", err)
	}

	app := &Application{
		Logger:  logger,
		Config:  cfg,
		Keys:    keys,
		Monitor: monitoring.NewMonitor(),
		Mailer:  mail.NewSender(&cfg.Email),
		newVideoGateway: func(ctx context.Context, apiKey string) (VideoGateway, error) {
			return youtube.NewClient(ctx, apiKey)
		},
		newAdvisor: func(ctx context.Context, apiKey, model string) (ReportAdvisor, error) {
			return advisor.New(ctx, apiKey, model)
		},
	}
	return app, nil
}

func (app *Application) youtubeKey() string {
	if app.Config.YouTube.APIKey != "" {
		return app.Config.YouTube.APIKey
	}
	return app.Keys.Get(keystore.KeyYouTube)
}

func (app *Application) geminiKey() string {
	if app.Config.AI.GeminiAPIKey != "" {
		return app.Config.AI.GeminiAPIKey
	}
	return app.Keys.Get(keystore.KeyGemini)
}

// videoGateway returns a YouTube gateway for the current credential,
// reusing the cached client while the key is unchanged.
func (app *Application) videoGateway(ctx context.Context) (VideoGateway, error) {
	key := app.youtubeKey()
	if key == "" {
		return nil, fmt.Errorf("YouTube %w", errNoCredential)
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.videoClient != nil && app.videoKey == key {
		return app.videoClient, nil
	}

	client, err := app.newVideoGateway(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube gateway: %w", err)
	}
	app.videoClient = client
	app.videoKey = key
	return client, nil
}

// reportAdvisor returns an AI gateway for the current credential, same
// caching rule as videoGateway.
func (app *Application) reportAdvisor(ctx context.Context) (ReportAdvisor, error) {
	key := app.geminiKey()
	if key == "" {
		return nil, fmt.Errorf("Gemini %w", errNoCredential)
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.aiClient != nil && app.aiKey == key {
		return app.aiClient, nil
	}

	client, err := app.newAdvisor(ctx, key, app.Config.AI.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI gateway: %w", err)
	}
	app.aiClient = client
	app.aiKey = key
	return client, nil
}
