package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"creatorlens/internal/config"
	"creatorlens/internal/models"
	"creatorlens/internal/youtube"
)

type stubGateway struct {
	channel       *models.ChannelRecord
	uploads       []models.VideoRecord
	searchResults []models.VideoRecord
	categories    []models.VideoCategory
	hits          []models.SearchHit
	channels      []models.ChannelRecord
	videos        []models.VideoRecord
	err           error
	valid         bool
}

func (s *stubGateway) ResolveChannelByName(ctx context.Context, name string) (*models.ChannelRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.channel, nil
}

func (s *stubGateway) RecentUploads(ctx context.Context, channelID string, n int64) ([]models.VideoRecord, error) {
	return s.uploads, s.err
}

func (s *stubGateway) ListCategories(ctx context.Context, region string) ([]models.VideoCategory, error) {
	return s.categories, s.err
}

func (s *stubGateway) SearchVideos(ctx context.Context, q youtube.SearchQuery) ([]models.VideoRecord, error) {
	return s.searchResults, s.err
}

func (s *stubGateway) SearchHits(ctx context.Context, q youtube.SearchQuery) ([]models.SearchHit, error) {
	return s.hits, s.err
}

func (s *stubGateway) ChannelsByIDs(ctx context.Context, ids []string) ([]models.ChannelRecord, error) {
	return s.channels, s.err
}

func (s *stubGateway) VideosByIDs(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	return s.videos, s.err
}

func (s *stubGateway) ValidateKey(ctx context.Context) bool { return s.valid }

type stubAdvisor struct {
	channelReport *models.ChannelReport
	keywordReport *models.KeywordReport
	err           error
	valid         bool
}

func (s *stubAdvisor) ChannelReport(ctx context.Context, channel *models.ChannelRecord, videos []models.VideoRecord) (*models.ChannelReport, error) {
	return s.channelReport, s.err
}

func (s *stubAdvisor) KeywordReport(ctx context.Context, keyword string, videos []models.VideoRecord) (*models.KeywordReport, error) {
	return s.keywordReport, s.err
}

func (s *stubAdvisor) OpportunityReport(ctx context.Context, topic string, stats models.KeywordStats) (*models.OpportunityReport, error) {
	return nil, s.err
}

func (s *stubAdvisor) SummarizeVideo(ctx context.Context, video *models.VideoRecord) (string, error) {
	return "a summary", s.err
}

func (s *stubAdvisor) ValidateKey(ctx context.Context) bool { return s.valid }

func newTestApp(t *testing.T, gw *stubGateway, adv *stubAdvisor, withKeys bool) *Application {
	t.Helper()

	cfg := &config.Config{DataDir: t.TempDir()}
	if withKeys {
		cfg.YouTube.APIKey = "yt-test-key"
		cfg.AI.GeminiAPIKey = "gm-test-key"
	}

	app, err := NewApplication(cfg)
	if err != nil {
		t.Fatalf("failed to build application: %v", err)
	}
	app.newVideoGateway = func(ctx context.Context, apiKey string) (VideoGateway, error) {
		return gw, nil
	}
	app.newAdvisor = func(ctx context.Context, apiKey, model string) (ReportAdvisor, error) {
		return adv, nil
	}
	return app
}

func doRequest(t *testing.T, app *Application, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	SetupRoutes(app).ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return envelope
}

func TestHandlerAnalyzeKeyword(t *testing.T) {
	gw := &stubGateway{
		searchResults: []models.VideoRecord{
			{ID: "a", Title: "big", ViewCount: 1000, DurationSeconds: 600},
			{ID: "b", Title: "small", ViewCount: 10, DurationSeconds: 600},
		},
	}

	t.Run("ReturnsProcessedVideos", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{}, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/keyword",
			`{"query":"sourdough","sort_key":"views"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		videos, ok := envelope["videos"].([]any)
		if !ok || len(videos) != 2 {
			t.Fatalf("videos = %v, want 2 entries", envelope["videos"])
		}
		first := videos[0].(map[string]any)
		if first["id"] != "a" {
			t.Errorf("first video = %v, want the higher-view one", first["id"])
		}
		if _, scored := first["popularity_score"]; !scored {
			t.Error("processed videos should carry popularity scores")
		}
	})

	t.Run("MissingQueryIsBadRequest", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/keyword", `{"query":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("MissingCredentialBlocks", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{}, false)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/keyword", `{"query":"x"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("ReportFailureKeepsFetchedData", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{err: fmt.Errorf("model unavailable")}, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/keyword",
			`{"query":"sourdough","with_report":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 with partial result", rec.Code)
		}

		envelope := decodeEnvelope(t, rec)
		if envelope["report_error"] == nil {
			t.Error("expected a report_error marker")
		}
		if envelope["videos"] == nil {
			t.Error("fetched videos must survive a report failure")
		}
	})
}

func TestHandlerAnalyzeChannel(t *testing.T) {
	t.Run("ChannelNotFoundIsNotice", func(t *testing.T) {
		gw := &stubGateway{err: fmt.Errorf("channel %q: %w", "ghost", youtube.ErrNotFound)}
		app := newTestApp(t, gw, &stubAdvisor{}, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/channel", `{"query":"ghost"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("RemoteFailureIsBadGateway", func(t *testing.T) {
		gw := &stubGateway{err: fmt.Errorf("connection reset")}
		app := newTestApp(t, gw, &stubAdvisor{}, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/channel", `{"query":"any"}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
	})

	t.Run("SuccessWithReport", func(t *testing.T) {
		gw := &stubGateway{
			channel: &models.ChannelRecord{ID: "ch", Title: "Test Channel", SubscriberCount: 100},
			uploads: []models.VideoRecord{{ID: "v1", ViewCount: 50, DurationSeconds: 400}},
		}
		adv := &stubAdvisor{channelReport: &models.ChannelReport{Diagnosis: "fine"}}
		app := newTestApp(t, gw, adv, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/channel",
			`{"query":"Test Channel","with_report":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		if envelope["report"] == nil {
			t.Error("expected a report in the response")
		}
		if envelope["channel"] == nil || envelope["videos"] == nil {
			t.Error("expected channel and videos in the response")
		}
	})

	t.Run("UnknownSortKeyIsBadRequest", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/channel",
			`{"query":"x","sort_key":"alphabetical"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerAnalyzeOpportunity(t *testing.T) {
	gw := &stubGateway{
		hits: []models.SearchHit{
			{VideoID: "a1", ChannelID: "big"},
			{VideoID: "a2", ChannelID: "big"},
			{VideoID: "b1", ChannelID: "small"},
		},
		channels: []models.ChannelRecord{
			{ID: "big", Title: "Big", SubscriberCount: 1000},
			{ID: "small", Title: "Small", SubscriberCount: 10},
		},
		videos: []models.VideoRecord{
			{ID: "a1", ChannelID: "big", ViewCount: 900},
			{ID: "a2", ChannelID: "big", ViewCount: 600},
			{ID: "b1", ChannelID: "small", ViewCount: 300},
		},
	}

	t.Run("StatsCoverTheWholeResultSet", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{}, true)

		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/opportunity",
			`{"topic":"retro gaming"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		channels, ok := envelope["channels"].([]any)
		if !ok || len(channels) != 2 {
			t.Fatalf("channels = %v, want 2 rising entries", envelope["channels"])
		}

		stats, ok := envelope["stats"].(map[string]any)
		if !ok {
			t.Fatalf("stats missing from response: %v", envelope)
		}
		// Three hits across two channels: the aggregates must see the
		// repeat channel, not one representative video per channel.
		if stats["video_count"] != float64(3) {
			t.Errorf("video_count = %v, want 3", stats["video_count"])
		}
		if stats["unique_channels"] != float64(2) {
			t.Errorf("unique_channels = %v, want 2", stats["unique_channels"])
		}
	})

	t.Run("UnknownWindowIsBadRequest", func(t *testing.T) {
		app := newTestApp(t, gw, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/analyze/opportunity",
			`{"topic":"x","window":"30d"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestKeyEndpoints(t *testing.T) {
	t.Run("StoreAndReport", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{valid: true}, &stubAdvisor{valid: false}, false)

		rec := doRequest(t, app, http.MethodGet, "/api/v1/keys/", "")
		envelope := decodeEnvelope(t, rec)
		if envelope["youtube_configured"] != false {
			t.Error("expected youtube_configured=false before storing")
		}

		rec = doRequest(t, app, http.MethodPut, "/api/v1/keys/", `{"youtube_api_key":"yt-abc"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
		}
		envelope = decodeEnvelope(t, rec)
		if envelope["youtube_configured"] != true {
			t.Error("expected youtube_configured=true after storing")
		}
		if envelope["gemini_configured"] != false {
			t.Error("gemini key should remain unset")
		}

		rec = doRequest(t, app, http.MethodPost, "/api/v1/keys/validate", "")
		envelope = decodeEnvelope(t, rec)
		if envelope["youtube_valid"] != true {
			t.Error("expected the stored YouTube key to probe as valid")
		}
		if envelope["gemini_valid"] != false {
			t.Error("expected the absent Gemini key to probe as invalid")
		}
	})

	t.Run("SecretsAreNeverEchoed", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, false)
		doRequest(t, app, http.MethodPut, "/api/v1/keys/", `{"gemini_api_key":"gm-secret-xyz"}`)

		rec := doRequest(t, app, http.MethodGet, "/api/v1/keys/", "")
		if strings.Contains(rec.Body.String(), "gm-secret-xyz") {
			t.Error("key endpoint echoed a stored secret")
		}
	})
}

func TestExportEndpoints(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/export/csv",
			`{"videos":[{"id":"a","title":"with \"quotes\"","view_count":5,"published_at":"2026-01-01T00:00:00Z"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Body.String(), "\uFEFF") {
			t.Error("CSV export is missing the byte-order marker")
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), "text/csv") {
			t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("TextUnknownTypeIsBadRequest", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/export/text",
			`{"type":"mystery","report":{}}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("TextRendersChannelReport", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/export/text",
			`{"type":"channel","report":{"channel_title":"C","diagnosis":"healthy"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "CHANNEL GROWTH REPORT: C") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("JSONPrettyPrints", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/export/json",
			`{"report":{"topic":"t","score":5}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "\n  \"score\": 5") {
			t.Errorf("output is not indented: %s", rec.Body.String())
		}
	})

	t.Run("EmailWithoutSMTPIsBadRequest", func(t *testing.T) {
		app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)
		rec := doRequest(t, app, http.MethodPost, "/api/v1/export/email",
			`{"type":"channel","report":{"diagnosis":"x"}}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, &stubGateway{}, &stubAdvisor{}, true)

	rec := doRequest(t, app, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("fresh server health = %d, want 200", rec.Code)
	}

	app.Monitor.RecordFailure("channel analysis", fmt.Errorf("boom"), 0)
	rec = doRequest(t, app, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health after failure = %d, want 503", rec.Code)
	}
}
