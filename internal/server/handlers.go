package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"creatorlens/internal/analysis"
	"creatorlens/internal/export"
	"creatorlens/internal/keystore"
	"creatorlens/internal/models"
	"creatorlens/internal/youtube"
)

// writeGatewayError maps the error taxonomy onto responses: a missing
// credential blocks with 401, a lookup miss is a 404 notice, everything
// else is a generic 502. Nothing is retried.
func (app *Application) writeGatewayError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNoCredential):
		app.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, youtube.ErrNotFound):
		app.writeError(w, http.StatusNotFound, err.Error())
	default:
		app.Logger.Printf("gateway error: %v", err)
		app.writeError(w, http.StatusBadGateway, "remote lookup failed, please try again")
	}
}

func parseTypeFilter(s string) (analysis.VideoType, error) {
	switch analysis.VideoType(s) {
	case "", analysis.TypeAll:
		return analysis.TypeAll, nil
	case analysis.TypeRegular:
		return analysis.TypeRegular, nil
	case analysis.TypeShort:
		return analysis.TypeShort, nil
	}
	return "", fmt.Errorf("unknown type filter %q", s)
}

func parseSortKey(s string) (analysis.SortKey, error) {
	switch analysis.SortKey(s) {
	case "", analysis.SortPopularity:
		return analysis.SortPopularity, nil
	case analysis.SortViews, analysis.SortNewest, analysis.SortOldest:
		return analysis.SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

type channelAnalysisRequest struct {
	Query      string `json:"query"`
	TypeFilter string `json:"type_filter"`
	SortKey    string `json:"sort_key"`
	Limit      int    `json:"limit"`
	WithReport bool   `json:"with_report"`
}

// HandlerAnalyzeChannel resolves a channel by display name, fetches its
// recent uploads, and returns the processed collection, optionally with
// an AI growth report. A report failure never discards the fetched data.
func (app *Application) HandlerAnalyzeChannel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req channelAnalysisRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Query == "" {
		app.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	typeFilter, err := parseTypeFilter(req.TypeFilter)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortKey, err := parseSortKey(req.SortKey)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gateway, err := app.videoGateway(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	channel, err := gateway.ResolveChannelByName(r.Context(), req.Query)
	if err != nil {
		app.Monitor.RecordFailure("channel analysis", err, time.Since(start))
		app.writeGatewayError(w, err)
		return
	}

	uploads, err := gateway.RecentUploads(r.Context(), channel.ID, 50)
	if err != nil {
		app.Monitor.RecordFailure("channel analysis", err, time.Since(start))
		app.writeGatewayError(w, err)
		return
	}

	videos := analysis.ProcessVideos(uploads, typeFilter, sortKey, req.Limit)

	response := Envelope{
		"channel": channel,
		"videos":  videos,
	}

	if req.WithReport {
		// The report step fails independently of the fetch so the raw
		// videos are still shown.
		report, reportErr := app.channelReport(r, channel, uploads)
		if reportErr != nil {
			app.Logger.Printf("channel report for %q failed: %v", req.Query, reportErr)
			response["report_error"] = "report generation failed"
		} else {
			response["report"] = report
		}
	}

	app.Monitor.RecordSuccess("channel analysis",
		fmt.Sprintf("%s: %d videos", channel.Title, len(videos)), time.Since(start))
	app.writeJSON(w, http.StatusOK, response)
}

func (app *Application) channelReport(r *http.Request, channel *models.ChannelRecord, videos []models.VideoRecord) (*models.ChannelReport, error) {
	adv, err := app.reportAdvisor(r.Context())
	if err != nil {
		return nil, err
	}
	return adv.ChannelReport(r.Context(), channel, videos)
}

type keywordAnalysisRequest struct {
	Query      string `json:"query"`
	Region     string `json:"region"`
	CategoryID string `json:"category_id"`
	ShortsOnly bool   `json:"shorts_only"`
	TypeFilter string `json:"type_filter"`
	SortKey    string `json:"sort_key"`
	Limit      int    `json:"limit"`
	WithReport bool   `json:"with_report"`
}

// HandlerAnalyzeKeyword searches videos for a keyword, processes the
// result set, and optionally adds an AI market report built from the top
// twenty processed videos.
func (app *Application) HandlerAnalyzeKeyword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req keywordAnalysisRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Query == "" {
		app.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	typeFilter, err := parseTypeFilter(req.TypeFilter)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortKey, err := parseSortKey(req.SortKey)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gateway, err := app.videoGateway(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	query := youtube.SearchQuery{
		Query:      req.Query,
		Region:     req.Region,
		CategoryID: req.CategoryID,
		Order:      "viewCount",
		MaxResults: 50,
	}
	if req.ShortsOnly {
		query.DurationClass = "short"
	}

	fetched, err := gateway.SearchVideos(r.Context(), query)
	if err != nil {
		app.Monitor.RecordFailure("keyword analysis", err, time.Since(start))
		app.writeGatewayError(w, err)
		return
	}

	videos := analysis.ProcessVideos(fetched, typeFilter, sortKey, req.Limit)

	response := Envelope{
		"query":  req.Query,
		"videos": videos,
	}

	if req.WithReport {
		report, reportErr := app.keywordReport(r, req.Query, videos)
		if reportErr != nil {
			app.Logger.Printf("keyword report for %q failed: %v", req.Query, reportErr)
			response["report_error"] = "report generation failed"
		} else {
			response["report"] = report
		}
	}

	app.Monitor.RecordSuccess("keyword analysis",
		fmt.Sprintf("%s: %d videos", req.Query, len(videos)), time.Since(start))
	app.writeJSON(w, http.StatusOK, response)
}

func (app *Application) keywordReport(r *http.Request, keyword string, videos []models.VideoRecord) (*models.KeywordReport, error) {
	adv, err := app.reportAdvisor(r.Context())
	if err != nil {
		return nil, err
	}
	return adv.KeywordReport(r.Context(), keyword, videos)
}

type opportunityRequest struct {
	Topic      string `json:"topic"`
	Window     string `json:"window"`
	Region     string `json:"region"`
	CategoryID string `json:"category_id"`
	Length     string `json:"length"`
	WithReport bool   `json:"with_report"`
}

// HandlerAnalyzeOpportunity runs the rising-channel aggregation for a
// topic and optionally asks the advisor for a red/blue-ocean verdict from
// aggregates computed over the full search result set.
func (app *Application) HandlerAnalyzeOpportunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req opportunityRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Topic == "" {
		app.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	window := analysis.Window(req.Window)
	if req.Window == "" {
		window = analysis.WindowAll
	}
	if !window.Valid() {
		app.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown window %q", req.Window))
		return
	}
	if req.Length != "" && req.Length != "short" && req.Length != "long" {
		app.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown length filter %q", req.Length))
		return
	}

	gateway, err := app.videoGateway(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	results, searchVideos, err := analysis.RisingChannels(r.Context(), gateway, analysis.RisingChannelQuery{
		Topic:      req.Topic,
		Window:     window,
		Region:     req.Region,
		CategoryID: req.CategoryID,
		Length:     req.Length,
	})
	if err != nil {
		app.Monitor.RecordFailure("opportunity analysis", err, time.Since(start))
		app.writeGatewayError(w, err)
		return
	}

	// Concentration aggregates are taken over every search hit, where
	// channels repeat, not over the deduplicated rising list.
	stats := analysis.ComputeKeywordStats(searchVideos)

	response := Envelope{
		"topic":    req.Topic,
		"channels": results,
		"stats":    stats,
	}

	if req.WithReport && len(results) > 0 {
		report, reportErr := app.opportunityReport(r, req.Topic, stats)
		if reportErr != nil {
			app.Logger.Printf("opportunity report for %q failed: %v", req.Topic, reportErr)
			response["report_error"] = "report generation failed"
		} else {
			response["report"] = report
		}
	}

	app.Monitor.RecordSuccess("opportunity analysis",
		fmt.Sprintf("%s: %d rising channels", req.Topic, len(results)), time.Since(start))
	app.writeJSON(w, http.StatusOK, response)
}

func (app *Application) opportunityReport(r *http.Request, topic string, stats models.KeywordStats) (*models.OpportunityReport, error) {
	adv, err := app.reportAdvisor(r.Context())
	if err != nil {
		return nil, err
	}
	return adv.OpportunityReport(r.Context(), topic, stats)
}

// HandlerGetCategories returns the assignable content-category taxonomy
// for a region (default US).
func (app *Application) HandlerGetCategories(w http.ResponseWriter, r *http.Request) {
	gateway, err := app.videoGateway(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	categories, err := gateway.ListCategories(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, Envelope{"categories": categories})
}

type videoSummaryRequest struct {
	VideoID string `json:"video_id"`
}

// HandlerSummarizeVideo fetches one video's detail record and returns a
// short free-text AI summary of it.
func (app *Application) HandlerSummarizeVideo(w http.ResponseWriter, r *http.Request) {
	var req videoSummaryRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.VideoID == "" {
		app.writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}

	gateway, err := app.videoGateway(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	videos, err := gateway.VideosByIDs(r.Context(), []string{req.VideoID})
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}
	if len(videos) == 0 {
		app.writeGatewayError(w, fmt.Errorf("video %s: %w", req.VideoID, youtube.ErrNotFound))
		return
	}

	adv, err := app.reportAdvisor(r.Context())
	if err != nil {
		app.writeGatewayError(w, err)
		return
	}

	summary, err := adv.SummarizeVideo(r.Context(), &videos[0])
	if err != nil {
		app.Logger.Printf("video summary for %s failed: %v", req.VideoID, err)
		app.writeError(w, http.StatusBadGateway, "summary generation failed")
		return
	}

	app.writeJSON(w, http.StatusOK, Envelope{"video": videos[0], "summary": summary})
}

type csvExportRequest struct {
	Videos []models.VideoRecord   `json:"videos"`
	Rising []models.RisingChannel `json:"rising"`
}

// HandlerExportCSV serializes a video collection or a rising-channel
// ranking as a downloadable CSV document.
func (app *Application) HandlerExportCSV(w http.ResponseWriter, r *http.Request) {
	var req csvExportRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	var doc, filename string
	switch {
	case len(req.Rising) > 0:
		doc = export.RisingChannelsCSV(req.Rising)
		filename = "rising_channels.csv"
	default:
		doc = export.VideosCSV(req.Videos)
		filename = "videos.csv"
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	fmt.Fprint(w, doc)
}

type textExportRequest struct {
	Type   string          `json:"type"` // "channel", "keyword", "opportunity"
	Report json.RawMessage `json:"report"`
}

func renderReportText(kind string, raw json.RawMessage) (string, error) {
	switch kind {
	case "channel":
		var report models.ChannelReport
		if err := json.Unmarshal(raw, &report); err != nil {
			return "", err
		}
		return export.ChannelReportText(&report), nil
	case "keyword":
		var report models.KeywordReport
		if err := json.Unmarshal(raw, &report); err != nil {
			return "", err
		}
		return export.KeywordReportText(&report), nil
	case "opportunity":
		var report models.OpportunityReport
		if err := json.Unmarshal(raw, &report); err != nil {
			return "", err
		}
		return export.OpportunityReportText(&report), nil
	}
	return "", fmt.Errorf("unknown report type %q", kind)
}

// HandlerExportText renders a report in its fixed plain-text layout.
func (app *Application) HandlerExportText(w http.ResponseWriter, r *http.Request) {
	var req textExportRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	doc, err := renderReportText(req.Type, req.Report)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.txt"`)
	fmt.Fprint(w, doc)
}

type jsonExportRequest struct {
	Report json.RawMessage `json:"report"`
}

// HandlerExportJSON pretty-prints the given structure byte-for-byte.
func (app *Application) HandlerExportJSON(w http.ResponseWriter, r *http.Request) {
	var req jsonExportRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	var value any
	if err := json.Unmarshal(req.Report, &value); err != nil {
		app.writeError(w, http.StatusBadRequest, "report is not valid JSON")
		return
	}

	doc, err := export.ReportJSON(value)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.json"`)
	fmt.Fprint(w, doc)
}

type emailExportRequest struct {
	Subject string          `json:"subject"`
	Type    string          `json:"type"`
	Report  json.RawMessage `json:"report"`
}

// HandlerExportEmail renders a report as text and delivers it to the
// configured recipient.
func (app *Application) HandlerExportEmail(w http.ResponseWriter, r *http.Request) {
	if !app.Mailer.Enabled() {
		app.writeError(w, http.StatusBadRequest, "email delivery is not configured")
		return
	}

	var req emailExportRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	doc, err := renderReportText(req.Type, req.Report)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "CreatorLens report"
	}

	if err := app.Mailer.SendReport(subject, doc); err != nil {
		app.Logger.Printf("email export failed: %v", err)
		app.writeError(w, http.StatusBadGateway, "email delivery failed")
		return
	}

	app.writeJSON(w, http.StatusOK, Envelope{"sent": true})
}

// HandlerGetKeys reports which credentials are configured without ever
// echoing the secrets.
func (app *Application) HandlerGetKeys(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, Envelope{
		"youtube_configured": app.youtubeKey() != "",
		"gemini_configured":  app.geminiKey() != "",
	})
}

type updateKeysRequest struct {
	YouTubeAPIKey *string `json:"youtube_api_key"`
	GeminiAPIKey  *string `json:"gemini_api_key"`
}

// HandlerUpdateKeys stores new credentials. An explicit empty string
// removes the stored key; an absent field leaves it untouched.
func (app *Application) HandlerUpdateKeys(w http.ResponseWriter, r *http.Request) {
	var req updateKeysRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	if req.YouTubeAPIKey != nil {
		if err := app.Keys.Set(keystore.KeyYouTube, *req.YouTubeAPIKey); err != nil {
			app.writeError(w, http.StatusInternalServerError, "failed to store key")
			return
		}
	}
	if req.GeminiAPIKey != nil {
		if err := app.Keys.Set(keystore.KeyGemini, *req.GeminiAPIKey); err != nil {
			app.writeError(w, http.StatusInternalServerError, "failed to store key")
			return
		}
	}

	app.HandlerGetKeys(w, r)
}

// HandlerValidateKeys probes both gateways with their current keys. A
// missing key simply validates as false.
func (app *Application) HandlerValidateKeys(w http.ResponseWriter, r *http.Request) {
	youtubeValid := false
	if gateway, err := app.videoGateway(r.Context()); err == nil {
		youtubeValid = gateway.ValidateKey(r.Context())
	}

	geminiValid := false
	if adv, err := app.reportAdvisor(r.Context()); err == nil {
		geminiValid = adv.ValidateKey(r.Context())
	}

	app.writeJSON(w, http.StatusOK, Envelope{
		"youtube_valid": youtubeValid,
		"gemini_valid":  geminiValid,
	})
}

// HandlerHealth mirrors the monitor's health view.
func (app *Application) HandlerHealth(w http.ResponseWriter, r *http.Request) {
	if app.Monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", app.Monitor.StatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", app.Monitor.StatusSummary())
}

// HandlerStatus returns the per-workflow run summary as plain text.
func (app *Application) HandlerStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, app.Monitor.StatusSummary())
}
