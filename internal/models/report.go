package models

// ChannelReport is the structured growth/diagnosis/strategy report the
// advisor produces for one channel. The core routes and renders it
// unmodified; only Diagnosis is required for formatting.
type ChannelReport struct {
	ChannelTitle     string   `json:"channel_title"`
	Diagnosis        string   `json:"diagnosis"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	GrowthStrategies []string `json:"growth_strategies"`
	VideoIdeas       []string `json:"video_ideas"`
}

// KeywordReport is the structured market report for one search keyword.
type KeywordReport struct {
	Keyword         string   `json:"keyword"`
	MarketOverview  string   `json:"market_overview"`
	AudienceProfile string   `json:"audience_profile"`
	ContentAngles   []string `json:"content_angles"`
	TitleIdeas      []string `json:"title_ideas"`
	Risks           []string `json:"risks"`
}

// OpportunityReport classifies a topic as a red or blue ocean with a
// bounded opportunity score and an entry strategy.
type OpportunityReport struct {
	Topic       string   `json:"topic"`
	OceanType   string   `json:"ocean_type"` // "red" or "blue"
	Score       int      `json:"score"`      // 0-100
	Verdict     string   `json:"verdict"`
	Strategy    string   `json:"strategy"`
	EntryAngles []string `json:"entry_angles"`
}

// KeywordStats holds the aggregates computed locally from a search result
// set before the opportunity call is issued.
type KeywordStats struct {
	VideoCount      int     `json:"video_count"`
	MeanViews       float64 `json:"mean_views"`
	MedianViews     float64 `json:"median_views"`
	UniqueChannels  int     `json:"unique_channels"`
	TopChannelShare float64 `json:"top_channel_share"` // top-5 channels' share of total views, 0-1
}
