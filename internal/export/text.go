package export

import (
	"fmt"
	"strings"

	"creatorlens/internal/models"
)

const divider = "========================================"

// ChannelReportText renders a channel growth report in the fixed section
// layout the dashboard offers as "download as text". Field contents are
// emitted verbatim, never summarized.
func ChannelReportText(report *models.ChannelReport) string {
	var sb strings.Builder

	writeHeader(&sb, fmt.Sprintf("CHANNEL GROWTH REPORT: %s", report.ChannelTitle))
	writeSection(&sb, "Diagnosis", report.Diagnosis)
	writeList(&sb, "Strengths", report.Strengths)
	writeList(&sb, "Weaknesses", report.Weaknesses)
	writeList(&sb, "Growth Strategies", report.GrowthStrategies)
	writeList(&sb, "Video Ideas", report.VideoIdeas)

	return sb.String()
}

// KeywordReportText renders a keyword market report.
func KeywordReportText(report *models.KeywordReport) string {
	var sb strings.Builder

	writeHeader(&sb, fmt.Sprintf("KEYWORD MARKET REPORT: %s", report.Keyword))
	writeSection(&sb, "Market Overview", report.MarketOverview)
	writeSection(&sb, "Audience Profile", report.AudienceProfile)
	writeList(&sb, "Content Angles", report.ContentAngles)
	writeList(&sb, "Title Ideas", report.TitleIdeas)
	writeList(&sb, "Risks", report.Risks)

	return sb.String()
}

// OpportunityReportText renders a topic opportunity report.
func OpportunityReportText(report *models.OpportunityReport) string {
	var sb strings.Builder

	writeHeader(&sb, fmt.Sprintf("TOPIC OPPORTUNITY REPORT: %s", report.Topic))
	writeSection(&sb, "Classification", fmt.Sprintf("%s ocean", report.OceanType))
	writeSection(&sb, "Opportunity Score", fmt.Sprintf("%d / 100", report.Score))
	writeSection(&sb, "Verdict", report.Verdict)
	writeSection(&sb, "Strategy", report.Strategy)
	writeList(&sb, "Entry Angles", report.EntryAngles)

	return sb.String()
}

func writeHeader(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "%s\n%s\n%s\n", divider, title, divider)
}

func writeSection(sb *strings.Builder, label, body string) {
	fmt.Fprintf(sb, "\n[%s]\n%s\n", label, body)
}

func writeList(sb *strings.Builder, label string, items []string) {
	fmt.Fprintf(sb, "\n[%s]\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}
