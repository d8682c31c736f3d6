package export

import (
	"fmt"
	"strconv"
	"strings"

	"creatorlens/internal/models"
)

// utf8BOM prefixes every CSV document so spreadsheet tools pick the right
// encoding when the file is double-clicked.
const utf8BOM = "\uFEFF"

// VideosCSV serializes a processed video collection as a CSV document:
// BOM, header row, then one fully quoted row per record.
func VideosCSV(videos []models.VideoRecord) string {
	var sb strings.Builder
	sb.WriteString(utf8BOM)
	writeRow(&sb, []string{
		"Video ID", "Title", "Channel", "Published", "Duration (s)",
		"Views", "Likes", "Comments", "Popularity", "URL",
	})

	for _, v := range videos {
		popularity := ""
		if v.PopularityScore != nil {
			popularity = strconv.Itoa(*v.PopularityScore)
		}
		writeRow(&sb, []string{
			v.ID,
			v.Title,
			v.ChannelTitle,
			v.PublishedAt.Format("2006-01-02"),
			strconv.Itoa(v.DurationSeconds),
			strconv.FormatInt(v.ViewCount, 10),
			strconv.FormatInt(v.LikeCount, 10),
			strconv.FormatInt(v.CommentCount, 10),
			popularity,
			v.URL(),
		})
	}
	return sb.String()
}

// RisingChannelsCSV serializes a rising-channel ranking, one row per
// surviving channel in score order.
func RisingChannelsCSV(results []models.RisingChannel) string {
	var sb strings.Builder
	sb.WriteString(utf8BOM)
	writeRow(&sb, []string{
		"Rank", "Channel", "Subscribers", "Channel Created",
		"Top Video", "Top Video Views", "Virality Score",
	})

	for i, r := range results {
		created := ""
		if r.Channel.PublishedAt != nil {
			created = r.Channel.PublishedAt.Format("2006-01-02")
		}
		writeRow(&sb, []string{
			strconv.Itoa(i + 1),
			r.Channel.Title,
			strconv.FormatInt(r.Channel.SubscriberCount, 10),
			created,
			r.TopVideo.Title,
			strconv.FormatInt(r.TopVideo.ViewCount, 10),
			fmt.Sprintf("%.2f", r.Score),
		})
	}
	return sb.String()
}

// writeRow emits one CSV row with every field quoted and embedded quote
// characters doubled.
func writeRow(sb *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}
