package advisor

import (
	"fmt"
	"strings"

	"creatorlens/internal/models"
)

func buildChannelPrompt(channel *models.ChannelRecord, videos []models.VideoRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a YouTube growth consultant preparing a written diagnosis for a client.

CHANNEL:
Name: %s
Subscribers: %d
Total views: %d
Uploaded videos: %d
About: %s

RECENT UPLOADS (newest first):
`,
		channel.Title,
		channel.SubscriberCount,
		channel.ViewCount,
		channel.VideoCount,
		truncate(channel.Description, 500),
	)

	writeVideoLines(&sb, videos)

	sb.WriteString(`
Diagnose the channel's current trajectory, name its concrete strengths and weaknesses, and lay out growth strategies and specific video ideas the creator could execute next month. Ground every claim in the numbers above.`)

	return sb.String()
}

func buildKeywordPrompt(keyword string, videos []models.VideoRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a YouTube market analyst. The client is considering making content about %q.

TOP VIDEOS CURRENTLY RANKING FOR THE KEYWORD:
`, keyword)

	writeVideoLines(&sb, videos)

	sb.WriteString(`
Describe the market around this keyword: who watches it, which content angles are working, which title patterns recur, and what risks a new entrant faces. Base the report only on the listed videos.`)

	return sb.String()
}

func buildOpportunityPrompt(topic string, stats models.KeywordStats) string {
	return fmt.Sprintf(`You are a YouTube strategy consultant judging whether %q is a crowded ("red ocean") or open ("blue ocean") topic.

AGGREGATE STATISTICS FOR THE TOPIC'S CURRENT TOP RESULTS:
Videos analyzed: %d
Mean views: %.0f
Median views: %.0f
Distinct channels: %d
View share held by the top 5 channels: %.0f%%

Classify the topic, give an opportunity score from 0 (saturated, avoid) to 100 (wide open), a one-paragraph verdict, an entry strategy, and concrete entry angles. A large gap between mean and median views or a high top-5 share indicates a winner-take-all market.`,
		topic,
		stats.VideoCount,
		stats.MeanViews,
		stats.MedianViews,
		stats.UniqueChannels,
		stats.TopChannelShare*100,
	)
}

func writeVideoLines(sb *strings.Builder, videos []models.VideoRecord) {
	for _, v := range videos {
		fmt.Fprintf(sb, "- %s | %s | views %d, likes %d, comments %d, published %s\n",
			truncate(v.Title, 120),
			v.ChannelTitle,
			v.ViewCount,
			v.LikeCount,
			v.CommentCount,
			v.PublishedAt.Format("2006-01-02"),
		)
	}
}
