package youtube

import (
	"fmt"
	"strings"

	"github.com/topiclens/topiclens/domain/provider"
	"github.com/topiclens/topiclens/domain/video"
)

// demoSeed describes one canned result. Timestamps are expressed as
// days before "now" so demo freshness scoring stays stable.
type demoSeed struct {
	id       string
	title    string
	channel  string
	duration string
	views    int64
	likes    int64
	comments int64
	daysOld  int
}

var demoSeeds = []demoSeed{
	{"demo-001", "%s Complete Course for Beginners", "CodeAcademy Pro", "PT28M45S", 1250000, 45000, 3200, 45},
	{"demo-002", "%s Tutorial - Step by Step Guide", "TechExplained", "PT15M30S", 890000, 32000, 2100, 30},
	{"demo-003", "Master %s in 2024 - Full Guide", "DevMastery", "PT42M10S", 675000, 28000, 1850, 60},
	{"demo-004", "%s Explained Simply", "SimplyTech", "PT12M5S", 520000, 21000, 1400, 90},
	{"demo-005", "Advanced %s Techniques", "ProDeveloper", "PT35M20S", 310000, 15000, 980, 120},
	{"demo-006", "%s Project Walkthrough", "BuildWithMe", "PT52M40S", 275000, 12500, 870, 75},
	{"demo-007", "%s Best Practices You Should Know", "CleanCoder", "PT18M15S", 198000, 9800, 640, 150},
	{"demo-008", "Learn %s Fast - Crash Course", "QuickLearn", "PT22M50S", 156000, 7200, 510, 20},
	{"demo-009", "%s Deep Dive", "EngineRoom", "PT48M30S", 98000, 5400, 420, 200},
	{"demo-010", "%s Interview Questions Answered", "CareerReady", "PT25M45S", 87000, 4100, 350, 110},
}

// demo produces a fully analyzed canned result set. It runs the same
// scoring pipeline as live data so the response shape is identical.
func (c *Client) demo(topic string, maxResults int, reason provider.Reason) provider.VideoResult {
	now := c.clock.Now()
	label := topic
	if strings.TrimSpace(label) == "" {
		label = "the requested topic"
	}

	seeds := demoSeeds
	if maxResults < len(seeds) {
		seeds = seeds[:maxResults]
	}

	videos := make([]video.Video, 0, len(seeds))
	for _, s := range seeds {
		published := now.AddDate(0, 0, -s.daysOld)
		videos = append(videos, video.Video{
			ID:           s.id,
			Title:        fmt.Sprintf(s.title, label),
			Description:  fmt.Sprintf("A practical walkthrough of %s with worked examples and exercises.", label),
			ChannelTitle: s.channel,
			PublishedAt:  published,
			Duration:     video.ParseDuration(s.duration),
			ViewCount:    s.views,
			LikeCount:    s.likes,
			CommentCount: s.comments,
			URL:          "https://www.youtube.com/watch?v=" + s.id,
			Thumbnail:    "https://i.ytimg.com/vi/" + s.id + "/mqdefault.jpg",
		})
	}

	analyzed := video.Analyze(videos, topic, now)
	return provider.VideoResult{
		Videos:      analyzed,
		Analytics:   video.Aggregate(analyzed),
		TotalFound:  len(analyzed),
		Topic:       topic,
		QueriesUsed: searchQueries(topic),
		IsDemo:      true,
		Error:       reason,
	}
}
