package video

import (
	"math"
	"sort"
	"strings"
	"time"
)

// The score weights below are deliberately policy, not contract: they
// produce a useful ordering, and callers should rely only on the
// monotonicity properties covered by the tests.

var educationalKeywords = []string{
	"tutorial", "guide", "course", "learn", "explained", "fundamentals", "beginner",
}

var beginnerKeywords = []string{
	"beginner", "introduction", "basics", "getting started", "101", "fundamentals",
}

var advancedKeywords = []string{
	"advanced", "expert", "master", "professional", "deep dive", "complex",
}

// QualityScore computes a heuristic quality figure for one video.
// Inputs that indicate reach (views), approval (like/comment ratios),
// freshness, a preferred duration class and title relevance all raise it.
func QualityScore(views, likes, comments int64, daysOld, durationSecs int, title, topic string) float64 {
	score := 0.0

	// Reach, dampened so view count alone cannot dominate.
	if views > 0 {
		score += math.Min(10, math.Sqrt(float64(views)/1000))
	}

	// Approval ratios.
	if views > 0 {
		likeRatio := float64(likes) / float64(views)
		commentRatio := float64(comments) / float64(views)
		score += likeRatio*1000 + commentRatio*5000
	}

	// Freshness bonus within the last year.
	if daysOld >= 0 && daysOld < 365 {
		score += float64(365-daysOld) / 365 * 2
	}

	// Duration class: 10-30 minutes is the sweet spot for lessons.
	switch {
	case durationSecs >= 600 && durationSecs <= 1800:
		score += 2
	case durationSecs >= 300 && durationSecs <= 3600:
		score += 1
	}

	titleLower := strings.ToLower(title)
	if topic != "" && strings.Contains(titleLower, strings.ToLower(topic)) {
		score += 3
	}
	for _, kw := range educationalKeywords {
		if strings.Contains(titleLower, kw) {
			score++
			break
		}
	}

	return round(score, 2)
}

// Difficulty classifies a video into a difficulty bucket from title and
// description keywords. Ties fall to Intermediate.
func Difficulty(title, description string) string {
	content := strings.ToLower(title + " " + description)

	beginner, advanced := 0, 0
	for _, kw := range beginnerKeywords {
		if strings.Contains(content, kw) {
			beginner++
		}
	}
	for _, kw := range advancedKeywords {
		if strings.Contains(content, kw) {
			advanced++
		}
	}

	switch {
	case beginner > advanced:
		return DifficultyBeginner
	case advanced > beginner:
		return DifficultyAdvanced
	default:
		return DifficultyIntermediate
	}
}

// EngagementRate is (likes+comments)/views as a percentage.
func EngagementRate(views, likes, comments int64) float64 {
	if views == 0 {
		return 0
	}
	return round(float64(likes+comments)/float64(views)*100, 3)
}

// RelevanceScore is the fraction of topic words found in the title.
func RelevanceScore(title, topic string) float64 {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return 0
	}
	titleLower := strings.ToLower(title)
	hits := 0
	for _, w := range words {
		if strings.Contains(titleLower, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// Analyze fills the derived fields of each video (age, quality score,
// difficulty, engagement, relevance) and returns the batch sorted by
// quality score, best first. The input slice is not modified.
func Analyze(videos []Video, topic string, now time.Time) []Video {
	out := make([]Video, len(videos))
	copy(out, videos)

	for i := range out {
		v := &out[i]
		if !v.PublishedAt.IsZero() {
			v.DaysOld = int(now.Sub(v.PublishedAt).Hours() / 24)
		}
		v.DurationText = FormatDuration(v.Duration)
		v.QualityScore = QualityScore(v.ViewCount, v.LikeCount, v.CommentCount, v.DaysOld, v.Duration, v.Title, topic)
		v.DifficultyLevel = Difficulty(v.Title, v.Description)
		v.EngagementRate = EngagementRate(v.ViewCount, v.LikeCount, v.CommentCount)
		v.RelevanceScore = RelevanceScore(v.Title, topic)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QualityScore > out[j].QualityScore
	})
	return out
}

// ChannelCount is one entry of the top-channels ranking.
type ChannelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analytics summarizes one fetched batch. It is derived strictly from
// that batch and never mixed across requests.
type Analytics struct {
	TotalVideos         int            `json:"total_videos"`
	TotalViews          int64          `json:"total_views"`
	TotalLikes          int64          `json:"total_likes"`
	AverageViews        int64          `json:"average_views"`
	AverageDuration     int            `json:"average_duration"`
	TotalWatchTimeHours float64        `json:"total_watch_time_hours"`
	Difficulty          map[string]int `json:"difficulty_distribution"`
	TopChannels         []ChannelCount `json:"top_channels"`
	AverageQualityScore float64        `json:"average_quality_score"`
}

// Aggregate computes batch analytics. An empty batch yields a zero value
// with an empty (non-nil) difficulty map.
func Aggregate(videos []Video) Analytics {
	a := Analytics{Difficulty: make(map[string]int)}
	if len(videos) == 0 {
		return a
	}

	var totalDuration int
	var totalQuality float64
	for _, v := range videos {
		a.TotalViews += v.ViewCount
		a.TotalLikes += v.LikeCount
		totalDuration += v.Duration
		totalQuality += v.QualityScore
		a.Difficulty[v.DifficultyLevel]++
	}

	a.TotalVideos = len(videos)
	a.AverageViews = a.TotalViews / int64(len(videos))
	a.AverageDuration = totalDuration / len(videos)
	a.TotalWatchTimeHours = round(float64(totalDuration)/3600, 1)
	a.AverageQualityScore = round(totalQuality/float64(len(videos)), 2)
	a.TopChannels = TopChannels(videos, 5)
	return a
}

// TopChannels ranks channels by contribution count, ties broken by
// first appearance in the batch.
func TopChannels(videos []Video, limit int) []ChannelCount {
	counts := make(map[string]int)
	var order []string
	for _, v := range videos {
		if v.ChannelTitle == "" {
			continue
		}
		if _, seen := counts[v.ChannelTitle]; !seen {
			order = append(order, v.ChannelTitle)
		}
		counts[v.ChannelTitle]++
	}

	ranked := make([]ChannelCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ChannelCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
