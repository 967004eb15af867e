// Package video provides pure functions for scoring, classifying and
// aggregating video-search results. All functions are deterministic with
// no side effects.
package video

import (
	"fmt"
	"regexp"
	"time"
)

// Video is one normalized video record returned by the video provider.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Duration        int       `json:"duration"` // seconds
	DurationText    string    `json:"duration_formatted"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	DaysOld         int       `json:"days_old"`
	QualityScore    float64   `json:"quality_score"`
	DifficultyLevel string    `json:"difficulty_level"`
	URL             string    `json:"url"`
	Thumbnail       string    `json:"thumbnail"`
	EngagementRate  float64   `json:"engagement_rate"`
	RelevanceScore  float64   `json:"relevance_score"`
}

// Difficulty buckets.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO-8601 duration (PT1H2M3S) to seconds.
// Malformed input yields zero.
func ParseDuration(s string) int {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
