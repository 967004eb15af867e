// Package prompt builds the templated curation prompt for a topic.
// Build is pure: given the same topic and instant it always produces the
// same artifact, and it performs no I/O.
package prompt

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTopic is returned when the topic is empty after trimming.
var ErrEmptyTopic = errors.New("topic must not be empty")

// Artifact is the rendered prompt plus its metadata. Immutable once built.
type Artifact struct {
	Topic           string    `json:"topic"`
	Prompt          string    `json:"prompt"`
	WordCount       int       `json:"word_count"`
	CharacterCount  int       `json:"character_count"`
	FocusAreas      []string  `json:"focus_areas"`
	TemplateVersion string    `json:"template_version"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Build renders the prompt template for a topic. The word and character
// counts always match the rendered text exactly.
func Build(topic string, now time.Time) (Artifact, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Artifact{}, ErrEmptyTopic
	}

	rendered := render(topic, now)

	return Artifact{
		Topic:           topic,
		Prompt:          rendered,
		WordCount:       len(strings.Fields(rendered)),
		CharacterCount:  len([]rune(rendered)),
		FocusAreas:      FocusAreas(topic),
		TemplateVersion: templateVersion,
		GeneratedAt:     now,
	}, nil
}

func render(topic string, now time.Time) string {
	r := strings.NewReplacer(
		"{topic}", topic,
		"{current_date}", now.Format("January 2, 2006"),
		"{topic_description}", topicDescription(topic),
		"{topic_guidance}", topicGuidance(topic),
	)
	return r.Replace(baseTemplate)
}
