// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data records and configuration for the
// post-engine pipeline.
package types

import "time"

// WordPost is the canonical record for one generated word-learning post.
// Whatever prompt produced the raw text, parsing always lands here; the
// renderer is the only consumer that decides the final post format.
type WordPost struct {
	// Word is the vocabulary word the post teaches. Never empty.
	Word string `json:"word" yaml:"word"`

	// Title is the post title. Falls back to a templated default when the
	// model omits the title section.
	Title string `json:"title" yaml:"title"`

	// Definitions holds the part-of-speech tagged glosses (e.g. "n. 含义; v. 含义").
	Definitions string `json:"definitions,omitempty" yaml:"definitions,omitempty"`

	// MemoryStory is a single paragraph with the memory technique or story.
	MemoryStory string `json:"memory_story,omitempty" yaml:"memory_story,omitempty"`

	// Examples are the usage example sentences, in document order.
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`

	// Related are the related-vocabulary entries, in document order.
	Related []string `json:"related,omitempty" yaml:"related,omitempty"`

	// Tags are the topic tags, in document order, not deduplicated.
	// Mappers cap the length and supply a default set when empty.
	Tags []string `json:"tags" yaml:"tags"`

	// ImageSuggestion is the model's cover-image suggestion, if any.
	ImageSuggestion string `json:"image_suggestion,omitempty" yaml:"image_suggestion,omitempty"`

	// Meta holds key/value metadata from the meta section (e.g. the prompt
	// version tag). Nil when the section produced no parseable lines, so
	// callers can tell "no metadata" from "empty metadata".
	Meta map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// PromptVersion returns the prompt-version tag from Meta, or fallback when
// the metadata carries none.
func (p *WordPost) PromptVersion(fallback string) string {
	if v, ok := p.Meta["prompt"]; ok && v != "" {
		return v
	}
	return fallback
}

// PublishResult reports the outcome of one publish attempt.
type PublishResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Method identifies how the post went out: "local", "api", or "browser".
	Method string `json:"method,omitempty"`

	// PostURL is the published note URL when the transport returns one.
	PostURL string `json:"post_url,omitempty"`

	// TextPath and JSONPath are set in local mode.
	TextPath string `json:"text_path,omitempty"`
	JSONPath string `json:"json_path,omitempty"`
}

// PostRecord is one stored post row joined with its interaction counters.
type PostRecord struct {
	ID            int64     `json:"id" yaml:"id"`
	Word          string    `json:"word" yaml:"word"`
	Level         string    `json:"level,omitempty" yaml:"level,omitempty"`
	PromptVersion string    `json:"prompt_version,omitempty" yaml:"prompt_version,omitempty"`
	Title         string    `json:"title,omitempty" yaml:"title,omitempty"`
	Tags          []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Likes         int       `json:"likes" yaml:"likes"`
	Favorites     int       `json:"favorites" yaml:"favorites"`
	Comments      int       `json:"comments" yaml:"comments"`
	Views         int       `json:"views" yaml:"views"`
}

// GroupStats aggregates interaction averages for one prompt version or level.
type GroupStats struct {
	Key          string  `json:"key" yaml:"key"`
	TotalPosts   int     `json:"total_posts" yaml:"total_posts"`
	AvgLikes     float64 `json:"avg_likes" yaml:"avg_likes"`
	AvgFavorites float64 `json:"avg_favorites" yaml:"avg_favorites"`
	AvgComments  float64 `json:"avg_comments" yaml:"avg_comments"`
}
