// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// DefaultTags is the fallback tag set applied when extraction finds none.
var DefaultTags = []string{"英语学习", "记单词", "英语词汇", "学习打卡", "英语干货"}

// WordPostMapper maps the six-section word-learning format into a WordPost.
// The mapping is pure: no I/O, no randomness, fully deterministic given the
// sections and the word. Absent sections behave as empty strings.
type WordPostMapper struct{}

var _ PostMapper = WordPostMapper{}

// MapSections assembles the canonical record, filling defaults for the title
// and tags when the corresponding sections are absent or empty.
func (WordPostMapper) MapSections(sections map[string]string, word string) *types.WordPost {
	title := strings.TrimSpace(sections[MarkerTitle])
	if title == "" {
		title = fmt.Sprintf("📚 今天学单词：%s", word)
	}

	tags := ExtractTags(sections[MarkerTags])
	if len(tags) == 0 {
		tags = append([]string(nil), DefaultTags...)
	}

	story, examples, related := ExtractBodyFields(sections[MarkerBody])

	return &types.WordPost{
		Word:            word,
		Title:           title,
		Definitions:     strings.TrimSpace(sections[MarkerWordCard]),
		MemoryStory:     story,
		Examples:        examples,
		Related:         related,
		Tags:            tags,
		ImageSuggestion: strings.TrimSpace(sections[MarkerImageHint]),
		Meta:            ExtractMeta(sections[MarkerMeta]),
	}
}
