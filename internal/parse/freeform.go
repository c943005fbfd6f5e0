// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// freeformTagPattern matches #话题# style tags in free-form output.
var freeformTagPattern = regexp.MustCompile(`#([^#]+)#`)

// maxFreeformTags caps the free-form tag list; this path is more permissive
// than the structured one.
const maxFreeformTags = 10

// FreeformPost is the best-effort parse of a free-form (non-six-section)
// model response: first line as title, remaining non-blank lines as content.
type FreeformPost struct {
	Word     string
	Title    string
	Content  string
	Tags     []string
	FullText string
}

// ParseFreeform parses a free-form response for the themed post path. Like
// the structured path it never fails: an empty response still yields a
// record with the fallback title and tags.
func ParseFreeform(text, word string) *FreeformPost {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	title := fmt.Sprintf("📚 今天学单词：%s", word)
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		title = strings.TrimSpace(lines[0])
	}

	var bodyLines []string
	for _, line := range lines[min(1, len(lines)):] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			bodyLines = append(bodyLines, trimmed)
		}
	}
	body := strings.Join(bodyLines, "\n\n")

	var tags []string
	for _, line := range bodyLines {
		for _, m := range freeformTagPattern.FindAllStringSubmatch(line, -1) {
			tags = append(tags, m[1])
		}
	}
	if len(tags) == 0 {
		tags = append([]string(nil), DefaultTags...)
	}
	if len(tags) > maxFreeformTags {
		tags = tags[:maxFreeformTags]
	}

	return &FreeformPost{
		Word:     word,
		Title:    title,
		Content:  body,
		Tags:     tags,
		FullText: text,
	}
}
