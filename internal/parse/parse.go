// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns loosely formatted model output into canonical post
// records. Splitting is tolerant by policy: missing markers and unmatched
// patterns degrade to empty fields, never to errors.
package parse

import (
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Section markers of the six-section word-learning output format. The prompt
// in internal/prompt is contractually bound to this set; changing either side
// breaks the other.
const (
	MarkerTitle     = "【标题】"
	MarkerWordCard  = "【单词卡】"
	MarkerImageHint = "【配图建议】"
	MarkerBody      = "【正文】"
	MarkerTags      = "【标签】"
	MarkerMeta      = "【meta】"
)

// SectionMarkers lists the markers in canonical order.
var SectionMarkers = []string{
	MarkerTitle,
	MarkerWordCard,
	MarkerImageHint,
	MarkerBody,
	MarkerTags,
	MarkerMeta,
}

// Split cuts raw model output into named sections. For each marker, the
// section content runs from just past the marker's first occurrence to the
// nearest following occurrence of any other marker, or end of text. Because
// every other marker terminates a section regardless of canonical order,
// out-of-order output still splits correctly. A marker absent from the text
// produces no entry, so callers can tell "absent" from "empty". A repeated
// occurrence of the same marker stays inside the previous section's content.
func Split(text string, markers []string) map[string]string {
	sections := make(map[string]string)

	for _, mark := range markers {
		start := strings.Index(text, mark)
		if start < 0 {
			continue
		}
		rest := text[start+len(mark):]

		end := len(rest)
		for _, other := range markers {
			if other == mark {
				continue
			}
			if j := strings.Index(rest, other); j >= 0 && j < end {
				end = j
			}
		}

		sections[mark] = strings.TrimSpace(rest[:end])
	}

	return sections
}

// PostMapper maps split sections into a domain record. One implementation
// per post type; word learning today, phrase and grammar posts share the
// same splitting logic when they arrive.
type PostMapper interface {
	MapSections(sections map[string]string, word string) *types.WordPost
}

// ParseWordPost splits text on the canonical markers and maps the result
// into a WordPost. It is a pure function of its inputs.
func ParseWordPost(text, word string) *types.WordPost {
	var m WordPostMapper
	return m.MapSections(Split(text, SectionMarkers), word)
}
