// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
)

// tagPattern matches a tag prefix up to the next whitespace or '#'.
var tagPattern = regexp.MustCompile(`#([^#\s]+)`)

// maxTags caps the structured-path tag list.
const maxTags = 8

// ExtractTags returns up to 8 tags from the tags section, in document order.
// Duplicates are preserved; deduplication is not this layer's job.
func ExtractTags(section string) []string {
	matches := tagPattern.FindAllStringSubmatch(section, -1)
	var tags []string
	for _, m := range matches {
		tags = append(tags, m[1])
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// ExtractMeta parses key=value lines from the meta section. Lines without a
// '=' are ignored; the split is on the first '='; both sides are trimmed.
// Returns nil when no entries result, so callers can distinguish "no
// metadata" from "empty metadata".
func ExtractMeta(section string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(section, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
