// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
)

// The model does not phrase section breaks identically across responses, so
// the body sub-boundaries are found with ordered fallback patterns: each is
// tried in turn and the first match anywhere in the text wins. The lists are
// deliberately narrow; a model drifting to unanticipated phrasing (e.g.
// "Example:" singular) degrades to an unsplit body rather than a guess.
var examplesBoundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)实用例句[：:]?`),
	regexp.MustCompile(`(?i)例句[：:]`),
	regexp.MustCompile(`(?i)examples[：:]?`),
}

var relatedBoundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)相关词汇扩展[：:]?`),
	regexp.MustCompile(`(?i)相关词汇[：:]?`),
	regexp.MustCompile(`(?i)词汇扩展[：:]?`),
	regexp.MustCompile(`(?i)related (?:words|vocabulary)[：:]?`),
}

// bilingualCues mark example lines that carry their own translation
// (English sentence plus Chinese gloss). Such lines are kept verbatim.
var bilingualCues = []string{"（", "→", "｜"}

// numberedPrefix matches numbered-list example prefixes, ASCII or
// full-width period.
var numberedPrefix = regexp.MustCompile(`^[0-9]+[.．]\s*`)

// ExtractBodyFields splits the body section into the memory story, the
// example sentences, and the related-vocabulary entries. When no examples
// boundary matches, the whole first paragraph becomes the story and both
// lists stay empty; a long narrative that never transitions to examples is
// not truncated into one.
func ExtractBodyFields(body string) (memoryStory string, examples, related []string) {
	p, pEnd, ok := findBoundary(body, examplesBoundaryPatterns)
	if !ok {
		return firstParagraph(body), nil, nil
	}

	memoryStory = firstParagraph(body[:p])
	rest := body[pEnd:]

	exampleBlock := rest
	var relatedBlock string
	if q, qEnd, found := findBoundary(rest, relatedBoundaryPatterns); found {
		exampleBlock = rest[:q]
		relatedBlock = rest[qEnd:]
	}

	return memoryStory, exampleLines(exampleBlock), bulletLines(relatedBlock)
}

// findBoundary tries each pattern in order and returns the span of the first
// one that matches anywhere in text.
func findBoundary(text string, patterns []*regexp.Regexp) (start, end int, ok bool) {
	for _, re := range patterns {
		if loc := re.FindStringIndex(text); loc != nil {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// firstParagraph returns the text up to the first blank line, trimmed.
func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// exampleLines accepts bullet lines (marker stripped), numbered lines
// (prefix stripped), and bilingual-cue lines (kept verbatim). Anything else
// is dropped.
func exampleLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-"):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		case strings.HasPrefix(line, "•"):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "•")))
		case numberedPrefix.MatchString(line):
			out = append(out, numberedPrefix.ReplaceAllString(line, ""))
		case hasBilingualCue(line):
			out = append(out, line)
		}
	}
	return out
}

// bulletLines accepts only bullet-marker lines (marker stripped).
func bulletLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "-"):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		case strings.HasPrefix(line, "•"):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "•")))
		}
	}
	return out
}

func hasBilingualCue(line string) bool {
	for _, cue := range bilingualCues {
		if strings.Contains(line, cue) {
			return true
		}
	}
	return false
}
