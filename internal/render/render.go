// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render owns the final post format. Only this package decides how a
// WordPost becomes post text; prompts supply material and parsing supplies
// fields, neither decides layout.
package render

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Header and footer template pools. The pick is seeded from the word so a
// given word always renders with the same pair, which keeps reposts,
// replays, and A/B comparisons reproducible.
var (
	defaultHeaders = []string{
		"📘 今天一起轻松记一个高频单词👍 点赞支持这个英语学习帖吧~ 📊 收藏可以随时回顾单词讲解哦",
		"📚 每天一个单词，慢慢把英语捡回来～👍 点赞 + 收藏更好吸收",
	}
	defaultFooters = []string{
		"👍 点赞是对我最大的支持，收藏起来反复看～",
		"📌 建议收藏，下次刷到还能复习这个单词",
	}
)

const (
	examplesLabel = "实用例句："
	relatedLabel  = "相关词汇扩展："
)

// Seed derives the template-selection seed from a word: the first 8 hex
// characters of the MD5 digest, read as a 32-bit integer. The hash choice is
// part of the format contract; the same word must select the same templates
// across runs and implementations.
func Seed(word string) int64 {
	sum := md5.Sum([]byte(word))
	hexDigest := hex.EncodeToString(sum[:])
	n, _ := strconv.ParseUint(hexDigest[:8], 16, 64)
	return int64(n)
}

// Render serializes a WordPost into the final post body. Rendering has no
// failure mode: any well-typed record yields a string. Empty fields keep
// their line positions so spacing stays consistent, except the related
// block, which disappears entirely when empty.
func Render(post *types.WordPost) string {
	word := strings.TrimSpace(post.Word)
	if word == "" {
		word = "word"
	}

	rng := rand.New(rand.NewSource(Seed(word)))
	header := defaultHeaders[rng.Intn(len(defaultHeaders))]
	footer := defaultFooters[rng.Intn(len(defaultFooters))]

	var lines []string

	lines = append(lines, header, "")
	lines = append(lines, post.Word, "", post.Definitions, "")
	lines = append(lines, post.MemoryStory, "")

	lines = append(lines, examplesLabel)
	for _, ex := range post.Examples {
		lines = append(lines, "- "+ex)
	}
	lines = append(lines, "")

	if len(post.Related) > 0 {
		lines = append(lines, relatedLabel)
		for _, r := range post.Related {
			lines = append(lines, "- "+r)
		}
		lines = append(lines, "")
	}

	lines = append(lines, footer)

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
