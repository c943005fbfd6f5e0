// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagegen produces the cover card for a post: Stable Diffusion
// text-to-image when a local API is available, a locally drawn template
// otherwise. A failed txt2img call falls back silently; cover generation
// never aborts the pipeline.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/post-engine/internal/httputil"
	"github.com/pdiddy/post-engine/pkg/types"
)

const (
	defaultSDAPIURL  = "http://127.0.0.1:7860"
	defaultOutputDir = "generated_images"
	defaultSubtitle  = "学习单词"
)

// sdStylePrompt pins the card style: minimal, square, lowercase word only.
const sdStylePrompt = `【风格说明】
小红书风格的英语单词学习卡片，
极简设计，干净的白色或浅米色背景，
1:1 正方形构图，
只包含一个英文单词，没有任何插画、人物或图形元素，无中文释义，无例句，无标点等多余符号，

顶部居中显示一个醒目的英文单词，使用小写字母，

现代无衬线字体，
排版清晰，留白充足，阅读舒适，
整体像一个真实的小红书英语学习账号截图，
安静、克制、适合收藏`

const sdNegativePrompt = `人物，真人，卡通，动漫，插画，
图标，emoji，符号，
彩色背景，渐变背景，纹理背景，
复杂排版，海报风，设计感过强，
手写字体，书法字体，
模糊，低清晰度，变形，
水印，logo`

// posPattern matches part-of-speech definition lines like "n. 含义".
var posPattern = regexp.MustCompile(`^(n\.|v\.|adj\.|adv\.|prep\.|conj\.)\s*.+`)

// Generator produces cover images.
type Generator struct {
	cfg    types.ImageConfig
	client *http.Client
}

// New builds a Generator from config.
func New(cfg types.ImageConfig) *Generator {
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateWordImage creates the cover for a word and returns the image file
// path. imagePrompt is the model's explicit cover suggestion; meaning is the
// fallback subtitle; content, when given, supplies a better subtitle and an
// example sentence for the card.
func (g *Generator) GenerateWordImage(ctx context.Context, word, imagePrompt, meaning, content string) (string, error) {
	outDir := g.cfg.OutputDir
	if outDir == "" {
		outDir = defaultOutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}

	subtitle := meaning
	if subtitle == "" {
		subtitle = defaultSubtitle
	}
	if content != "" {
		if sub, _ := ExtractSubtitleAndExample(content); sub != "" {
			subtitle = sub
		}
	}
	// The card itself carries only the word; imagePrompt is recorded for
	// analytics by the caller, not painted.
	_ = imagePrompt

	if g.cfg.UseTxt2Img {
		if path, err := g.sdWordCard(ctx, outDir, word); err == nil {
			return path, nil
		}
		// txt2img failure falls through to the template.
	}

	return g.templateCard(outDir, word, subtitle)
}

// sdRequest is the WebUI txt2img request body.
type sdRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Steps          int    `json:"steps"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type sdResponse struct {
	Images []string `json:"images"`
}

// sdWordCard calls the local Stable Diffusion txt2img API and writes the
// first returned image.
func (g *Generator) sdWordCard(ctx context.Context, outDir, word string) (string, error) {
	base := g.cfg.SDAPIURL
	if base == "" {
		base = defaultSDAPIURL
	}

	body, err := json.Marshal(sdRequest{
		Prompt:         buildSDPrompt(word),
		NegativePrompt: sdNegativePrompt,
		Steps:          defaultInt(g.cfg.Steps, 25),
		Width:          defaultInt(g.cfg.Width, 1024),
		Height:         defaultInt(g.cfg.Height, 1024),
	})
	if err != nil {
		return "", fmt.Errorf("marshaling txt2img request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(base, "/")+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating txt2img request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, g.client, req, 2)
	if err != nil {
		return "", fmt.Errorf("calling txt2img API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("txt2img API returned %d: %s", resp.StatusCode, string(msg))
	}

	var sdResp sdResponse
	if err := json.NewDecoder(resp.Body).Decode(&sdResp); err != nil {
		return "", fmt.Errorf("decoding txt2img response: %w", err)
	}
	if len(sdResp.Images) == 0 {
		return "", fmt.Errorf("txt2img API returned no images")
	}

	img, err := base64.StdEncoding.DecodeString(sdResp.Images[0])
	if err != nil {
		return "", fmt.Errorf("decoding image data: %w", err)
	}

	path := filepath.Join(outDir, safeWord(word)+"_sd.png")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return path, nil
}

// buildSDPrompt assembles the style block plus the lowercase word. The card
// carries the word only; no definitions or examples.
func buildSDPrompt(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		w = "word"
	}
	return strings.Join([]string{sdStylePrompt, "", "【文字内容】", w}, "\n")
}

// ExtractSubtitleAndExample pulls a "part of speech + gloss" line for the
// subtitle and the first English example sentence out of post content. The
// subtitle line must match a part-of-speech prefix and contain CJK; the
// example is the first long, capitalized, mostly ASCII line ending in a
// period.
func ExtractSubtitleAndExample(content string) (subtitle, example string) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	for _, line := range lines {
		if posPattern.MatchString(line) && containsCJK(line) {
			subtitle = line
			break
		}
	}

	for _, line := range lines {
		if len(line) < 15 || !strings.HasSuffix(line, ".") {
			continue
		}
		ascii := 0
		for _, c := range line {
			if c < 128 {
				ascii++
			}
		}
		if float64(ascii)/float64(len(line)) >= 0.7 && unicode.IsUpper(rune(line[0])) {
			example = line
			break
		}
	}

	return subtitle, example
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func safeWord(word string) string {
	w := strings.TrimSpace(strings.ReplaceAll(word, " ", "_"))
	if w == "" {
		return "word"
	}
	return w
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
