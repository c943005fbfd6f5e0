// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/post-engine/pkg/types"
)

const defaultOutputDir = "output"

// nowFunc is the timestamp source for local file names. Tests pin it.
var nowFunc = time.Now

// localSidecar is the JSON saved alongside the text file for later editing
// or batch publishing.
type localSidecar struct {
	Word      string   `json:"word"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	ImagePath string   `json:"image_path,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// saveLocal writes the post to {word}_{timestamp}.txt plus a JSON sidecar
// instead of publishing. A failed sidecar write is reported in the message
// but does not fail the save; the text file and image path still stand.
func (p *Publisher) saveLocal(post Post) (*types.PublishResult, error) {
	outDir := p.cfg.OutputDir
	if outDir == "" {
		outDir = defaultOutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	ts := nowFunc().Format("20060102_150405")
	base := safeName(post.Word) + "_" + ts
	textPath := filepath.Join(outDir, base+".txt")
	jsonPath := filepath.Join(outDir, base+".json")

	var b strings.Builder
	b.WriteString(post.Title)
	b.WriteString("\n\n")
	b.WriteString(post.Content)
	if len(post.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(tagLine(post.Tags))
	}
	if err := os.WriteFile(textPath, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing post text: %w", err)
	}

	message := "saved locally (not published)"

	imagePath := ""
	if len(post.Images) > 0 {
		imagePath = post.Images[0]
	}
	sidecar := localSidecar{
		Word:      post.Word,
		Title:     post.Title,
		Content:   post.Content,
		Tags:      post.Tags,
		ImagePath: imagePath,
		CreatedAt: ts,
	}
	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err == nil {
		err = os.WriteFile(jsonPath, data, 0o644)
	}
	if err != nil {
		message = fmt.Sprintf("saved locally; JSON sidecar failed: %v", err)
		jsonPath = ""
	}

	return &types.PublishResult{
		Success:  true,
		Message:  message,
		Method:   "local",
		TextPath: textPath,
		JSONPath: jsonPath,
	}, nil
}

func safeName(word string) string {
	w := strings.TrimSpace(strings.ReplaceAll(word, " ", "_"))
	if w == "" {
		return "post"
	}
	return w
}
