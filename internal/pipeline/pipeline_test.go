// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/post-engine/internal/imagegen"
	"github.com/pdiddy/post-engine/internal/publish"
	"github.com/pdiddy/post-engine/internal/store"
	"github.com/pdiddy/post-engine/pkg/types"
)

// scriptedBackend returns a fixed response and records the prompts it saw.
type scriptedBackend struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const structuredResponse = `【标题】📚 banana 一词速记
【单词卡】n. 香蕉
【配图建议】明亮的香蕉静物
【正文】记忆：想象一只猴子。

实用例句：
- I ate a banana.（我吃了一根香蕉。）
相关词汇扩展：
- fruit: 水果
【标签】#英语学习 #四级词汇
【meta】prompt=word_learning_v1`

func testPipeline(t *testing.T, backend *scriptedBackend, storeEnabled bool) *Pipeline {
	t.Helper()
	dir := t.TempDir()

	wordDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(wordDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wordDir, "CET4.txt"), []byte("banana\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.PipelineConfig{
		Generator: types.GeneratorConfig{WordListDir: wordDir},
		Image:     types.ImageConfig{OutputDir: filepath.Join(dir, "images")},
		Publish:   types.PublishConfig{Mode: types.PublishLocal, OutputDir: filepath.Join(dir, "output")},
		Store: types.StoreConfig{
			Enabled: storeEnabled,
			DBPath:  filepath.Join(dir, "posts.db"),
		},
	}

	p := &Pipeline{
		cfg:       cfg,
		Backend:   backend,
		Images:    imagegen.New(cfg.Image),
		Publisher: publish.New(cfg.Publish),
	}
	if storeEnabled {
		s, err := store.New(cfg.Store)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		p.Store = s
	}
	return p
}

func TestRunStructured(t *testing.T) {
	backend := &scriptedBackend{response: structuredResponse}
	p := testPipeline(t, backend, true)

	var progress bytes.Buffer
	result, err := p.Run(context.Background(), Options{Word: "banana", Level: "CET-4"}, &progress)
	if err != nil {
		t.Fatal(err)
	}

	if result.Skipped {
		t.Fatal("fresh word must not be skipped")
	}
	if result.Post == nil || result.Post.Title != "📚 banana 一词速记" {
		t.Fatalf("Post = %+v", result.Post)
	}
	if !strings.Contains(result.Content, "实用例句：") {
		t.Errorf("rendered content missing examples label:\n%s", result.Content)
	}
	if result.ImagePath == "" {
		t.Error("image must be generated")
	} else if _, err := os.Stat(result.ImagePath); err != nil {
		t.Errorf("image file missing: %v", err)
	}
	if result.Publish == nil || !result.Publish.Success || result.Publish.Method != "local" {
		t.Fatalf("Publish = %+v", result.Publish)
	}
	if result.PostID <= 0 {
		t.Errorf("PostID = %d, want recorded", result.PostID)
	}

	if len(backend.prompts) != 1 || !strings.Contains(backend.prompts[0], "【标题】") {
		t.Errorf("structured prompt not used: %v", backend.prompts)
	}

	// Prompt version from the parsed meta flows into the dedup key.
	posted, err := p.Store.HasPosted(context.Background(), "banana", "CET-4", "word_learning_v1")
	if err != nil {
		t.Fatal(err)
	}
	if !posted {
		t.Error("run must record under the meta prompt version")
	}
}

func TestRunSkipsAlreadyPosted(t *testing.T) {
	backend := &scriptedBackend{response: structuredResponse}
	p := testPipeline(t, backend, true)
	ctx := context.Background()

	if _, err := p.Run(ctx, Options{Word: "banana", Level: "CET-4"}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	var progress bytes.Buffer
	result, err := p.Run(ctx, Options{Word: "banana", Level: "CET-4"}, &progress)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Skipped {
		t.Fatal("second run of the same word must skip")
	}
	if len(backend.prompts) != 1 {
		t.Errorf("skipped run must not call the backend, calls = %d", len(backend.prompts))
	}
	if !strings.Contains(progress.String(), "skipped") {
		t.Errorf("progress = %q", progress.String())
	}
}

func TestRunPicksWordWhenNoneGiven(t *testing.T) {
	backend := &scriptedBackend{response: structuredResponse}
	p := testPipeline(t, backend, true)

	var progress bytes.Buffer
	result, err := p.Run(context.Background(), Options{}, &progress)
	if err != nil {
		t.Fatal(err)
	}
	// banana is the only pool entry.
	if result.Word != "banana" {
		t.Errorf("Word = %q", result.Word)
	}
	if !strings.Contains(progress.String(), "picked: banana") {
		t.Errorf("progress = %q", progress.String())
	}
}

func TestRunFreeform(t *testing.T) {
	backend := &scriptedBackend{response: "今天聊聊 banana\n\n香蕉这个词很好记。#英语学习#"}
	p := testPipeline(t, backend, true)

	result, err := p.Run(context.Background(), Options{
		Word:     "banana",
		Theme:    "职场英语",
		Freeform: true,
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if result.Post != nil {
		t.Error("freeform run has no structured record")
	}
	if result.Content != "香蕉这个词很好记。#英语学习#" {
		t.Errorf("Content = %q", result.Content)
	}
	if !strings.Contains(backend.prompts[0], "主题：职场英语") {
		t.Errorf("freeform prompt missing theme: %q", backend.prompts[0])
	}

	posted, err := p.Store.HasPosted(context.Background(), "banana", "CET-4", "freeform_v1")
	if err != nil {
		t.Fatal(err)
	}
	if !posted {
		t.Error("freeform run must record under freeform_v1")
	}
}

func TestRunSkipImage(t *testing.T) {
	backend := &scriptedBackend{response: structuredResponse}
	p := testPipeline(t, backend, false)

	result, err := p.Run(context.Background(), Options{Word: "banana", SkipImage: true}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if result.ImagePath != "" {
		t.Errorf("ImagePath = %q, want empty", result.ImagePath)
	}
	if result.PostID != 0 {
		t.Errorf("disabled store must not record, PostID = %d", result.PostID)
	}
}

func TestRunGenerationError(t *testing.T) {
	backend := &scriptedBackend{err: fmt.Errorf("connection refused")}
	p := testPipeline(t, backend, false)

	_, err := p.Run(context.Background(), Options{Word: "banana"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v", err)
	}
}

func TestRunAllWordsUsed(t *testing.T) {
	backend := &scriptedBackend{response: structuredResponse}
	p := testPipeline(t, backend, true)
	ctx := context.Background()

	if _, err := p.Run(ctx, Options{}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	_, err := p.Run(ctx, Options{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "already posted") {
		t.Errorf("err = %v, want all-words-used", err)
	}
}
