// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full post workflow: pick a word, generate text,
// parse it into a structured post, render the final copy, draw a cover
// image, publish, and record the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/post-engine/internal/imagegen"
	"github.com/pdiddy/post-engine/internal/llm"
	"github.com/pdiddy/post-engine/internal/parse"
	"github.com/pdiddy/post-engine/internal/prompt"
	"github.com/pdiddy/post-engine/internal/publish"
	"github.com/pdiddy/post-engine/internal/render"
	"github.com/pdiddy/post-engine/internal/store"
	"github.com/pdiddy/post-engine/internal/words"
	"github.com/pdiddy/post-engine/pkg/types"
)

// freeformVersion labels posts produced by the legacy freeform prompt in
// the store, so analytics can compare the two prompt families.
const freeformVersion = "freeform_v1"

// Options selects what a single run produces.
type Options struct {
	// Word is the word to post about. Empty means pick an unused word from
	// the level's pool.
	Word string

	// Level is the word-list difficulty (default CET-4).
	Level string

	// Theme is a free-text angle for freeform generation.
	Theme string

	// Freeform switches to the legacy single-blob prompt instead of the
	// six-section structured one.
	Freeform bool

	// SkipImage skips cover image generation.
	SkipImage bool
}

// Result is the outcome of one pipeline run.
type Result struct {
	Word      string
	Skipped   bool
	Post      *types.WordPost
	Content   string
	ImagePath string
	Publish   *types.PublishResult
	PostID    int64
}

// Pipeline wires the stages together. The Backend, Images, Publisher, and
// Store fields are set by New from config and may be replaced in tests.
type Pipeline struct {
	cfg       types.PipelineConfig
	Backend   llm.Backend
	Images    *imagegen.Generator
	Publisher *publish.Publisher
	Store     *store.Store
}

// New builds a Pipeline from config. The store is opened only when
// recording is enabled; nil Store means no dedup and no recording.
func New(cfg types.PipelineConfig) (*Pipeline, error) {
	p := &Pipeline{
		cfg:       cfg,
		Backend:   llm.New(cfg.Generator),
		Images:    imagegen.New(cfg.Image),
		Publisher: publish.New(cfg.Publish),
	}
	if cfg.Store.Enabled {
		s, err := store.New(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		p.Store = s
	}
	return p, nil
}

// Close releases the store if one was opened.
func (p *Pipeline) Close() error {
	if p.Store == nil {
		return nil
	}
	return p.Store.Close()
}

// Run executes one complete post workflow, writing progress lines to w.
func (p *Pipeline) Run(ctx context.Context, opts Options, w io.Writer) (*Result, error) {
	level := opts.Level
	if level == "" {
		level = "CET-4"
	}
	promptVersion := prompt.Version
	if opts.Freeform {
		promptVersion = freeformVersion
	}

	word := opts.Word
	if word == "" {
		picked, err := words.PickUnusedWord(p.cfg.Generator, level, promptVersion, p.hasPosted(ctx))
		if err != nil {
			return nil, err
		}
		word = picked
		fmt.Fprintf(w, "picked: %s (%s)\n", word, level)
	} else if p.Store != nil {
		posted, err := p.Store.HasPosted(ctx, word, level, promptVersion)
		if err != nil {
			return nil, fmt.Errorf("checking post history: %w", err)
		}
		if posted {
			fmt.Fprintf(w, "skipped: %s (already posted at %s/%s)\n", word, level, promptVersion)
			return &Result{Word: word, Skipped: true}, nil
		}
	}

	fmt.Fprintf(w, "generating: %s (backend %s)\n", word, p.Backend.Name())
	text, err := p.generate(ctx, word, level, opts)
	if err != nil {
		return nil, fmt.Errorf("generating text: %w", err)
	}

	result := &Result{Word: word}
	var pub publish.Post
	var imagePrompt, meaning string

	if opts.Freeform {
		fp := parse.ParseFreeform(text, word)
		result.Content = fp.Content
		pub = publish.Post{
			Word:    word,
			Title:   fp.Title,
			Content: fp.Content,
			Tags:    fp.Tags,
		}
		meaning, _ = imagegen.ExtractSubtitleAndExample(fp.Content)
	} else {
		post := parse.ParseWordPost(text, word)
		result.Post = post
		result.Content = render.Render(post)
		pub = publish.Post{
			Word:    word,
			Title:   post.Title,
			Content: result.Content,
			Tags:    post.Tags,
		}
		promptVersion = post.PromptVersion(promptVersion)
		imagePrompt = post.ImageSuggestion
		meaning = firstLine(post.Definitions)
	}
	fmt.Fprintf(w, "parsed: %s (%d chars, prompt %s)\n", word, len(result.Content), promptVersion)

	if !opts.SkipImage {
		imagePath, err := p.Images.GenerateWordImage(ctx, word, imagePrompt, meaning, result.Content)
		if err != nil {
			fmt.Fprintf(w, "  warning: image generation failed: %v\n", err)
		} else {
			result.ImagePath = imagePath
			pub.Images = []string{imagePath}
			fmt.Fprintf(w, "image: %s\n", imagePath)
		}
	}

	pubResult, err := p.Publisher.Publish(ctx, pub)
	if err != nil {
		return nil, fmt.Errorf("publishing: %w", err)
	}
	result.Publish = pubResult
	fmt.Fprintf(w, "%s: %s\n", pubResult.Method, pubResult.Message)

	if p.Store != nil && pubResult.Success {
		record := result.Post
		if record == nil {
			record = &types.WordPost{Word: word, Title: pub.Title, Tags: pub.Tags}
		}
		id, err := p.Store.RecordPost(ctx, record, level, promptVersion, pubResult.PostURL)
		if err != nil {
			fmt.Fprintf(w, "  warning: recording post failed: %v\n", err)
		} else {
			result.PostID = id
			fmt.Fprintf(w, "recorded: post %d\n", id)
		}
	}

	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, word, level string, opts Options) (string, error) {
	var promptText string
	var err error
	if opts.Freeform {
		promptText, err = prompt.BuildFreeform(word, opts.Theme)
	} else {
		promptText, err = prompt.BuildWordLearning(word, level)
	}
	if err != nil {
		return "", err
	}
	return p.Backend.GenerateText(ctx, promptText)
}

// hasPosted adapts the store lookup to the word picker. Lookup errors are
// treated as not-posted so a broken store cannot stall word selection.
func (p *Pipeline) hasPosted(ctx context.Context) words.HasPostedFunc {
	return func(word, level, promptVersion string) bool {
		if p.Store == nil {
			return false
		}
		posted, err := p.Store.HasPosted(ctx, word, level, promptVersion)
		if err != nil {
			return false
		}
		return posted
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
