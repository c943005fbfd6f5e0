// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish delivers a rendered post: saved locally, pushed through
// the open-platform API, or staged in the creator page via browser
// automation. The transport is picked once from config.
package publish

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Post is the publishable payload. All fields are opaque strings as far as
// this package is concerned.
type Post struct {
	Word    string
	Title   string
	Content string
	Tags    []string
	Images  []string
}

// Publisher delivers posts using one configured transport.
type Publisher struct {
	cfg    types.PublishConfig
	client *http.Client
}

// New builds a Publisher from config.
func New(cfg types.PublishConfig) *Publisher {
	return &Publisher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Mode returns the effective publish mode.
func (p *Publisher) Mode() types.PublishMode {
	if p.cfg.Mode == "" {
		return types.PublishLocal
	}
	return p.cfg.Mode
}

// Publish delivers the post using the configured transport. The result's
// Success flag plus message is the whole contract; callers make no further
// assumptions about transport semantics.
func (p *Publisher) Publish(ctx context.Context, post Post) (*types.PublishResult, error) {
	switch p.Mode() {
	case types.PublishLocal:
		return p.saveLocal(post)
	case types.PublishAPI:
		return p.publishViaAPI(ctx, post)
	case types.PublishBrowser:
		return p.publishViaBrowser(ctx, post)
	default:
		return nil, fmt.Errorf("unsupported publish mode %q", p.cfg.Mode)
	}
}

// FormatContent converts post content into the platform's house style:
// every line becomes its own paragraph, and the tag line is appended as
// #tag# pairs.
func FormatContent(content string, tags []string) string {
	formatted := strings.ReplaceAll(content, "\n\n", "\n")
	formatted = strings.ReplaceAll(formatted, "\n", "\n\n")

	if len(tags) > 0 {
		formatted += "\n\n" + tagLine(tags)
	}
	return formatted
}

func tagLine(tags []string) string {
	pairs := make([]string, len(tags))
	for i, t := range tags {
		pairs[i] = "#" + t + "#"
	}
	return strings.Join(pairs, " ")
}
