// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pdiddy/post-engine/pkg/types"
)

const creatorPublishURL = "https://creator.xiaohongshu.com/publish/publish"

const browserNavTimeout = 30 * time.Second

// publishViaBrowser stages the post in the creator publish page: upload the
// images, fill in title and content, then stop. The publish button is
// located but never clicked; the operator reviews the draft and submits it
// by hand. An existing login session in the browser profile is assumed.
func (p *Publisher) publishViaBrowser(ctx context.Context, post Post) (*types.PublishResult, error) {
	url, err := launcher.New().Headless(p.cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(url).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	if err := page.Timeout(browserNavTimeout).Navigate(creatorPublishURL); err != nil {
		return nil, fmt.Errorf("navigating to publish page: %w", err)
	}
	if err := page.Timeout(browserNavTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for publish page: %w", err)
	}

	if len(post.Images) > 0 {
		upload, err := page.Timeout(browserNavTimeout).Element(`input[type="file"]`)
		if err != nil {
			return nil, fmt.Errorf("finding upload input: %w", err)
		}
		if err := upload.SetFiles(post.Images); err != nil {
			return nil, fmt.Errorf("attaching images: %w", err)
		}
	}

	title, err := page.Timeout(browserNavTimeout).Element(`input[placeholder*="标题"]`)
	if err != nil {
		return nil, fmt.Errorf("finding title input: %w", err)
	}
	if err := title.Input(post.Title); err != nil {
		return nil, fmt.Errorf("entering title: %w", err)
	}

	content, err := page.Timeout(browserNavTimeout).Element(`div[contenteditable="true"], textarea`)
	if err != nil {
		return nil, fmt.Errorf("finding content editor: %w", err)
	}
	if err := content.Input(FormatContent(post.Content, post.Tags)); err != nil {
		return nil, fmt.Errorf("entering content: %w", err)
	}

	// Confirm the submit control exists so a layout change surfaces here
	// rather than as a silently incomplete draft.
	if _, err := page.Timeout(browserNavTimeout).ElementR("button", "发布"); err != nil {
		return nil, fmt.Errorf("finding publish button: %w", err)
	}

	return &types.PublishResult{
		Success: true,
		Message: "draft staged in browser; review and publish manually",
		Method:  "browser",
	}, nil
}
