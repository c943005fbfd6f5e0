// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/post-engine/internal/httputil"
	"github.com/pdiddy/post-engine/pkg/types"
)

// Open-platform endpoints. Package-level vars for test substitution.
var (
	noteAPIURL   = "https://open.xiaohongshu.com/api/sns/web/v1/note"
	uploadAPIURL = "https://open.xiaohongshu.com/api/sns/web/v1/upload/image"
)

// noteRequest is the note-creation request body.
type noteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ImageIDs []string `json:"image_ids"`
	Type     string   `json:"type"`
}

type noteResponse struct {
	PostURL string `json:"post_url"`
}

type uploadResponse struct {
	ImageID string `json:"image_id"`
}

// publishViaAPI uploads the images, then creates the note. Requires an
// access token; the tag line is folded into the content because the note
// API has no separate tags field.
func (p *Publisher) publishViaAPI(ctx context.Context, post Post) (*types.PublishResult, error) {
	var imageIDs []string
	for _, path := range post.Images {
		id, err := p.uploadImage(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("uploading image %s: %w", path, err)
		}
		imageIDs = append(imageIDs, id)
	}

	content := post.Content
	if len(post.Tags) > 0 {
		content += "\n\n" + tagLine(post.Tags)
	}

	body, err := json.Marshal(noteRequest{
		Title:    post.Title,
		Content:  content,
		ImageIDs: imageIDs,
		Type:     "normal",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling note request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, noteAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating note request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 3)
	if err != nil {
		return nil, fmt.Errorf("calling note API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return &types.PublishResult{
			Success: false,
			Message: fmt.Sprintf("note API returned %d: %s", resp.StatusCode, string(msg)),
			Method:  "api",
		}, nil
	}

	var nResp noteResponse
	if err := json.NewDecoder(resp.Body).Decode(&nResp); err != nil {
		return nil, fmt.Errorf("decoding note response: %w", err)
	}

	return &types.PublishResult{
		Success: true,
		Message: "published",
		Method:  "api",
		PostURL: nResp.PostURL,
	}, nil
}

// uploadImage posts one image file as multipart form data and returns the
// platform image ID.
func (p *Publisher) uploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copying image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadAPIURL, &buf)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling upload API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload API returned %d: %s", resp.StatusCode, string(msg))
	}

	var uResp uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uResp); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if uResp.ImageID == "" {
		return "", fmt.Errorf("upload API returned no image ID")
	}
	return uResp.ImageID, nil
}
