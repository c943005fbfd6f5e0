// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trigger runs the pipeline on a schedule and on webhook demand.
package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/pipeline"
	"github.com/pdiddy/post-engine/pkg/types"
)

const (
	defaultInterval = 24 * time.Hour
	defaultPort     = 8080
)

// Daemon owns the interval scheduler and the webhook server.
type Daemon struct {
	cfg    types.TriggerConfig
	pipe   *pipeline.Pipeline
	logger *zap.Logger
}

// New builds a Daemon around an already-constructed pipeline.
func New(cfg types.TriggerConfig, pipe *pipeline.Pipeline, logger *zap.Logger) *Daemon {
	return &Daemon{cfg: cfg, pipe: pipe, logger: logger}
}

// Serve runs the webhook server and, when enabled, the interval scheduler,
// until ctx is cancelled.
func (d *Daemon) Serve(ctx context.Context) error {
	port := d.cfg.Port
	if port == 0 {
		port = defaultPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /trigger", d.handleTrigger)
	mux.HandleFunc("GET /health", d.handleHealth)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("webhook server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if d.cfg.Enabled {
		go d.scheduleLoop(ctx)
	} else {
		d.logger.Info("interval scheduler disabled")
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (d *Daemon) scheduleLoop(ctx context.Context) {
	interval := d.cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	d.logger.Info("interval scheduler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runOnce(ctx, pipeline.Options{})
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	d.logger.Info("pipeline run starting",
		zap.String("word", opts.Word),
		zap.String("level", opts.Level),
		zap.Bool("freeform", opts.Freeform))

	result, err := d.pipe.Run(ctx, opts, zapWriter{d.logger})
	if err != nil {
		d.logger.Error("pipeline run failed", zap.Error(err))
		return nil, err
	}
	d.logger.Info("pipeline run finished",
		zap.String("word", result.Word),
		zap.Bool("skipped", result.Skipped),
		zap.Int64("post_id", result.PostID))
	return result, nil
}

// triggerRequest is the webhook body. All fields optional.
type triggerRequest struct {
	Word  string `json:"word"`
	Level string `json:"level"`
	Theme string `json:"theme"`
}

type triggerResponse struct {
	Word    string `json:"word"`
	Skipped bool   `json:"skipped"`
	PostID  int64  `json:"post_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (d *Daemon) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("bad request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	opts := pipeline.Options{
		Word:     req.Word,
		Level:    req.Level,
		Theme:    req.Theme,
		Freeform: req.Theme != "",
	}
	result, err := d.runOnce(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := triggerResponse{
		Word:    result.Word,
		Skipped: result.Skipped,
		PostID:  result.PostID,
	}
	if result.Publish != nil {
		resp.Message = result.Publish.Message
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// zapWriter adapts pipeline progress lines into structured log entries.
type zapWriter struct {
	logger *zap.Logger
}

func (zw zapWriter) Write(p []byte) (int, error) {
	if line := strings.TrimSpace(string(p)); line != "" {
		zw.logger.Info(line)
	}
	return len(p), nil
}
