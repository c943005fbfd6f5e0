// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/post-engine/internal/pipeline"
	"github.com/pdiddy/post-engine/internal/secrets"
	"github.com/pdiddy/post-engine/internal/words"
	"github.com/pdiddy/post-engine/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "post-engine/0.1"
)

var postCmd = &cobra.Command{
	Use:   "post [word]",
	Short: "Generate and publish one word-learning post",
	Long: `Post runs the full pipeline once: pick a word (or use the one given),
generate copy with the configured LLM backend, parse and render it, draw a
cover image, publish, and record the result.

Without a word argument an unused word is picked at random from the level's
pool; words already posted at the same level and prompt version are skipped.
With --theme the legacy freeform prompt is used instead of the structured
six-section one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().String("level", "CET-4", "word-list difficulty: "+strings.Join(words.Levels(), ", "))
	postCmd.Flags().String("theme", "", "free-text angle; switches to freeform generation")
	postCmd.Flags().Bool("freeform", false, "use the legacy freeform prompt")
	postCmd.Flags().Bool("skip-image", false, "skip cover image generation")
	postCmd.Flags().String("mode", "", "publish mode: local, api, or browser (default local)")

	addPipelineFlags(postCmd)
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	word := ""
	if len(args) > 0 {
		word = args[0]
	}
	level, _ := cmd.Flags().GetString("level")
	theme, _ := cmd.Flags().GetString("theme")
	freeform, _ := cmd.Flags().GetBool("freeform")
	skipImage, _ := cmd.Flags().GetBool("skip-image")

	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	defer pipe.Close()

	result, err := pipe.Run(context.Background(), pipeline.Options{
		Word:      word,
		Level:     level,
		Theme:     theme,
		Freeform:  freeform || theme != "",
		SkipImage: skipImage,
	}, os.Stdout)
	if err != nil {
		return err
	}
	if result.Skipped {
		return nil
	}
	if result.Publish != nil && !result.Publish.Success {
		return fmt.Errorf("publish failed: %s", result.Publish.Message)
	}
	return nil
}

// addPipelineFlags registers the flags shared by post and serve.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 120s)")
	cmd.Flags().String("word-list-dir", "data", "directory with level word-list files")
	cmd.Flags().String("ollama-url", "", "Ollama chat completions endpoint")
	cmd.Flags().String("ollama-model", "", "Ollama model identifier")
	cmd.Flags().String("anthropic-model", "", "Anthropic model identifier")
	cmd.Flags().String("anthropic-api-key", "", "Anthropic API key (or .secrets/anthropic-api-key)")
	cmd.Flags().Float64("temperature", 0, "sampling temperature (default 0.7)")

	cmd.Flags().String("sd-url", "", "Stable Diffusion WebUI base URL")
	cmd.Flags().Bool("txt2img", false, "attempt txt2img before the template card fallback")
	cmd.Flags().String("image-dir", "generated_images", "directory for generated images")

	cmd.Flags().String("access-token", "", "open-platform access token (or .secrets/xiaohongshu-access-token)")
	cmd.Flags().Bool("headless", true, "run browser mode headless")
	cmd.Flags().String("output-dir", "output", "directory for local-mode post files")

	cmd.Flags().Bool("no-store", false, "disable post recording and dedup")
	cmd.Flags().String("db-path", "", "SQLite database path (default posts_data.db)")
}

// pipelineConfig assembles the stage configs from flags, config file values,
// and loaded secrets. Explicit flags win, then the config file, then secrets.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}

	wordListDir, _ := cmd.Flags().GetString("word-list-dir")
	ollamaURL, _ := cmd.Flags().GetString("ollama-url")
	ollamaModel, _ := cmd.Flags().GetString("ollama-model")
	anthropicModel, _ := cmd.Flags().GetString("anthropic-model")
	anthropicKey, _ := cmd.Flags().GetString("anthropic-api-key")
	temperature, _ := cmd.Flags().GetFloat64("temperature")

	sdURL, _ := cmd.Flags().GetString("sd-url")
	txt2img, _ := cmd.Flags().GetBool("txt2img")
	imageDir, _ := cmd.Flags().GetString("image-dir")

	mode, _ := cmd.Flags().GetString("mode")
	accessToken, _ := cmd.Flags().GetString("access-token")
	headless, _ := cmd.Flags().GetBool("headless")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	noStore, _ := cmd.Flags().GetBool("no-store")
	dbPath, _ := cmd.Flags().GetString("db-path")

	cfg := types.PipelineConfig{
		Generator: types.GeneratorConfig{
			HTTPConfig:      httpCfg,
			OllamaChatURL:   stringOr(ollamaURL, viper.GetString("generator.ollama_chat_url")),
			OllamaModel:     stringOr(ollamaModel, viper.GetString("generator.ollama_model")),
			Temperature:     temperature,
			AnthropicModel:  stringOr(anthropicModel, viper.GetString("generator.anthropic_model")),
			AnthropicAPIKey: secretDefault(secrets.KeyAnthropicAPIKey, stringOr(anthropicKey, viper.GetString("generator.anthropic_api_key"))),
			WordListDir:     wordListDir,
		},
		Image: types.ImageConfig{
			HTTPConfig: httpCfg,
			SDAPIURL:   stringOr(sdURL, viper.GetString("image.sd_api_url")),
			UseTxt2Img: txt2img || viper.GetBool("image.use_txt2img"),
			Steps:      viper.GetInt("image.steps"),
			Width:      viper.GetInt("image.width"),
			Height:     viper.GetInt("image.height"),
			OutputDir:  imageDir,
		},
		Publish: types.PublishConfig{
			HTTPConfig:  httpCfg,
			Mode:        types.PublishMode(stringOr(mode, viper.GetString("publish.mode"))),
			AppID:       secretDefault(secrets.KeyAppID, viper.GetString("publish.app_id")),
			AppSecret:   secretDefault(secrets.KeyAppSecret, viper.GetString("publish.app_secret")),
			AccessToken: secretDefault(secrets.KeyAccessToken, accessToken),
			Headless:    headless,
			OutputDir:   outputDir,
		},
		Store: types.StoreConfig{
			Enabled:    !noStore,
			DBPath:     stringOr(dbPath, viper.GetString("store.db_path")),
			MaxResults: viper.GetInt("store.max_results"),
		},
	}
	return cfg, nil
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
