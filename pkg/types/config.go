package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "post-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GeneratorConfig holds settings for text generation: the LLM backends and
// the word pools. The Anthropic backend is optional; when APIKey is empty
// the local Ollama backend is used.
type GeneratorConfig struct {
	HTTPConfig `yaml:",inline"`

	// OllamaChatURL is the OpenAI-compatible chat completions endpoint of the
	// local Ollama instance (default http://localhost:11434/v1/chat/completions).
	OllamaChatURL string `json:"ollama_chat_url" yaml:"ollama_chat_url"`

	// OllamaModel is the local model identifier (default "qwen2.5:3b").
	OllamaModel string `json:"ollama_model" yaml:"ollama_model"`

	// Temperature is the sampling temperature for generation (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// AnthropicModel is the remote model identifier used when an API key is set.
	AnthropicModel string `json:"anthropic_model" yaml:"anthropic_model"`

	// AnthropicAPIKey enables the remote backend when non-empty.
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`

	// WordListDir is the directory holding level word-list files (one word
	// per line), e.g. data/CET4.txt.
	WordListDir string `json:"word_list_dir" yaml:"word_list_dir"`
}

// ImageConfig holds settings for cover image generation.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// SDAPIURL is the base URL of the local Stable Diffusion WebUI API
	// (default http://127.0.0.1:7860).
	SDAPIURL string `json:"sd_api_url" yaml:"sd_api_url"`

	// UseTxt2Img controls whether text-to-image is attempted before the
	// local template fallback.
	UseTxt2Img bool `json:"use_txt2img" yaml:"use_txt2img"`

	// Steps, Width, and Height are the txt2img sampling parameters
	// (defaults 25, 1024, 1024).
	Steps  int `json:"steps" yaml:"steps"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// OutputDir is the directory for generated images (default "generated_images").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PublishMode selects the publishing transport.
type PublishMode string

const (
	// PublishLocal saves the post to local files without publishing.
	PublishLocal PublishMode = "local"
	// PublishAPI publishes through the open-platform HTTP API.
	PublishAPI PublishMode = "api"
	// PublishBrowser stages the post through browser automation.
	PublishBrowser PublishMode = "browser"
)

// PublishConfig holds settings for the publishing stage.
type PublishConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mode selects the transport: local, api, or browser (default local).
	Mode PublishMode `json:"mode" yaml:"mode"`

	// AppID, AppSecret, and AccessToken authenticate API-mode publishing.
	AppID       string `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	AppSecret   string `json:"app_secret,omitempty" yaml:"app_secret,omitempty"`
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`

	// Headless controls browser-mode headless launch.
	Headless bool `json:"headless" yaml:"headless"`

	// OutputDir is the directory for local-mode post files (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// StoreConfig holds settings for the post/interaction store.
type StoreConfig struct {
	// Enabled turns recording on. When off the pipeline skips dedup checks
	// and records nothing.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DBPath is the SQLite database file path (default "posts_data.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default cap for listing queries (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// TriggerConfig holds settings for scheduled and webhook-triggered runs.
type TriggerConfig struct {
	// Enabled turns the interval scheduler on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Interval is the delay between scheduled runs (default 24h).
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Port is the webhook server listen port (default 8080).
	Port int `json:"port" yaml:"port"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Image     ImageConfig     `json:"image" yaml:"image"`
	Publish   PublishConfig   `json:"publish" yaml:"publish"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Trigger   TriggerConfig   `json:"trigger" yaml:"trigger"`
}
