package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvAPIKey is the environment variable holding the Groq API credential.
// It is the only source for the credential; config files never carry it.
const EnvAPIKey = "GROQ_API_KEY"

// Environment overrides for non-secret settings.
const (
	EnvModel     = "GROQ_MODEL"
	EnvBaseURL   = "GROQ_BASE_URL"
	EnvOutputDir = "DAILYFORGE_OUTPUT_DIR"
)

// Config holds application configuration.
type Config struct {
	// APIKey is the Groq API credential, populated from GROQ_API_KEY.
	// Never serialized and never read from config files.
	APIKey string `json:"-"`

	// Model is the chat-completions model identifier sent to the endpoint.
	Model string `json:"model,omitempty"`

	// BaseURL is the OpenAI-compatible endpoint base URL.
	BaseURL string `json:"base_url,omitempty"`

	// MaxTokens caps the completion length requested from the endpoint.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is the sampling temperature for generation.
	Temperature float64 `json:"temperature,omitempty"`

	// TimeoutSecs bounds the single outbound generation call.
	TimeoutSecs int `json:"timeout_secs,omitempty"`

	// OutputDir is the root directory that dated artifact directories
	// are created under. Relative paths resolve against the working directory.
	OutputDir string `json:"output_dir,omitempty"`

	// CompletionMaxChars is the maximum character count accepted for a
	// completion before it is rejected as oversized.
	CompletionMaxChars int `json:"completion_max_chars,omitempty"`

	// Topics is the pool the daily prompt picks a random subject from.
	Topics []string `json:"topics,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// defaultTopics seeds the prompt when no topics are configured.
var defaultTopics = []string{
	"a command-line utility",
	"a text-processing tool",
	"a small data analysis task",
	"a simple game",
	"a web scraping exercise",
	"a file organization helper",
	"an algorithm visualization",
	"a basic automation script",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:              "llama-3-70b-8192",
		BaseURL:            "https://api.groq.com/openai/v1",
		MaxTokens:          1500,
		Temperature:        0.9,
		TimeoutSecs:        120,
		OutputDir:          "projects",
		CompletionMaxChars: 64000,
		Topics:             append([]string(nil), defaultTopics...),
	}
}

// Load loads configuration from baseDir/config.json, applies environment
// overrides, and reads the API credential from the environment.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.dailyforge.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// Timeout returns the generation call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	cfg.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.OutputDir = v
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; string slices replace the base
// when present so users can narrow the topic pool, except DisabledTools which
// is merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.BaseURL = overlay.BaseURL
	if result.BaseURL == "" {
		result.BaseURL = base.BaseURL
	}

	result.MaxTokens = overlay.MaxTokens
	if result.MaxTokens == 0 {
		result.MaxTokens = base.MaxTokens
	}

	result.Temperature = overlay.Temperature
	if result.Temperature == 0 {
		result.Temperature = base.Temperature
	}

	result.TimeoutSecs = overlay.TimeoutSecs
	if result.TimeoutSecs == 0 {
		result.TimeoutSecs = base.TimeoutSecs
	}

	result.OutputDir = overlay.OutputDir
	if result.OutputDir == "" {
		result.OutputDir = base.OutputDir
	}

	result.CompletionMaxChars = overlay.CompletionMaxChars
	if result.CompletionMaxChars == 0 {
		result.CompletionMaxChars = base.CompletionMaxChars
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.Topics = overlay.Topics
	if len(result.Topics) == 0 {
		result.Topics = base.Topics
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
