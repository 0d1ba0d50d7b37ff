// Package config provides configuration loading and validation for the CLI and server.
// Values come from defaults, then an optional JSON file, then environment variables,
// then CLI flags. The result is passed explicitly to every component.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvProvider      = "RESUME_PARSER_PROVIDER"
	EnvModel         = "RESUME_PARSER_MODEL"
	EnvBaseURL       = "RESUME_PARSER_BASE_URL"
	EnvFormat        = "RESUME_PARSER_FORMAT"
	EnvTimeout       = "RESUME_PARSER_TIMEOUT"
	EnvMaxRetries    = "RESUME_PARSER_MAX_RETRIES"
	EnvHost          = "RESUME_PARSER_HOST"
	EnvPort          = "RESUME_PARSER_PORT"
	EnvUploadDir     = "RESUME_PARSER_UPLOAD_DIR"
	EnvRateWhitelist = "RESUME_PARSER_RATE_WHITELIST"
	EnvLogLevel      = "RESUME_PARSER_LOG_LEVEL"
	EnvLogFormat     = "RESUME_PARSER_LOG_FORMAT"
	EnvLogFile       = "RESUME_PARSER_LOG_FILE"
)

// Defaults.
const (
	DefaultHost               = "127.0.0.1"
	DefaultPort               = 5000
	DefaultUploadDir          = "./uploads"
	DefaultMaxUploadBytes     = 16 * 1000 * 1000
	DefaultBasicInfoMaxTokens = 500
	DefaultWorkMaxTokens      = 1500
	DefaultJSONMaxTokens      = 2000
	DefaultRateLimit          = 30
	DefaultRateBurst          = 5
)

// Duration is a time.Duration that reads JSON strings such as "30s" or numbers of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val * float64(time.Second))
		return nil
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config is the explicit configuration object for the parser.
type Config struct {
	// Completion provider
	Provider     string   `json:"provider,omitempty" validate:"oneof=openai gemini"`
	Model        string   `json:"model,omitempty"`
	BaseURL      string   `json:"base_url,omitempty" validate:"omitempty,url"`
	OpenAIAPIKey string   `json:"openai_api_key,omitempty"`
	GeminiAPIKey string   `json:"gemini_api_key,omitempty"`
	Timeout      Duration `json:"timeout,omitempty"`
	MaxRetries   int      `json:"max_retries" validate:"gte=0,lte=10"`

	// Parsing
	Format             string `json:"format,omitempty" validate:"oneof=delimited json"`
	ExactTokens        bool   `json:"exact_tokens,omitempty"`
	ContextWindow      int    `json:"context_window,omitempty" validate:"gte=0"`
	BasicInfoMaxTokens int    `json:"basic_info_max_tokens,omitempty" validate:"gte=1"`
	WorkMaxTokens      int    `json:"work_max_tokens,omitempty" validate:"gte=1"`
	JSONMaxTokens      int    `json:"json_max_tokens,omitempty" validate:"gte=1"`
	Verify             bool   `json:"verify,omitempty"`

	// Serving wrapper
	Host           string `json:"host,omitempty" validate:"required"`
	Port           int    `json:"port,omitempty" validate:"min=1,max=65535"`
	UploadDir      string `json:"upload_dir,omitempty" validate:"required"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" validate:"gt=0"`
	// RateLimit is parse requests per minute per client; 0 disables limiting.
	RateLimit int `json:"rate_limit" validate:"gte=0"`
	RateBurst int `json:"rate_burst,omitempty" validate:"gte=0"`
	// RateWhitelist is a comma-separated list of client IPs that are never limited.
	RateWhitelist string `json:"rate_whitelist,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=color text json"`
	LogFile   string `json:"log_file,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Provider:           string(llm.ProviderOpenAI),
		Timeout:            Duration{llm.DefaultTimeout},
		MaxRetries:         llm.DefaultMaxRetries,
		Format:             types.FormatDelimited.String(),
		BasicInfoMaxTokens: DefaultBasicInfoMaxTokens,
		WorkMaxTokens:      DefaultWorkMaxTokens,
		JSONMaxTokens:      DefaultJSONMaxTokens,
		Host:               DefaultHost,
		Port:               DefaultPort,
		UploadDir:          DefaultUploadDir,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		RateLimit:          DefaultRateLimit,
		RateBurst:          DefaultRateBurst,
		LogLevel:           "info",
	}
}

// LoadConfig loads a JSON config file over the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return cfg, nil
}

// Load returns defaults, overlaid by the config file at path (if any) and then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields with the non-empty environment variables returned by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString(EnvOpenAIAPIKey, &c.OpenAIAPIKey)
	setString(EnvGeminiAPIKey, &c.GeminiAPIKey)
	setString(EnvProvider, &c.Provider)
	setString(EnvModel, &c.Model)
	setString(EnvBaseURL, &c.BaseURL)
	setString(EnvFormat, &c.Format)
	setString(EnvHost, &c.Host)
	setString(EnvUploadDir, &c.UploadDir)
	setString(EnvRateWhitelist, &c.RateWhitelist)
	setString(EnvLogLevel, &c.LogLevel)
	setString(EnvLogFormat, &c.LogFormat)
	setString(EnvLogFile, &c.LogFile)

	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: "port", Message: fmt.Sprintf("%s must be numeric, got %q", EnvPort, v)}
		}
		c.Port = port
	}
	if v := strings.TrimSpace(getenv(EnvMaxRetries)); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: "max_retries", Message: fmt.Sprintf("%s must be numeric, got %q", EnvMaxRetries, v)}
		}
		c.MaxRetries = retries
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return &Error{Field: "timeout", Message: fmt.Sprintf("%s must be a duration such as 30s, got %q", EnvTimeout, v)}
		}
		c.Timeout = Duration{timeout}
	}
	return nil
}

// Error is a configuration problem tied to one field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// Validate checks field ranges and enums. It does not require API keys;
// commands that call the model check APIKey themselves.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		if c.Timeout.Duration < 0 {
			return &Error{Field: "timeout", Message: "must be non-negative"}
		}
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	first := validationErrs[0]
	message := fmt.Sprintf("failed %q validation", first.Tag())
	if first.Param() != "" {
		message = fmt.Sprintf("failed %q validation (%s)", first.Tag(), first.Param())
	}
	return &Error{Field: jsonName(first.StructField()), Message: message}
}

// APIKey returns the key of the configured provider.
func (c *Config) APIKey() string {
	if llm.Provider(c.Provider) == llm.ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// ResponseFormat returns the parsed response format.
func (c *Config) ResponseFormat() (types.ResponseFormat, error) {
	return types.ParseResponseFormat(c.Format)
}

// LLMConfig returns the completion client configuration.
func (c *Config) LLMConfig(logger *slog.Logger) *llm.Config {
	provider := llm.Provider(c.Provider)
	cfg := llm.DefaultConfig()
	if provider == llm.ProviderGemini {
		cfg = llm.DefaultGeminiConfig()
	}
	if c.Model != "" {
		cfg = cfg.WithModel(c.Model)
	}
	cfg.BaseURL = c.BaseURL
	if c.Timeout.Duration > 0 {
		cfg.Timeout = c.Timeout.Duration
	}
	cfg.MaxRetries = c.MaxRetries
	cfg.Logger = logger
	return cfg
}

// RateLimitConfig returns the limits for the serving wrapper's model-backed endpoints.
func (c *Config) RateLimitConfig() *ratelimit.Config {
	rl := ratelimit.NewConfig(c.RateLimit, c.RateBurst)
	rl.Whitelist = ratelimit.ParseIPList(c.RateWhitelist)
	return rl
}

// Addr returns host:port for the serving wrapper.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var jsonNames = map[string]string{
	"Provider":           "provider",
	"BaseURL":            "base_url",
	"MaxRetries":         "max_retries",
	"Format":             "format",
	"ContextWindow":      "context_window",
	"BasicInfoMaxTokens": "basic_info_max_tokens",
	"WorkMaxTokens":      "work_max_tokens",
	"JSONMaxTokens":      "json_max_tokens",
	"Host":               "host",
	"Port":               "port",
	"UploadDir":          "upload_dir",
	"MaxUploadBytes":     "max_upload_bytes",
	"RateLimit":          "rate_limit",
	"RateBurst":          "rate_burst",
	"LogLevel":           "log_level",
	"LogFormat":          "log_format",
}

func jsonName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return field
}
