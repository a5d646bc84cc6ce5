package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/classifier"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/rewriter"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/transform"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/validation"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "assetpipe.yaml"

// AzureConfig enables mirroring processed assets to Blob Storage.
type AzureConfig struct {
	Account   string `yaml:"account"`
	Key       string `yaml:"key"`
	Container string `yaml:"container"`
	// Prefix is prepended to every blob name.
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether enough is configured to publish.
func (a AzureConfig) Enabled() bool {
	return a.Account != "" && a.Key != "" && a.Container != ""
}

type Config struct {
	// Pipeline
	RootDir          string                          `yaml:"root_dir"`
	DropZone         string                          `yaml:"drop_zone"`
	TemplateVariants []string                        `yaml:"template_variants"`
	ReportDir        string                          `yaml:"report_dir"`
	TransformSpecs   map[string]models.TransformSpec `yaml:"transform_specs"`
	ContentWeights   classifier.Weights              `yaml:"content_weights"`
	WatchDebounceMS  int                             `yaml:"watch_debounce_ms"`

	// HTTP server
	Host               string        `yaml:"host"`
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ImageFetchTimeout  time.Duration `yaml:"image_fetch_timeout"`
	AnalysisTimeout    time.Duration `yaml:"analysis_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
	FetchRateLimit     float64       `yaml:"fetch_rate_limit"`
	FetchBurst         int           `yaml:"fetch_burst"`

	Azure AzureConfig `yaml:"azure"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		RootDir:            ".",
		DropZone:           "assets-drop-zone",
		TemplateVariants:   append([]string(nil), rewriter.DefaultVariants...),
		ReportDir:          ".",
		TransformSpecs:     map[string]models.TransformSpec{},
		ContentWeights:     classifier.DefaultWeights(),
		WatchDebounceMS:    500,
		Host:               "0.0.0.0",
		Port:               "8080",
		RequestTimeout:     30 * time.Second,
		ImageFetchTimeout:  15 * time.Second,
		AnalysisTimeout:    20 * time.Second,
		MaxRequestBodySize: 10 * 1024 * 1024, // 10MB
		FetchRateLimit:     5,
		FetchBurst:         10,
	}
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// WatchDebounce is WatchDebounceMS as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// DropZonePath resolves a relative drop zone against RootDir.
func (c *Config) DropZonePath() string {
	return c.underRoot(c.DropZone)
}

// ReportPath resolves a relative report directory against RootDir.
func (c *Config) ReportPath() string {
	return c.underRoot(c.ReportDir)
}

func (c *Config) underRoot(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}

// Specs returns the built-in transform table with the configured
// overrides applied.
func (c *Config) Specs() transform.Specs {
	return transform.DefaultSpecs().Merge(c.TransformSpecs)
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.TransformSpecs == nil {
		cfg.TransformSpecs = map[string]models.TransformSpec{}
	}
	if len(cfg.TemplateVariants) == 0 {
		cfg.TemplateVariants = append([]string(nil), rewriter.DefaultVariants...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by ASSETPIPE_CONFIG, falling back to
// DefaultFile, plus environment overrides.
func LoadFromEnv() (*Config, error) {
	return Load(getEnvOrDefault("ASSETPIPE_CONFIG", DefaultFile))
}

func (c *Config) applyEnv() {
	c.RootDir = getEnvOrDefault("ASSET_ROOT", c.RootDir)
	c.DropZone = getEnvOrDefault("DROP_ZONE", c.DropZone)
	c.ReportDir = getEnvOrDefault("REPORT_DIR", c.ReportDir)
	if v := os.Getenv("TEMPLATE_VARIANTS"); v != "" {
		c.TemplateVariants = splitList(v)
	}
	c.WatchDebounceMS = int(parseIntOrDefault("WATCH_DEBOUNCE_MS", int64(c.WatchDebounceMS)))

	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.ImageFetchTimeout = parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", c.ImageFetchTimeout)
	c.AnalysisTimeout = parseDurationOrDefault("ANALYSIS_TIMEOUT", c.AnalysisTimeout)
	c.MaxRequestBodySize = parseIntOrDefault("MAX_REQUEST_BODY_SIZE", c.MaxRequestBodySize)
	c.FetchRateLimit = parseFloatOrDefault("FETCH_RATE_LIMIT", c.FetchRateLimit)
	c.FetchBurst = int(parseIntOrDefault("FETCH_RATE_BURST", int64(c.FetchBurst)))

	c.Azure.Account = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", c.Azure.Account)
	c.Azure.Key = getEnvOrDefault("AZURE_STORAGE_KEY", c.Azure.Key)
	c.Azure.Container = getEnvOrDefault("AZURE_STORAGE_CONTAINER", c.Azure.Container)
}

// Validate checks ranges and every effective transform spec.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	if c.FetchRateLimit < 0 {
		return fmt.Errorf("fetch_rate_limit must be >= 0 (got %g)", c.FetchRateLimit)
	}
	if c.FetchRateLimit > 0 && c.FetchBurst < 1 {
		return fmt.Errorf("fetch_burst must be >= 1 when fetch_rate_limit is set (got %d)", c.FetchBurst)
	}
	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("watch_debounce_ms must be >= 0 (got %d)", c.WatchDebounceMS)
	}
	if strings.TrimSpace(c.RootDir) == "" {
		return fmt.Errorf("root_dir must not be empty")
	}
	if strings.TrimSpace(c.DropZone) == "" {
		return fmt.Errorf("drop_zone must not be empty")
	}
	if c.ContentWeights.Threshold <= 0 {
		return fmt.Errorf("content_weights.threshold must be > 0 (got %d)", c.ContentWeights.Threshold)
	}

	for name := range c.TransformSpecs {
		if !models.Category(strings.ToLower(name)).Transformable() {
			return fmt.Errorf("transform_specs: unknown category %q", name)
		}
	}
	for cat, spec := range c.Specs() {
		if err := validation.ValidateTransformSpec(string(cat), spec, transform.SupportedOutputFormats); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
