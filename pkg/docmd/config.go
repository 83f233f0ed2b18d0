package docmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/htmlconv"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/mdwalk"
)

// Config contains all configuration options for the converter
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// AcronymPosition places acronym titles in footnotes or endnotes.
	AcronymPosition string `yaml:"acronym_position"`
	// ExcludeLinkAnchor drops links to fragment anchors other than #_top.
	ExcludeLinkAnchor bool `yaml:"exclude_link_anchor"`
	// TableCaptionPosition puts table captions above or below the table.
	TableCaptionPosition string `yaml:"table_caption_position"`
	// ImageLinkPrefix is written in front of image names in Markdown output.
	ImageLinkPrefix string `yaml:"image_link_prefix"`
	// StylesTemplate is a styles.xml or .docx whose styles replace the
	// built-in ones. Built-in styles it lacks are kept.
	StylesTemplate string `yaml:"styles_template"`
	// Concurrency is the number of batch workers. 0 uses one per CPU.
	Concurrency int `yaml:"concurrency"`
	// CacheMaxSize is the number of loaded style templates kept. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached style templates. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	// Initialize global config from environment on first use
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		AcronymPosition:      htmlconv.AcronymFootnote,
		ExcludeLinkAnchor:    false,
		TableCaptionPosition: htmlconv.CaptionAbove,
		ImageLinkPrefix:      mdwalk.DefaultImageLinkPrefix,
		CacheMaxSize:         16,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	applyEnvironment(config)
	return config
}

func applyEnvironment(config *Config) {
	// DOCMD_LOG_LEVEL
	if val := os.Getenv("DOCMD_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// DOCMD_ACRONYM_POSITION
	if val := os.Getenv("DOCMD_ACRONYM_POSITION"); val != "" {
		config.AcronymPosition = strings.ToLower(val)
	}

	// DOCMD_EXCLUDE_LINK_ANCHOR
	if val := os.Getenv("DOCMD_EXCLUDE_LINK_ANCHOR"); val != "" {
		config.ExcludeLinkAnchor = parseBool(val)
	}

	// DOCMD_TABLE_CAPTION_POSITION
	if val := os.Getenv("DOCMD_TABLE_CAPTION_POSITION"); val != "" {
		config.TableCaptionPosition = strings.ToLower(val)
	}

	// DOCMD_IMAGE_LINK_PREFIX
	if val := os.Getenv("DOCMD_IMAGE_LINK_PREFIX"); val != "" {
		config.ImageLinkPrefix = val
	}

	// DOCMD_STYLES_TEMPLATE
	if val := os.Getenv("DOCMD_STYLES_TEMPLATE"); val != "" {
		config.StylesTemplate = val
	}

	// DOCMD_CONCURRENCY
	if val := os.Getenv("DOCMD_CONCURRENCY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Concurrency = n
		}
	}

	// DOCMD_CACHE_MAX_SIZE
	if val := os.Getenv("DOCMD_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// DOCMD_CACHE_TTL
	if val := os.Getenv("DOCMD_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}
}

// LoadConfig builds a configuration from the defaults, the YAML file at
// path (skipped when path is empty) and the environment, in that order.
// The result is validated.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewDocumentError("read config", path, err)
		}
		if err := config.applyYAML(data); err != nil {
			return nil, NewDocumentError("parse config", path, err)
		}
	}
	applyEnvironment(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyYAML overlays a YAML document. ${VAR} references are expanded from
// the environment first and unknown keys are rejected.
func (c *Config) applyYAML(data []byte) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	// Create a copy of the overrides
	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.AcronymPosition == "" {
		config.AcronymPosition = defaults.AcronymPosition
	}

	if config.TableCaptionPosition == "" {
		config.TableCaptionPosition = defaults.TableCaptionPosition
	}

	if config.ImageLinkPrefix == "" {
		config.ImageLinkPrefix = defaults.ImageLinkPrefix
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var issues []ValidationIssue

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		issues = append(issues, ValidationIssue{Field: "log_level", Message: "invalid log level: " + c.LogLevel})
	}

	switch c.AcronymPosition {
	case htmlconv.AcronymFootnote, htmlconv.AcronymEndnote:
	default:
		issues = append(issues, ValidationIssue{Field: "acronym_position", Message: "must be footnote or endnote, got " + strconv.Quote(c.AcronymPosition)})
	}

	switch c.TableCaptionPosition {
	case htmlconv.CaptionAbove, htmlconv.CaptionBelow:
	default:
		issues = append(issues, ValidationIssue{Field: "table_caption_position", Message: "must be above or below, got " + strconv.Quote(c.TableCaptionPosition)})
	}

	if c.Concurrency < 0 {
		issues = append(issues, ValidationIssue{Field: "concurrency", Message: "cannot be negative"})
	}

	if c.CacheMaxSize < 0 {
		issues = append(issues, ValidationIssue{Field: "cache_max_size", Message: "cannot be negative"})
	}

	if c.CacheTTL < 0 {
		issues = append(issues, ValidationIssue{Field: "cache_ttl", Message: "cannot be negative"})
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
