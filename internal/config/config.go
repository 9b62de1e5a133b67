package config

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Request extractors.
const (
	ExtractorScanner    = "scanner"
	ExtractorTreeSitter = "tree-sitter"
)

type Config struct {
	Timeout        Duration `json:"timeout"`
	ParseCacheSize int      `json:"parse_cache_size"`
	ResponseSuffix string   `json:"response_suffix"`
	SourceSuffix   string   `json:"source_suffix"`

	// Extractor selects how request boundaries are found. The tree-sitter
	// extractor parses with Grammar and runs Query, empty meaning the
	// built-in request query.
	Extractor string `json:"extractor"`
	Grammar   string `json:"grammar"`
	Query     string `json:"query"`
}

// Duration reads "30s" style strings or plain milliseconds from JSON.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*d = Duration(time.Duration(t) * time.Millisecond)
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", t, err)
		}
		*d = Duration(parsed)
	case nil:
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

var defaultConfig = Config{
	Timeout:        Duration(30 * time.Second),
	ParseCacheSize: 64,
	ResponseSuffix: ".response",
	SourceSuffix:   ".http",
	Extractor:      ExtractorScanner,
	Grammar:        "http",
}

// Default returns the configuration used when the client sends none.
func Default() Config {
	return defaultConfig
}

func Load(v any) (Config, error) {
	cfg := defaultConfig
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	// only fields present in src will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg.validate()
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg.validate()
}

func (c Config) validate() (Config, error) {
	if c.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", c.Timeout.Std())
	}
	if c.ParseCacheSize <= 0 {
		return Config{}, fmt.Errorf("parse_cache_size must be positive, got %d", c.ParseCacheSize)
	}
	if c.ResponseSuffix == "" {
		return Config{}, fmt.Errorf("response_suffix must not be empty")
	}
	switch c.Extractor {
	case ExtractorScanner:
	case ExtractorTreeSitter:
		if c.Grammar == "" {
			return Config{}, fmt.Errorf("grammar must not be empty for the %s extractor", c.Extractor)
		}
	default:
		return Config{}, fmt.Errorf("extractor must be %q or %q, got %q", ExtractorScanner, ExtractorTreeSitter, c.Extractor)
	}
	return c, nil
}
