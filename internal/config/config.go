// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load for values the file leaves empty.
const (
	DefaultTMDBBaseURL   = "https://api.themoviedb.org"
	DefaultTMDBLanguage  = "en-US"
	DefaultTMDBTimeout   = 10 * time.Second
	DefaultAncillarySize = 40_000_000
	DefaultLogLevel      = "info"
	DefaultLookupMode    = "auto"
)

// DefaultExtensions are the media extensions scanned when none are configured.
var DefaultExtensions = []string{"mkv", "mp4", "m4v", "avi", "mov", "wmv", "mpg", "mpeg", "ts", "webm"}

// Config is the root configuration structure.
type Config struct {
	Scan    ScanConfig    `toml:"scan"`
	Cleanup CleanupConfig `toml:"cleanup"`
	Output  OutputConfig  `toml:"output"`
	Lookup  LookupConfig  `toml:"lookup"`
	TMDB    TMDBConfig    `toml:"tmdb"`
	Log     LogConfig     `toml:"log"`
}

type ScanConfig struct {
	Extensions []string `toml:"extensions"`
}

// CleanupConfig lists extensions removed from the input paths before and
// after a run.
type CleanupConfig struct {
	PreExtensions  []string `toml:"pre_extensions"`
	PostExtensions []string `toml:"post_extensions"`
}

type OutputConfig struct {
	Path            string `toml:"path"`
	Overwrite       bool   `toml:"overwrite"`
	SmartOverwrite  bool   `toml:"smart_overwrite"`
	MovieTemplate   string `toml:"movie_template"`
	EpisodeTemplate string `toml:"episode_template"`
}

type LookupConfig struct {
	Mode          string `toml:"mode"`
	SkipFailures  bool   `toml:"skip_failures"`
	AutoAccept    bool   `toml:"auto_accept"`
	AncillarySize int64  `toml:"ancillary_size"`
}

type TMDBConfig struct {
	APIKey   string        `toml:"api_key"`
	BaseURL  string        `toml:"base_url"`
	Language string        `toml:"language"`
	Timeout  time.Duration `toml:"timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns a configuration with every default applied, for runs
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, parses and validates the configuration file.
// Missing environment variables and validation failures are returned together
// as an *Error.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &Error{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, leaving
// unresolved variables and invalid values in place.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Lookup.Mode == "" {
		c.Lookup.Mode = DefaultLookupMode
	}
	if c.Lookup.AncillarySize == 0 {
		c.Lookup.AncillarySize = DefaultAncillarySize
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = DefaultTMDBBaseURL
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = DefaultTMDBLanguage
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = DefaultTMDBTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// An unset variable without a default is left unchanged and reported in
// missing; ${VAR:?message} reports "VAR: message" when VAR is unset or empty.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
