package config

import (
	"fmt"
	"strings"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/importer"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	for _, ext := range c.Scan.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			errs = append(errs, "scan.extensions: empty extension")
			break
		}
	}

	// Output validation
	if c.Output.Overwrite && c.Output.SmartOverwrite {
		errs = append(errs, "output: overwrite and smart_overwrite are mutually exclusive")
	}
	if err := importer.ValidateTemplate(c.Output.MovieTemplate); err != nil {
		errs = append(errs, fmt.Sprintf("output.movie_template: %v", err))
	}
	if err := importer.ValidateTemplate(c.Output.EpisodeTemplate); err != nil {
		errs = append(errs, fmt.Sprintf("output.episode_template: %v", err))
	}

	// Lookup validation
	if _, err := fixture.ParseMode(c.Lookup.Mode); err != nil {
		errs = append(errs, fmt.Sprintf("lookup.mode: must be one of auto, episode, movie; got %q", c.Lookup.Mode))
	}
	if c.Lookup.AncillarySize < 0 {
		errs = append(errs, fmt.Sprintf("lookup.ancillary_size: must not be negative, got %d", c.Lookup.AncillarySize))
	}

	// TMDB validation
	if c.TMDB.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.timeout: must not be negative, got %s", c.TMDB.Timeout))
	}
	if c.TMDB.BaseURL != "" && !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: must be an http(s) URL, got %q", c.TMDB.BaseURL))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}

// Missing reports settings a scan run needs that neither the file nor flags
// provided.
func (c *Config) Missing() []string {
	var errs []string
	if c.Output.Path == "" {
		errs = append(errs, "output.path: required")
	}
	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	return errs
}
