// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Selectors holds the markup markers the extractor and discoverer rely on.
// They are configuration rather than constants so that a site redesign can
// be absorbed without a rebuild, and so tests can point them at fixtures.
type Selectors struct {
	PoliticalGroup string `json:"political_group,omitempty" validate:"required"`
	CountryBlock   string `json:"country_block,omitempty" validate:"required"`
	EmailLink      string `json:"email_link,omitempty" validate:"required"`
	SocialLink     string `json:"social_link,omitempty" validate:"required"`
	GroupMarker    string `json:"group_marker,omitempty" validate:"required"`
}

// Config represents the harvester configuration that can be loaded from a
// JSON file. All fields are optional in the file; missing values fall back
// to defaults or environment variables.
type Config struct {
	BaseURL            string    `json:"base_url,omitempty" validate:"required,url"`
	RosterPath         string    `json:"roster_path,omitempty" validate:"required,startswith=/"`
	ProfilePrefix      string    `json:"profile_prefix,omitempty" validate:"required,startswith=/,endswith=/"`
	UserAgent          string    `json:"user_agent,omitempty" validate:"required"`
	TimeoutSeconds     int       `json:"timeout_seconds,omitempty" validate:"min=1"`
	RequestDelayMillis int       `json:"request_delay_ms,omitempty" validate:"min=0"`
	ProgressEvery      int       `json:"progress_every,omitempty" validate:"min=1"`
	Workers            int       `json:"workers,omitempty" validate:"min=1,max=8"`
	UseBrowser         bool      `json:"use_browser,omitempty"`
	Selectors          Selectors `json:"selectors,omitempty"`
}

// Default returns the configuration matching the live europarl.europa.eu
// site layout.
func Default() Config {
	return Config{
		BaseURL:            "https://www.europarl.europa.eu",
		RosterPath:         "/meps/en/full-list/all",
		ProfilePrefix:      "/meps/en/",
		UserAgent:          "LeaveXContactScraper/1.0 (+https://leavex.eu)",
		TimeoutSeconds:     15,
		RequestDelayMillis: 200,
		ProgressEvery:      10,
		Workers:            1,
		Selectors: Selectors{
			PoliticalGroup: "h3.erpl_title-h3.mt-1.sln-political-group-name",
			CountryBlock:   "div.erpl_title-h3.mt-1.mb-1",
			EmailLink:      "a.link_email",
			SocialLink:     "a.link_twitt",
			GroupMarker:    "Group of the",
		},
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. CLI flags are applied after this, so flags always win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.RosterPath == "" {
		result.RosterPath = defaults.RosterPath
	}
	if result.ProfilePrefix == "" {
		result.ProfilePrefix = defaults.ProfilePrefix
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.RequestDelayMillis == 0 {
		result.RequestDelayMillis = defaults.RequestDelayMillis
	}
	if result.ProgressEvery == 0 {
		result.ProgressEvery = defaults.ProgressEvery
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Selectors.PoliticalGroup == "" {
		result.Selectors.PoliticalGroup = defaults.Selectors.PoliticalGroup
	}
	if result.Selectors.CountryBlock == "" {
		result.Selectors.CountryBlock = defaults.Selectors.CountryBlock
	}
	if result.Selectors.EmailLink == "" {
		result.Selectors.EmailLink = defaults.Selectors.EmailLink
	}
	if result.Selectors.SocialLink == "" {
		result.Selectors.SocialLink = defaults.Selectors.SocialLink
	}
	if result.Selectors.GroupMarker == "" {
		result.Selectors.GroupMarker = defaults.Selectors.GroupMarker
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overlays MEPSCAN_* environment variables onto the config.
// Environment values sit between the config file and CLI flags in
// precedence.
func (c *Config) ApplyEnv() {
	c.BaseURL = getEnvString("MEPSCAN_BASE_URL", c.BaseURL)
	c.RosterPath = getEnvString("MEPSCAN_ROSTER_PATH", c.RosterPath)
	c.UserAgent = getEnvString("MEPSCAN_USER_AGENT", c.UserAgent)
	c.TimeoutSeconds = getEnvInt("MEPSCAN_TIMEOUT_SECONDS", c.TimeoutSeconds)
	c.RequestDelayMillis = getEnvInt("MEPSCAN_REQUEST_DELAY_MS", c.RequestDelayMillis)
	c.Workers = getEnvInt("MEPSCAN_WORKERS", c.Workers)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config validation failed: %w", err)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("config error: invalid fields: %s", strings.Join(fields, ", "))
	}
	return nil
}

// RosterURL returns the absolute address of the member listing page.
func (c *Config) RosterURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.RosterPath
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequestDelay returns the fixed delay paid after every fetch.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMillis) * time.Millisecond
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
