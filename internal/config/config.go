// Package config loads the settings of a collection run.
//
// Sources, lowest precedence first: built-in defaults, a YAML file, a .env file,
// environment variables, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rocketmo/gh-org-stats/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no file is given explicitly.
const DefaultConfigFile = ".gh-org-stats.yaml"

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds every setting of a collection run.
type Config struct {
	Org          string `yaml:"org" envconfig:"ORG"`
	Token        string `yaml:"-" envconfig:"PAT"`
	GitHubToken  string `yaml:"-" envconfig:"GITHUB_TOKEN"`
	StartDate    string `yaml:"start_date" envconfig:"START_DATE"`
	EndDate      string `yaml:"end_date" envconfig:"END_DATE"`
	OutputDir    string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT"`
	Delays       Delays `yaml:"delays" envconfig:"DELAY"`
}

// Delays are the pauses between two page requests.
type Delays struct {
	Page            time.Duration `yaml:"page" split_words:"true"`
	PullRequestPage time.Duration `yaml:"pull_request_page" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir:    "output",
		OutputFormat: FormatCSV,
		Delays: Delays{
			Page:            1 * time.Second,
			PullRequestPage: 3 * time.Second,
		},
	}
}

// Load builds a Config from the YAML file at configPath, the dotenv file at envPath
// and the environment. An empty configPath falls back to DefaultConfigFile when it
// exists; a missing envPath is ignored.
func Load(configPath, envPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// AccessToken returns PAT, falling back to GITHUB_TOKEN.
func (c *Config) AccessToken() string {
	return domain.FirstNonEmpty("", c.Token, c.GitHubToken)
}

// Validate reports the first setting that would make a run fail and
// returns the parsed date window of a valid configuration.
func (c *Config) Validate() (domain.Window, error) {
	if c.Org == "" {
		return domain.Window{}, domain.ErrMissingOrganization
	}
	if c.AccessToken() == "" {
		return domain.Window{}, domain.ErrMissingToken
	}
	switch strings.ToLower(c.OutputFormat) {
	case FormatCSV, FormatXLSX:
	default:
		return domain.Window{}, fmt.Errorf("%q: %w", c.OutputFormat, domain.ErrUnknownFormat)
	}
	if c.Delays.Page < 0 || c.Delays.PullRequestPage < 0 {
		return domain.Window{}, fmt.Errorf("page %s, pull request page %s: %w",
			c.Delays.Page, c.Delays.PullRequestPage, domain.ErrInvalidDelay)
	}
	return c.Window()
}

// Window parses the configured date bounds.
// A date-only end bound covers that whole day.
func (c *Config) Window() (domain.Window, error) {
	var window domain.Window
	if c.StartDate != "" {
		start, _, err := parseDate(c.StartDate)
		if err != nil {
			return domain.Window{}, fmt.Errorf("start date %q: %w", c.StartDate, domain.ErrInvalidDateRange)
		}
		window.Start = start
	}
	if c.EndDate != "" {
		end, dateOnly, err := parseDate(c.EndDate)
		if err != nil {
			return domain.Window{}, fmt.Errorf("end date %q: %w", c.EndDate, domain.ErrInvalidDateRange)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		window.End = end
	}
	if window.HasStart() && window.HasEnd() && window.Start.After(window.End) {
		return domain.Window{}, fmt.Errorf("start date %s is after end date %s: %w", c.StartDate, c.EndDate, domain.ErrInvalidDateRange)
	}
	return window, nil
}

var dateOnlyLayouts = []string{time.DateOnly, "2006/01/02"}

func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unsupported date format %q", value)
}
