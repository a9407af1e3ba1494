package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/huangsam/commpulse/schema"
)

// Default values for configuration.
const (
	DefaultHost            = "github.com"
	DefaultRepo            = "podman-desktop/podman-desktop"
	DefaultMaintainersFile = "data/maintainers.json"
	DefaultHistoryDir      = "data/history"
	DefaultDashboardFile   = "dashboard.html"
	DefaultLookbackMonths  = 1
	MaxLookbackMonths      = 24
	DefaultHistoryDays     = 30
	DefaultMaxRetries      = 3
	DefaultPageDelay       = 50 * time.Millisecond
	DefaultRequestTimeout  = 30 * time.Second
	MaxTopUsers            = 100
)

// DateTimeFormat is the timestamp layout used in CSV and JSON exports.
var DateTimeFormat = time.RFC3339

// ErrMissingToken is returned when an operation needs the GitHub API and no token is configured.
var ErrMissingToken = errors.New("GH_TOKEN environment variable is required")

// SocialConfig holds the optional social media accounts to track.
type SocialConfig struct {
	BlueskyHandle    string
	MastodonInstance string
	MastodonUsername string
	LinkedInURL      string
	TwitterHandle    string
	TwitterToken     string // Please use env var as this is plaintext
}

// Enabled reports whether at least one platform is configured.
func (s SocialConfig) Enabled() bool {
	return s.BlueskyHandle != "" ||
		(s.MastodonInstance != "" && s.MastodonUsername != "") ||
		s.LinkedInURL != "" ||
		s.TwitterHandle != ""
}

// Config holds the runtime configuration for commpulse.
// This struct remains the "final, validated" config.
type Config struct {
	Token string // Please use env var as this is plaintext
	Host  string
	Repos []schema.RepoID

	MaintainersFile string
	LookbackMonths  int
	TopUsers        int
	HistoryDir      string
	NoCache         bool

	Workers        int // 0 means one worker per repository
	PageDelay      time.Duration
	RequestTimeout time.Duration
	MaxRetries     int

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryDays int
	RepoFilter  string
	OpenBrowser bool

	Social SocialConfig
}

// SocialRawInput holds the raw social media settings.
type SocialRawInput struct {
	Bluesky          string `mapstructure:"bluesky"`
	MastodonInstance string `mapstructure:"mastodon-instance"`
	MastodonUsername string `mapstructure:"mastodon-username"`
	LinkedIn         string `mapstructure:"linkedin"`
	Twitter          string `mapstructure:"twitter"`
	TwitterToken     string `mapstructure:"twitter-token"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Token           string        `mapstructure:"token"`
	Host            string        `mapstructure:"host"`
	Repos           []string      `mapstructure:"repos"`
	RepoOwner       string        `mapstructure:"repo-owner"`
	RepoName        string        `mapstructure:"repo-name"`
	MaintainersFile string        `mapstructure:"maintainers-file"`
	LookbackMonths  int           `mapstructure:"lookback-months"`
	TopUsers        int           `mapstructure:"top-users"`
	HistoryDir      string        `mapstructure:"history-dir"`
	Workers         int           `mapstructure:"workers"`
	PageDelay       time.Duration `mapstructure:"page-delay"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	MaxRetries      int           `mapstructure:"max-retries"`
	Output          string        `mapstructure:"output"`
	OutputFile      string        `mapstructure:"output-file"`
	Width           int           `mapstructure:"width"`
	Color           string        `mapstructure:"color"`

	// --- Cache flags shared by root and collect ---
	NoCache     bool `mapstructure:"no-cache"`
	IgnoreCache bool `mapstructure:"ignore-cache"`

	// --- Fields from historyCmd.PersistentFlags() ---
	Days int    `mapstructure:"days"`
	Repo string `mapstructure:"repo"`

	// --- Fields from dashboardCmd.Flags() ---
	Open string `mapstructure:"open"`

	// --- Social accounts from config file or env ---
	Social SocialRawInput `mapstructure:"social"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Repos != nil {
		clone.Repos = make([]schema.RepoID, len(c.Repos))
		copy(clone.Repos, c.Repos)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. The token is not required here;
// commands that talk to GitHub call RequireToken.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRepos(cfg, input); err != nil {
		return err
	}
	processSocial(cfg, input)
	return nil
}

// RequireToken fails when no GitHub token is configured.
func RequireToken(cfg *Config) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

// validateSimpleInputs processes and validates all non-repository fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Token = strings.TrimSpace(input.Token)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.NoCache = input.NoCache || input.IgnoreCache
	cfg.RepoFilter = strings.TrimSpace(input.Repo)

	cfg.Host = strings.TrimSpace(input.Host)
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}

	cfg.MaintainersFile = input.MaintainersFile
	if cfg.MaintainersFile == "" {
		cfg.MaintainersFile = DefaultMaintainersFile
	}

	cfg.HistoryDir = input.HistoryDir
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = DefaultHistoryDir
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// Parse open flag
	if input.Open == "" {
		input.Open = "yes"
	}
	open, err := ParseBoolString(input.Open)
	if err != nil {
		return fmt.Errorf("invalid --open value: %w", err)
	}
	cfg.OpenBrowser = open

	// --- 1. Lookback Validation ---
	if input.LookbackMonths <= 0 || input.LookbackMonths > MaxLookbackMonths {
		return fmt.Errorf("lookback-months must be greater than 0 and cannot exceed %d (received %d)", MaxLookbackMonths, input.LookbackMonths)
	}
	cfg.LookbackMonths = input.LookbackMonths

	// --- 2. Ranking Validation ---
	if input.TopUsers <= 0 || input.TopUsers > MaxTopUsers {
		return fmt.Errorf("top-users must be greater than 0 and cannot exceed %d (received %d)", MaxTopUsers, input.TopUsers)
	}
	cfg.TopUsers = input.TopUsers

	// --- 3. Concurrency and Transport Validation ---
	if input.Workers < 0 {
		return fmt.Errorf("workers cannot be negative (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.PageDelay < 0 {
		return fmt.Errorf("page-delay cannot be negative (received %s)", input.PageDelay)
	}
	cfg.PageDelay = input.PageDelay

	if input.RequestTimeout <= 0 {
		return fmt.Errorf("request-timeout must be greater than 0 (received %s)", input.RequestTimeout)
	}
	cfg.RequestTimeout = input.RequestTimeout

	if input.MaxRetries < 0 {
		return fmt.Errorf("max-retries cannot be negative (received %d)", input.MaxRetries)
	}
	cfg.MaxRetries = input.MaxRetries

	// --- 4. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 5. History Validation ---
	if input.Days < 0 {
		return fmt.Errorf("days cannot be negative (received %d)", input.Days)
	}
	cfg.HistoryDays = input.Days

	return nil
}

// processRepos resolves the repository list, falling back to the legacy
// owner/name pair and then to DefaultRepo.
func processRepos(cfg *Config, input *ConfigRawInput) error {
	entries := input.Repos
	if len(entries) == 0 && input.RepoOwner != "" && input.RepoName != "" {
		entries = []string{input.RepoOwner + "/" + input.RepoName}
	}
	if len(entries) == 0 {
		entries = []string{DefaultRepo}
	}

	repos, err := ParseRepos(entries, cfg.Host)
	if err != nil {
		return err
	}
	cfg.Repos = repos
	return nil
}

// ParseRepos parses owner/name entries, tolerating comma separated values
// and duplicates. The order of first appearance is preserved.
func ParseRepos(entries []string, host string) ([]schema.RepoID, error) {
	var repos []schema.RepoID
	seen := make(map[string]struct{})
	for _, entry := range entries {
		for part := range strings.SplitSeq(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			parsed, err := repository.ParseWithHost(part, host)
			if err != nil {
				return nil, fmt.Errorf("invalid repository '%s': %w", part, err)
			}
			repo := schema.RepoID{Owner: parsed.Owner, Name: parsed.Name}
			key := strings.ToLower(repo.String())
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			repos = append(repos, repo)
		}
	}
	if len(repos) == 0 {
		return nil, errors.New("at least one repository must be configured")
	}
	return repos, nil
}

// processSocial copies the social accounts, trimming the handles users tend to paste.
func processSocial(cfg *Config, input *ConfigRawInput) {
	cfg.Social = SocialConfig{
		BlueskyHandle:    strings.TrimPrefix(strings.TrimSpace(input.Social.Bluesky), "@"),
		MastodonInstance: strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(input.Social.MastodonInstance), "https://"), "/"),
		MastodonUsername: strings.TrimPrefix(strings.TrimSpace(input.Social.MastodonUsername), "@"),
		LinkedInURL:      strings.TrimSpace(input.Social.LinkedIn),
		TwitterHandle:    strings.TrimPrefix(strings.TrimSpace(input.Social.Twitter), "@"),
		TwitterToken:     strings.TrimSpace(input.Social.TwitterToken),
	}
}
