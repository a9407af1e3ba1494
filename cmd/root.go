package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/commpulse/core"
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// envBindings maps config keys to the conventional environment variables
// that GitHub workflows and .env files already use.
var envBindings = map[string][]string{
	"token":                    {"GH_TOKEN", "GITHUB_TOKEN"},
	"repos":                    {"REPOS"},
	"repo-owner":               {"REPO_OWNER"},
	"repo-name":                {"REPO_NAME"},
	"maintainers-file":         {"MAINTAINERS_FILE"},
	"lookback-months":          {"LOOKBACK_MONTHS"},
	"history-dir":              {"HISTORY_DIR"},
	"social.bluesky":           {"BLUESKY_HANDLE"},
	"social.mastodon-instance": {"MASTODON_INSTANCE"},
	"social.mastodon-username": {"MASTODON_USERNAME"},
	"social.linkedin":          {"LINKEDIN_URL"},
	"social.twitter":           {"TWITTER_HANDLE"},
	"social.twitter-token":     {"TWITTER_BEARER_TOKEN"},
}

// rootCmd is the command-line entrypoint for all other commands.
// Without a subcommand it runs a collection.
var rootCmd = &cobra.Command{
	Use:   "commpulse",
	Short: "Track community engagement across GitHub repositories.",
	Long: `Commpulse collects community metrics for GitHub repositories: discussion
upvotes and comments, community pull requests and issues, merge and close
rates, and the most active community contributors.

Activity from maintainers, bots and emeritus members is excluded. Every run
stores a daily snapshot, so the history can be charted over time.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Args:               cobra.NoArgs,
	PreRunE:            sharedSetupWrapper,
	Run:                runWith(core.ExecuteCollect, "Cannot collect community metrics"),
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine; real environment variables win over it.
	_ = godotenv.Load()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".commpulse") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("COMMPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // Read in environment variables that match
	for key, envs := range envBindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			contract.LogFatal(fmt.Sprintf("Error binding env for %s", key), err)
		}
	}

	// Set defaults in Viper
	viper.SetDefault("host", contract.DefaultHost)
	viper.SetDefault("maintainers-file", contract.DefaultMaintainersFile)
	viper.SetDefault("history-dir", contract.DefaultHistoryDir)
	viper.SetDefault("lookback-months", contract.DefaultLookbackMonths)
	viper.SetDefault("top-users", schema.DefaultTopUsers)
	viper.SetDefault("workers", 0)
	viper.SetDefault("page-delay", contract.DefaultPageDelay)
	viper.SetDefault("request-timeout", contract.DefaultRequestTimeout)
	viper.SetDefault("max-retries", contract.DefaultMaxRetries)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("days", contract.DefaultHistoryDays)
	viper.SetDefault("open", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	color.NoColor = color.NoColor || !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// runWith adapts an executor to a cobra Run function that exits on failure.
func runWith(execute core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := execute(rootCtx, cfg); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
