package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/parks-explorer/internal/build"
	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/resolver"
)

var (
	cfgFile   string
	cacheFile string
	apiKey    string
	baseURL   string
	searchURL string
	userAgent string
	timeout   time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "parks-explorer",
	Short:   "Browse national park sites by state and look up nearby places.",
	Version: build.FullVersion(),
	Long: `parks-explorer is an interactive CLI that lists U.S. National Park
Service sites for a chosen state and looks up points of interest near a
selected site.

Every lookup goes through a persistent on-disk cache: a request that was
answered once is served from the cache forever, within a run and across
runs. Only the cache file survives between runs.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		recorder := metadata.NewRecorder(cmd.OutOrStdout())
		res := resolver.New(cfg, &recorder)
		return runLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), &res)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "nps_cache.json", "path of the persistent cache file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "geolocation API key (defaults to "+config.EnvAPIKey+")")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "root URL of the park directory")
	rootCmd.PersistentFlags().StringVar(&searchURL, "search-url", "", "radius search endpoint of the geolocation API")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
}

// ResetFlags restores all flag variables to their defaults. Tests use it
// to isolate flag state between cases.
func ResetFlags() {
	cfgFile = ""
	cacheFile = "nps_cache.json"
	apiKey = ""
	baseURL = ""
	searchURL = ""
	userAgent = ""
	timeout = 0
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCacheFileForTest(path string) {
	cacheFile = path
}

func SetAPIKeyForTest(key string) {
	apiKey = key
}

func SetBaseURLForTest(raw string) {
	baseURL = raw
}

func SetSearchURLForTest(raw string) {
	searchURL = raw
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and ENV variables if set, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Build config from CLI flags using the With... functions with method chaining
	configBuilder := config.WithDefault()

	if apiKey != "" {
		configBuilder = configBuilder.WithAPIKey(apiKey)
	}

	if cacheFile != "" && cacheFile != "nps_cache.json" {
		configBuilder = configBuilder.WithCacheFile(cacheFile)
	}

	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return config.Config{}, fmt.Errorf("error parsing base URL %s: %w", baseURL, err)
		}
		configBuilder = configBuilder.WithBaseURL(*parsed)
	}

	if searchURL != "" {
		parsed, err := url.Parse(searchURL)
		if err != nil {
			return config.Config{}, fmt.Errorf("error parsing search URL %s: %w", searchURL, err)
		}
		configBuilder = configBuilder.WithSearchURL(*parsed)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	return configBuilder.Build()
}
