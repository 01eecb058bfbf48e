package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// EnvAPIKey is the environment variable consulted for the geolocation
// search API key when no key is provided by file or flag. The key is a
// secret and must never be committed alongside the repository.
const EnvAPIKey = "PARKS_EXPLORER_API_KEY"

type Config struct {
	//===============
	// Sources
	//===============
	// Root of the park directory site. State menu hrefs resolve against it.
	baseURL url.URL
	// Radius search endpoint of the geolocation API.
	searchURL url.URL
	// Authentication key for the geolocation API. Mandatory.
	apiKey string

	//===============
	// Cache
	//===============
	// Path of the persistent cache file. Created on first save if absent.
	cacheFile string

	//===============
	// Search
	//===============
	// Radius of the nearby-places search, in the API's radius units.
	searchRadius int
	// Maximum number of matches requested from the search endpoint.
	maxMatches int
	// How the search endpoint should treat ambiguous origins.
	ambiguities string

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string
}

type configDTO struct {
	BaseURL      string        `json:"baseUrl,omitempty"`
	SearchURL    string        `json:"searchUrl,omitempty"`
	APIKey       string        `json:"apiKey,omitempty"`
	CacheFile    string        `json:"cacheFile,omitempty"`
	SearchRadius int           `json:"searchRadius,omitempty"`
	MaxMatches   int           `json:"maxMatches,omitempty"`
	Ambiguities  string        `json:"ambiguities,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	if dto.BaseURL != "" {
		parsed, err := url.Parse(dto.BaseURL)
		if err != nil {
			return Config{}, fmt.Errorf("%w: baseUrl: %s", ErrInvalidConfig, err.Error())
		}
		cfg.baseURL = *parsed
	}
	if dto.SearchURL != "" {
		parsed, err := url.Parse(dto.SearchURL)
		if err != nil {
			return Config{}, fmt.Errorf("%w: searchUrl: %s", ErrInvalidConfig, err.Error())
		}
		cfg.searchURL = *parsed
	}
	if dto.APIKey != "" {
		cfg.apiKey = dto.APIKey
	}
	if dto.CacheFile != "" {
		cfg.cacheFile = dto.CacheFile
	}
	if dto.SearchRadius != 0 {
		cfg.searchRadius = dto.SearchRadius
	}
	if dto.MaxMatches != 0 {
		cfg.maxMatches = dto.MaxMatches
	}
	if dto.Ambiguities != "" {
		cfg.ambiguities = dto.Ambiguities
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}

	return cfg.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config builder with default values for all fields.
// The API key defaults to the PARKS_EXPLORER_API_KEY environment variable;
// Build returns ErrMissingAPIKey when no key was provided by any source.
func WithDefault() *Config {
	defaultConfig := Config{
		baseURL:      url.URL{Scheme: "https", Host: "www.nps.gov"},
		searchURL:    url.URL{Scheme: "https", Host: "www.mapquestapi.com", Path: "/search/v2/radius"},
		apiKey:       os.Getenv(EnvAPIKey),
		cacheFile:    "nps_cache.json",
		searchRadius: 10,
		maxMatches:   10,
		ambiguities:  "ignore",
		timeout:      time.Second * 10,
		userAgent:    "parks-explorer/1.0",
	}
	return &defaultConfig
}

func (c *Config) WithBaseURL(baseURL url.URL) *Config {
	c.baseURL = baseURL
	return c
}

func (c *Config) WithSearchURL(searchURL url.URL) *Config {
	c.searchURL = searchURL
	return c
}

func (c *Config) WithAPIKey(apiKey string) *Config {
	c.apiKey = apiKey
	return c
}

func (c *Config) WithCacheFile(cacheFile string) *Config {
	c.cacheFile = cacheFile
	return c
}

func (c *Config) WithSearchRadius(radius int) *Config {
	c.searchRadius = radius
	return c
}

func (c *Config) WithMaxMatches(maxMatches int) *Config {
	c.maxMatches = maxMatches
	return c
}

func (c *Config) WithAmbiguities(ambiguities string) *Config {
	c.ambiguities = ambiguities
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) Build() (Config, error) {
	if c.apiKey == "" {
		return Config{}, fmt.Errorf("%w: set %s or provide apiKey in the config file", ErrMissingAPIKey, EnvAPIKey)
	}
	if c.baseURL.Host == "" {
		return Config{}, fmt.Errorf("%w: baseUrl must be an absolute URL", ErrInvalidConfig)
	}
	if c.searchURL.Host == "" {
		return Config{}, fmt.Errorf("%w: searchUrl must be an absolute URL", ErrInvalidConfig)
	}
	if c.cacheFile == "" {
		return Config{}, fmt.Errorf("%w: cacheFile cannot be empty", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) BaseURL() url.URL {
	return c.baseURL
}

func (c Config) SearchURL() url.URL {
	return c.searchURL
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) SearchRadius() int {
	return c.searchRadius
}

func (c Config) MaxMatches() int {
	return c.maxMatches
}

func (c Config) Ambiguities() string {
	return c.ambiguities
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}
