package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"worldtrends/feeds"
)

// Config is the immutable per-run configuration. Everything here is a
// deployment concern; the severity, region, and alias rule tables live with
// the code because they define the dataset's semantics.
type Config struct {
	Sources         []feeds.Source `mapstructure:"sources"`
	GeoFile         string         `mapstructure:"geo_file"`
	OutputDir       string         `mapstructure:"output_dir"`
	FetchTimeoutSec int            `mapstructure:"fetch_timeout_seconds"`
	UserAgent       string         `mapstructure:"user_agent"`
}

// DefaultSources is the stock roster of world-news feeds.
var DefaultSources = []feeds.Source{
	{ID: "bbc", Name: "BBC World", URL: "http://feeds.bbci.co.uk/news/world/rss.xml", Region: "Global"},
	{ID: "nyt", Name: "NYT World", URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", Region: "Global"},
	{ID: "un", Name: "UN News", URL: "https://news.un.org/feed/subscribe/en/news/all/rss.xml", Region: "Global"},
	{ID: "aljazeera", Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Region: "Global"},
}

// Default returns the built-in configuration used when no config file is
// given.
func Default() Config {
	return Config{
		Sources:         DefaultSources,
		GeoFile:         "public/admin0-countries-iso-a3.geojson",
		OutputDir:       "public",
		FetchTimeoutSec: 10,
		UserAgent:       "worldtrends-bot/1.0",
	}
}

// Load reads the YAML config at path, with WORLDTRENDS_* environment
// overrides. An empty path yields the defaults. Missing fields fall back to
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("worldtrends")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	loaded := Config{}
	if err := v.Unmarshal(&loaded); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	// Defaults for anything the file leaves out
	if len(loaded.Sources) == 0 {
		loaded.Sources = cfg.Sources
	}
	if loaded.GeoFile == "" {
		loaded.GeoFile = cfg.GeoFile
	}
	if loaded.OutputDir == "" {
		loaded.OutputDir = cfg.OutputDir
	}
	if loaded.FetchTimeoutSec == 0 {
		loaded.FetchTimeoutSec = cfg.FetchTimeoutSec
	}
	if loaded.UserAgent == "" {
		loaded.UserAgent = cfg.UserAgent
	}

	return loaded, nil
}

// FetchTimeout returns the per-source fetch bound as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}
