package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds everything the server needs at startup.
type Config struct {
	ListenAddr      string
	DBPath          string
	ContentDir      string
	SiteURL         string
	FeedTitle       string
	FeedDescription string
	FeedLanguage    string
}

// Default returns the built-in configuration baseline.
func Default() Config {
	return Config{
		ListenAddr:   ":8080",
		DBPath:       "./inkfeed.db",
		ContentDir:   "./content",
		FeedLanguage: "en-us",
	}
}

// fileConfig maps config.toml keys onto Config fields.
type fileConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	DBPath          string `toml:"db_path"`
	ContentDir      string `toml:"content_dir"`
	SiteURL         string `toml:"site_url"`
	FeedTitle       string `toml:"feed_title"`
	FeedDescription string `toml:"feed_description"`
	FeedLanguage    string `toml:"feed_language"`
}

// Load builds the effective configuration: defaults, overlaid by the TOML
// file when a path is given, overlaid by INKFEED_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}

		if meta.IsDefined("listen_addr") {
			cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
		}
		if meta.IsDefined("db_path") {
			cfg.DBPath = strings.TrimSpace(raw.DBPath)
		}
		if meta.IsDefined("content_dir") {
			cfg.ContentDir = strings.TrimSpace(raw.ContentDir)
		}
		if meta.IsDefined("site_url") {
			cfg.SiteURL = strings.TrimSpace(raw.SiteURL)
		}
		if meta.IsDefined("feed_title") {
			cfg.FeedTitle = raw.FeedTitle
		}
		if meta.IsDefined("feed_description") {
			cfg.FeedDescription = raw.FeedDescription
		}
		if meta.IsDefined("feed_language") {
			cfg.FeedLanguage = strings.TrimSpace(raw.FeedLanguage)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env  string
		dest *string
	}{
		{"INKFEED_LISTEN_ADDR", &cfg.ListenAddr},
		{"INKFEED_DB_PATH", &cfg.DBPath},
		{"INKFEED_CONTENT_DIR", &cfg.ContentDir},
		{"INKFEED_SITE_URL", &cfg.SiteURL},
		{"INKFEED_FEED_TITLE", &cfg.FeedTitle},
		{"INKFEED_FEED_DESCRIPTION", &cfg.FeedDescription},
		{"INKFEED_FEED_LANGUAGE", &cfg.FeedLanguage},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dest = v
		}
	}
}

// Validate rejects a configuration the server cannot run with. The site URL
// constraint mirrors the one the feed builder enforces, so a bad URL fails
// at startup instead of on the first feed request.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir must not be empty")
	}

	if c.SiteURL == "" {
		return fmt.Errorf("site_url must not be empty")
	}
	u, err := url.Parse(c.SiteURL)
	if err != nil {
		return fmt.Errorf("site_url is not a valid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site_url must be an absolute http or https URL")
	}

	return nil
}
