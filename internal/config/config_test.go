package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
listen_addr = ":9090"
site_url = "https://blog.example.com"
feed_title = "My Blog"
feed_description = "Notes and posts"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.SiteURL != "https://blog.example.com" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.FeedTitle != "My Blog" {
		t.Errorf("FeedTitle = %q", cfg.FeedTitle)
	}

	// Unset keys keep their defaults
	if cfg.ContentDir != "./content" {
		t.Errorf("ContentDir = %q, want default", cfg.ContentDir)
	}
	if cfg.FeedLanguage != "en-us" {
		t.Errorf("FeedLanguage = %q, want default", cfg.FeedLanguage)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
site_url = "https://blog.example.com"
feed_title = "File Title"
`)

	os.Setenv("INKFEED_FEED_TITLE", "Env Title")
	defer os.Unsetenv("INKFEED_FEED_TITLE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedTitle != "Env Title" {
		t.Errorf("FeedTitle = %q, want env override", cfg.FeedTitle)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.SiteURL = "https://example.com"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty site URL",
			mutate:  func(c *Config) { c.SiteURL = "" },
			wantErr: true,
		},
		{
			name:    "relative site URL",
			mutate:  func(c *Config) { c.SiteURL = "/blog" },
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			mutate:  func(c *Config) { c.SiteURL = "ftp://example.com" },
			wantErr: true,
		},
		{
			name:    "empty listen addr",
			mutate:  func(c *Config) { c.ListenAddr = "" },
			wantErr: true,
		},
		{
			name:    "empty content dir",
			mutate:  func(c *Config) { c.ContentDir = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
