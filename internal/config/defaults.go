package config

import (
	"path/filepath"
	"time"

	"github.com/ziadkadry99/pixlet/internal/bootstrap"
	"github.com/ziadkadry99/pixlet/internal/navigation"
	"github.com/ziadkadry99/pixlet/internal/session"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".pixlet.yml"

// SearchEngine is a named search URL template offered by the init wizard.
type SearchEngine struct {
	Name      string
	SearchURL string
	Hosts     []string
}

// SearchEngines lists the wizard's search engine choices.
var SearchEngines = []SearchEngine{
	{Name: "Google", SearchURL: "https://www.google.com/search?q={query}", Hosts: []string{"*.google.com", "google.com"}},
	{Name: "DuckDuckGo", SearchURL: "https://duckduckgo.com/?q={query}", Hosts: []string{"duckduckgo.com"}},
	{Name: "Bing", SearchURL: "https://www.bing.com/search?q={query}", Hosts: []string{"*.bing.com", "bing.com"}},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	page := bootstrap.DefaultOptions()
	return &Config{
		Port:              8080,
		HomeURL:           "https://pixlet.netlify.app",
		SearchURL:         SearchEngines[0].SearchURL,
		AllowedHosts:      []string{"pixlet.netlify.app", "*.google.com", "google.com"},
		AutoOpenHome:      false,
		Greeting:          page.Greeting,
		ButtonLabel:       page.ButtonLabel,
		SuggestDelayMS:    int(page.SuggestDelay / time.Millisecond),
		SuggestLimit:      page.SuggestLimit,
		SessionTTLMinutes: 30,
		MaxSessions:       1000,
		DataDir:           ".pixlet",
		LogLevel:          "info",
		LogFormat:         LogFormatText,
	}
}

// DBPath returns the history database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pixlet.db")
}

// Navigation returns the navigator settings.
func (c *Config) Navigation() navigation.Config {
	return navigation.Config{
		HomeURL:      c.HomeURL,
		SearchURL:    c.SearchURL,
		AllowedHosts: c.AllowedHosts,
	}
}

// PageOptions returns the start page settings. Empty text fields keep
// their defaults.
func (c *Config) PageOptions() bootstrap.Options {
	opts := bootstrap.DefaultOptions()
	if c.Greeting != "" {
		opts.Greeting = c.Greeting
	}
	if c.ButtonLabel != "" {
		opts.ButtonLabel = c.ButtonLabel
	}
	opts.SuggestDelay = time.Duration(c.SuggestDelayMS) * time.Millisecond
	opts.SuggestLimit = c.SuggestLimit
	return opts
}

// Session returns the page session settings.
func (c *Config) Session() session.Config {
	return session.Config{
		Page:         c.PageOptions(),
		AutoOpenHome: c.AutoOpenHome,
		TTL:          time.Duration(c.SessionTTLMinutes) * time.Minute,
		MaxSessions:  c.MaxSessions,
	}
}
