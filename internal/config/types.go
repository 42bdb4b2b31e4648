package config

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level pixlet configuration, corresponding to .pixlet.yml.
type Config struct {
	Port              int       `yaml:"port" koanf:"port"`
	HomeURL           string    `yaml:"home_url" koanf:"home_url"`
	SearchURL         string    `yaml:"search_url" koanf:"search_url"`
	AllowedHosts      []string  `yaml:"allowed_hosts" koanf:"allowed_hosts"`
	AutoOpenHome      bool      `yaml:"auto_open_home" koanf:"auto_open_home"`
	Greeting          string    `yaml:"greeting" koanf:"greeting"`
	ButtonLabel       string    `yaml:"button_label" koanf:"button_label"`
	SuggestDelayMS    int       `yaml:"suggest_delay_ms" koanf:"suggest_delay_ms"`
	SuggestLimit      int       `yaml:"suggest_limit" koanf:"suggest_limit"`
	SessionTTLMinutes int       `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	MaxSessions       int       `yaml:"max_sessions" koanf:"max_sessions"`
	DataDir           string    `yaml:"data_dir" koanf:"data_dir"`
	LogLevel          string    `yaml:"log_level" koanf:"log_level"`
	LogFormat         LogFormat `yaml:"log_format" koanf:"log_format"`
}
