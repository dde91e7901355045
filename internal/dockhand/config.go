package dockhand

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultTimeout is the per-request timeout applied when none is configured.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a Dockhand instance.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	// URL is the Dockhand base URL, e.g. "http://dockhand.local:3000".
	URL string `env:"DOCKHAND_URL"`

	// Username and Password are optional but must be set together.
	Username string `env:"DOCKHAND_USER"`
	Password string `env:"DOCKHAND_PASS"`

	// Timeout bounds every outbound request, including logins.
	Timeout time.Duration `env:"DOCKHAND_TIMEOUT" envDefault:"30s"`

	// ReadOnly rejects every mutating tool before it reaches Dockhand.
	ReadOnly bool `env:"DOCKHAND_READ_ONLY" envDefault:"false"`
}

// LoadConfigFromEnv parses the DOCKHAND_* environment variables.
// The result is not validated; call Validate before use.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, &ConfigError{Field: "environment", Reason: err.Error()}
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes the base URL by trimming
// trailing slashes.
func (c *Config) Validate() error {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		return &ConfigError{Field: "DOCKHAND_URL", Reason: "is required"}
	}

	parsed, err := url.Parse(c.URL)
	if err != nil {
		return &ConfigError{Field: "DOCKHAND_URL", Reason: "is not a valid URL: " + err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ConfigError{Field: "DOCKHAND_URL", Reason: "must use the http or https scheme"}
	}
	if parsed.Host == "" {
		return &ConfigError{Field: "DOCKHAND_URL", Reason: "must include a host"}
	}

	if (c.Username == "") != (c.Password == "") {
		return &ConfigError{Field: "DOCKHAND_USER/DOCKHAND_PASS", Reason: "must be set together"}
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "DOCKHAND_TIMEOUT", Reason: "must be positive"}
	}

	return nil
}

// HasCredentials reports whether a username and password are configured.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
