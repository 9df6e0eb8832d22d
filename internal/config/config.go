// Package config loads the croptrack service configuration from YAML,
// with environment expansion and optional .env files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Profile namespaces all persisted samples, so several tracked
	// subjects can share one store.
	Profile string `yaml:"profile"`

	// Catalog is the path to the static catalog file.
	Catalog string `yaml:"catalog"`

	Poll    PollConfig    `yaml:"poll"`
	Store   StoreConfig   `yaml:"store"`
	Gateway GatewayConfig `yaml:"gateway"`
	Notify  NotifyConfig  `yaml:"notify"`
	Server  ServerConfig  `yaml:"server"`
}

// PollConfig controls the ingest cycle.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// StoreConfig selects and configures the state store backend.
type StoreConfig struct {
	// Backend is one of "sqlite", "memory" or "nats".
	Backend string `yaml:"backend"`
	// Path is the SQLite database file (sqlite backend).
	Path string `yaml:"path"`
	// URL and Bucket configure the NATS JetStream KV backend.
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// GatewayConfig points at the sensor gateway serving live values.
type GatewayConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotifyConfig configures notification delivery. When NATS is absent,
// notifications only go to the log.
type NotifyConfig struct {
	NATS *NATSNotifyConfig `yaml:"nats,omitempty"`
}

// NATSNotifyConfig publishes notifications on a NATS subject.
type NATSNotifyConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ServerConfig configures the status/metrics HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Pick up .env files first so ${VAR} expansion below sees them.
	// Missing files are fine.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Profile == "" {
		c.Profile = "default"
	}
	if c.Catalog == "" {
		c.Catalog = "catalog.yaml"
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 10 * time.Second
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "sqlite"
	}
	if c.Store.Path == "" {
		c.Store.Path = "croptrack.db"
	}
	if c.Store.Bucket == "" {
		c.Store.Bucket = "croptrack-samples"
	}
	if c.Gateway.Timeout <= 0 {
		c.Gateway.Timeout = 10 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8094"
	}
}

// Validate checks invariants the loader cannot default away.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "sqlite", "memory":
	case "nats":
		if c.Store.URL == "" {
			return fmt.Errorf("store: nats backend requires a url")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	if c.Notify.NATS != nil {
		if c.Notify.NATS.URL == "" {
			return fmt.Errorf("notify: nats requires a url")
		}
		if c.Notify.NATS.Subject == "" {
			return fmt.Errorf("notify: nats requires a subject")
		}
	}
	return nil
}

// DefaultYAML is the starter configuration written by `croptrack init`.
const DefaultYAML = `# croptrack configuration
profile: default
catalog: catalog.yaml

poll:
  interval: 10s

store:
  backend: sqlite
  path: croptrack.db

gateway:
  url: http://localhost:9090/state
  timeout: 10s

# notify:
#   nats:
#     url: nats://localhost:4222
#     subject: croptrack.notifications

server:
  addr: :8094
`
