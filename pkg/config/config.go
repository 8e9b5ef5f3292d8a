package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-http-factory/pkg/logging"
)

// Disabled is the port value that switches a connector off.
const Disabled = -1

// ErrKeyStorePathRequired is returned when TLS is requested without a keystore.
var ErrKeyStorePathRequired = errors.New("keystore path is required when tls is enabled")

// Config represents the application configuration
type Config struct {
	Server  ServerConfig   `yaml:"server" envconfig:"SERVER"`
	CORS    CORSConfig     `yaml:"cors" envconfig:"CORS"`
	Metrics MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
	Logging logging.Config `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig describes the listening behaviour of the embedded server.
// A port of -1 disables the corresponding connector.
type ServerConfig struct {
	Host              string `yaml:"host" envconfig:"HOST"`
	Port              int    `yaml:"port" envconfig:"PORT"`
	SendServerVersion bool   `yaml:"send_server_version" envconfig:"SEND_SERVER_VERSION"`
	H2C               bool   `yaml:"h2c" envconfig:"H2C"` // cleartext HTTP/2 on the plain connector

	TLS              bool   `yaml:"tls" envconfig:"TLS"`
	TLSPort          int    `yaml:"tls_port" envconfig:"TLS_PORT"`
	KeyStorePath     string `yaml:"keystore_path" envconfig:"KEYSTORE_PATH"`
	KeyStorePassword string `yaml:"keystore_password" envconfig:"KEYSTORE_PASSWORD"`
	NeedClientAuth   bool   `yaml:"need_client_auth" envconfig:"NEED_CLIENT_AUTH"`

	// Timeouts in seconds, zero keeps the server defaults
	ReadTimeout  int `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

// CORSConfig controls the cross-origin filter attached by the server binary
type CORSConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
	PathSpec string `yaml:"path_spec" envconfig:"PATH_SPEC"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	Path    string `yaml:"path"` // HTTPFACTORY_METRICS_PATH; a PATH tag would fall back to $PATH
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Missing file is fine, defaults and env vars apply
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Environment variables have the highest priority
	if err := envconfig.Process("HTTPFACTORY", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			TLSPort: Disabled,
		},
		CORS: CORSConfig{
			Enabled:  true,
			PathSpec: "/*",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate validates the configuration.
// Port ranges are left to the network stack at bind time.
func (c *Config) Validate() error {
	if c.Server.TLS && c.Server.KeyStorePath == "" {
		return ErrKeyStorePathRequired
	}

	if c.Server.Port < Disabled {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.TLSPort < Disabled {
		return fmt.Errorf("invalid tls port: %d", c.Server.TLSPort)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics path is required when metrics are enabled")
	}

	return nil
}

// Enabled reports whether at least one connector is configured.
func (c ServerConfig) Enabled() bool {
	return c.Port != Disabled || c.TLSPort != Disabled
}
