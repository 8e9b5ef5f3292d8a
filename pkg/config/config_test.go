package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate_TLSWithoutKeyStore(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.TLS = true
	cfg.Server.TLSPort = 8443

	err := cfg.Validate()
	if !errors.Is(err, ErrKeyStorePathRequired) {
		t.Errorf("Validate() error = %v, want ErrKeyStorePathRequired", err)
	}
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		tlsPort int
	}{
		{"port below sentinel", -2, Disabled},
		{"tls port below sentinel", 8080, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Server.Port = tt.port
			cfg.Server.TLSPort = tt.tlsPort

			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error for invalid port")
			}
		})
	}
}

func TestConfig_Validate_MetricsWithoutPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty metrics path")
	}
}

func TestServerConfig_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		tlsPort int
		want    bool
	}{
		{"both disabled", -1, -1, false},
		{"plain only", 8080, -1, true},
		{"tls only", -1, 8443, true},
		{"both", 8080, 8443, true},
		{"ephemeral port", 0, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ServerConfig{Port: tt.port, TLSPort: tt.tlsPort}
			if got := cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/non/existent/config.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.TLSPort != Disabled {
		t.Errorf("Expected tls port disabled, got %d", cfg.Server.TLSPort)
	}
	if cfg.CORS.PathSpec != "/*" {
		t.Errorf("Expected default CORS path spec /*, got %q", cfg.CORS.PathSpec)
	}
}

func TestLoad_ValidYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: "127.0.0.1"
  port: -1
  tls: true
  tls_port: 9443
  keystore_path: "/etc/ssl/server.p12"
  keystore_password: "changeit"
  need_client_auth: true
  send_server_version: true
logging:
  level: "debug"
  format: "text"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != Disabled {
		t.Errorf("Expected port -1, got %d", cfg.Server.Port)
	}
	if !cfg.Server.TLS || cfg.Server.TLSPort != 9443 {
		t.Errorf("Expected tls on 9443, got tls=%v port=%d", cfg.Server.TLS, cfg.Server.TLSPort)
	}
	if cfg.Server.KeyStorePath != "/etc/ssl/server.p12" {
		t.Errorf("Unexpected keystore path %s", cfg.Server.KeyStorePath)
	}
	if !cfg.Server.NeedClientAuth || !cfg.Server.SendServerVersion {
		t.Error("Expected client auth and server version to be enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected logging level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTPFACTORY_SERVER_PORT", "9090")
	t.Setenv("HTTPFACTORY_SERVER_SEND_SERVER_VERSION", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090 from env, got %d", cfg.Server.Port)
	}
	if !cfg.Server.SendServerVersion {
		t.Error("Expected send_server_version from env")
	}
}

func TestLoad_TLSWithoutKeyStoreFails(t *testing.T) {
	t.Setenv("HTTPFACTORY_SERVER_TLS", "true")
	t.Setenv("HTTPFACTORY_SERVER_TLS_PORT", "8443")

	_, err := Load("")
	if !errors.Is(err, ErrKeyStorePathRequired) {
		t.Errorf("Load() error = %v, want ErrKeyStorePathRequired", err)
	}
}

func TestLoad_MetricsPathFromEnv(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default /metrics", cfg.Metrics.Path)
	}

	t.Setenv("HTTPFACTORY_METRICS_ENABLED", "true")
	t.Setenv("HTTPFACTORY_METRICS_PATH", "/internal/metrics")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/internal/metrics" {
		t.Errorf("Metrics = %+v, want enabled at /internal/metrics", cfg.Metrics)
	}
}
