package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Simulation SimulationConfig `yaml:"simulation"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug/release
}

// StorageConfig locates the JSON snapshot directory.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`
}

// DirectoryConfig configures the external user-lookup fallback.
type DirectoryConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// SimulationConfig controls the simulated runtime: metric tick cadence and
// provisioning delays for start/stop transitions.
type SimulationConfig struct {
	MetricInterval string `yaml:"metric_interval"`
	StartDelay     string `yaml:"start_delay"`
	StopDelay      string `yaml:"stop_delay"`
}

// AlertsConfig configures the scheduled threshold sweep.
type AlertsConfig struct {
	SweepSchedule string `yaml:"sweep_schedule"` // cron expression
}

// AuthConfig holds token signing configuration.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenExpiry string `yaml:"token_expiry"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080", Mode: "release"},
		Storage:    StorageConfig{DataDir: "data", LogFile: "data/cloudpanel.log"},
		Directory:  DirectoryConfig{BaseURL: "https://jsonplaceholder.typicode.com", Timeout: "10s"},
		Simulation: SimulationConfig{MetricInterval: "5s", StartDelay: "3s", StopDelay: "2s"},
		Alerts:     AlertsConfig{SweepSchedule: "@every 1m"},
		Auth:       AuthConfig{JWTSecret: "", TokenExpiry: "24h"},
	}
}

// LoadConfig loads configuration from a YAML file, layered over defaults.
// A missing file returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseDuration parses a duration field, falling back when empty/invalid.
func ParseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
