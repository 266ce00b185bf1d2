package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variables naming internal callers whose searches must not be
// recorded in the analytics log (monitoring and health-check probes).
const (
	EnvMonitorIP     = "SEARCHD_MONITOR_IP"
	EnvHealthCheckIP = "SEARCHD_HEALTHCHECK_IP"
)

type Config struct {
	DBPath     string `toml:"db_path"`
	ListenAddr string `toml:"listen_addr"`

	// DefaultLimit is used when a request carries no limit or an
	// out-of-range one; MaxLimit is the largest limit a caller may ask for.
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`

	// SubsearchTimeout bounds each per-entity query. A timed-out
	// sub-search counts as a failed one.
	SubsearchTimeout Duration `toml:"subsearch_timeout"`

	// PartialResults serves whatever sub-searches succeeded instead of
	// failing the whole request. Off by default: a search is
	// all-or-nothing unless explicitly configured otherwise.
	PartialResults bool `toml:"partial_results"`

	// SuppressedIPs lists caller addresses whose searches are never
	// logged, in addition to the two environment-provided ones.
	SuppressedIPs []string `toml:"suppressed_ips"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("getting default database path: %w", err)
	}
	return &Config{
		DBPath:           dbPath,
		ListenAddr:       "localhost:8080",
		DefaultLimit:     20,
		MaxLimit:         100,
		SubsearchTimeout: Duration{5 * time.Second},
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DBPath == "" {
		dbPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("getting default database path: %w", err)
		}
		config.DBPath = dbPath
	}
	if config.ListenAddr == "" {
		config.ListenAddr = "localhost:8080"
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 20
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	if config.SubsearchTimeout.Duration == 0 {
		config.SubsearchTimeout = Duration{5 * time.Second}
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dbPath := c.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDBPath()
		if err != nil {
			return "", fmt.Errorf("getting default database path: %w", err)
		}
	}

	// Replace the placeholder db_path with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/searchd/catalog.db", dbPath, 1)
	return template, nil
}

// SuppressedCallerIPs merges the config-listed addresses with the two
// environment-provided internal caller addresses. Empty entries are dropped.
func (c *Config) SuppressedCallerIPs() map[string]bool {
	ips := make(map[string]bool)
	for _, ip := range c.SuppressedIPs {
		if ip = strings.TrimSpace(ip); ip != "" {
			ips[ip] = true
		}
	}
	for _, env := range []string{EnvMonitorIP, EnvHealthCheckIP} {
		if ip := strings.TrimSpace(os.Getenv(env)); ip != "" {
			ips[ip] = true
		}
	}
	return ips
}

// GetDefaultStorageDir returns the default directory for the catalog database
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	searchdDir := filepath.Join(dataDir, "searchd")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(searchdDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", searchdDir, err)
	}

	return searchdDir, nil
}

// GetDefaultDBPath returns the default database path in the user's data directory
func GetDefaultDBPath() (string, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(storageDir, "catalog.db"), nil
}

// GetConfigDir returns the configuration directory for searchd
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	searchdConfigDir := filepath.Join(configDir, "searchd")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(searchdConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", searchdConfigDir, err)
	}

	return searchdConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
