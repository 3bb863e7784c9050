// Package config loads the utility's configuration from its YAML file, with
// environment variables taking precedence over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the utility. The zero value selects the
// built-in defaults everywhere.
type Config struct {
	// SmartctlPath overrides the smartctl binary location.
	SmartctlPath string `yaml:"smartctl_path" validate:"omitempty,filepath"`

	// LsblkPath overrides the lsblk binary location.
	LsblkPath string `yaml:"lsblk_path" validate:"omitempty,filepath"`

	// Sudo runs SMART reads through sudo so the utility itself can stay
	// unprivileged.
	Sudo bool `yaml:"sudo"`

	// Encoding is the IANA name of the character set used to decode label
	// and model text. Empty means UTF-8.
	Encoding string `yaml:"encoding"`

	// DatabasePath overrides the inventory database location.
	DatabasePath string `yaml:"database_path" validate:"omitempty,filepath"`

	// LogLevel is the logrus level name for non-verbose runs.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
}

var structValidator = validator.New()

// Load reads the configuration. An explicit path must exist and parse; with
// no path the default locations are tried in order and a host without any
// config file gets the built-in defaults. Environment variables override
// whatever the file said.
func Load(path string) (*Config, error) {
	// A .env next to the working directory feeds the same variables during
	// development; missing is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, candidate := range defaultLocations() {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := readFile(candidate, cfg); err != nil {
				return nil, err
			}
			break
		}
	}

	applyEnv(cfg)

	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return nil, fmt.Errorf("config: invalid %s: fails %q", strings.ToLower(e.StructField()), e.Tag())
		}
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func defaultLocations() []string {
	candidates := []string{"/etc/diskinfo/config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "diskinfo", "config.yaml"))
	}
	return candidates
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DISKINFO_SMARTCTL_PATH"); v != "" {
		cfg.SmartctlPath = v
	}
	if v := os.Getenv("DISKINFO_LSBLK_PATH"); v != "" {
		cfg.LsblkPath = v
	}
	if v, ok := os.LookupEnv("DISKINFO_SUDO"); ok {
		cfg.Sudo = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("DISKINFO_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := os.Getenv("DISKINFO_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("DISKINFO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Database returns the inventory database path, falling back to the per-user
// default when the configuration does not name one.
func (c *Config) Database() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "diskinfo.db"
	}
	return filepath.Join(home, ".local", "share", "diskinfo", "inventory.db")
}
