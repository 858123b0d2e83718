package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AlertConfig holds the user's alerting toggles. Sound and desktop
// notifications are gated independently.
type AlertConfig struct {
	EnableSound   bool `mapstructure:"enable_sound" yaml:"enable_sound"`
	EnableDesktop bool `mapstructure:"enable_desktop" yaml:"enable_desktop"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// FilterConfig is the persisted form of the filter selections: four
// parallel string arrays, one per dimension.
type FilterConfig struct {
	Organizations []string `mapstructure:"organizations" yaml:"organizations"`
	Repositories  []string `mapstructure:"repositories" yaml:"repositories"`
	SubjectTypes  []string `mapstructure:"subject_types" yaml:"subject_types"`
	Reasons       []string `mapstructure:"reasons" yaml:"reasons"`
}

// Criteria converts the persisted filter selections into filter criteria.
func (f FilterConfig) Criteria() Criteria {
	c := Criteria{
		Organizations: append([]string(nil), f.Organizations...),
		Repositories:  append([]string(nil), f.Repositories...),
	}
	for _, s := range f.SubjectTypes {
		c.SubjectTypes = append(c.SubjectTypes, SubjectType(s))
	}
	for _, r := range f.Reasons {
		c.Reasons = append(c.Reasons, Reason(r))
	}
	return c
}

// FilterConfigFrom converts filter criteria into its persisted form.
func FilterConfigFrom(c Criteria) FilterConfig {
	f := FilterConfig{
		Organizations: append([]string(nil), c.Organizations...),
		Repositories:  append([]string(nil), c.Repositories...),
	}
	for _, s := range c.SubjectTypes {
		f.SubjectTypes = append(f.SubjectTypes, string(s))
	}
	for _, r := range c.Reasons {
		f.Reasons = append(f.Reasons, string(r))
	}
	return f
}

// AppConfig is the top-level application configuration persisted between
// runs: refresh cadence, alert toggles, theme, and filter selections.
type AppConfig struct {
	// RefreshIntervalMin is the background refresh cadence in minutes.
	RefreshIntervalMin int `mapstructure:"refresh_interval_min" yaml:"refresh_interval_min"`

	Alerts  AlertConfig   `mapstructure:"alerts" yaml:"alerts"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Filters FilterConfig  `mapstructure:"filters" yaml:"filters"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/hubtray/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "hubtray", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		RefreshIntervalMin: 5,
		Alerts: AlertConfig{
			EnableSound:   true,
			EnableDesktop: true,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("refresh_interval_min", 5)
	v.SetDefault("alerts.enable_sound", true)
	v.SetDefault("alerts.enable_desktop", true)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.RefreshIntervalMin <= 0 {
		cfg.RefreshIntervalMin = 5
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. Partial updates are expressed as
// load, modify, save.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("refresh_interval_min", cfg.RefreshIntervalMin)
	v.Set("alerts", cfg.Alerts)
	v.Set("display", cfg.Display)
	v.Set("filters", cfg.Filters)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
