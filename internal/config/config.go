// Package config loads and validates the translations.yaml build
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config represents the full build configuration.
type Config struct {
	Languages  []string     `yaml:"languages"`
	Common     CommonConfig `yaml:"common"`
	Dashboards []Dashboard  `yaml:"dashboards"`
	Output     OutputConfig `yaml:"output"`
	Watch      WatchConfig  `yaml:"watch"`
	State      StateConfig  `yaml:"state"`
}

// CommonConfig locates the translations shared by every dashboard.
type CommonConfig struct {
	Path string `yaml:"path"`
}

// Dashboard describes one dashboard whose specific translations overlay the
// common set.
type Dashboard struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// OutputConfig controls the formatting of generated files.
type OutputConfig struct {
	Indent int `yaml:"indent"`
}

// WatchConfig configures daemon mode. Durations are Go duration strings
// ("2s", "15m") so they can be written naturally in YAML.
type WatchConfig struct {
	Debounce        string `yaml:"debounce"`
	RebuildInterval string `yaml:"rebuild_interval"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

// DebounceDuration returns the parsed debounce window. Validate guarantees
// the value parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// RebuildIntervalDuration returns the parsed periodic rebuild interval.
func (w WatchConfig) RebuildIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(w.RebuildInterval)
	return d
}

// StateConfig locates the build-state database.
type StateConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from the specified file, loading .env first and
// expanding ${VAR} references in the YAML content.
func Load(configPath string) (*Config, error) {
	// .env is optional; ignore a missing file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Languages) == 0 {
		c.Languages = []string{"fr", "en"}
	}
	if c.Output.Indent == 0 {
		c.Output.Indent = 4
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "2s"
	}
	if c.Watch.RebuildInterval == "" {
		c.Watch.RebuildInterval = "15m"
	}
	if c.State.Path == "" {
		c.State.Path = ".translations-builder/state.db"
	}
}

// Validate checks the configuration for problems that would make a build
// meaningless.
func (c *Config) Validate() error {
	if c.Common.Path == "" {
		return fmt.Errorf("common.path must be set")
	}
	if len(c.Dashboards) == 0 {
		return fmt.Errorf("at least one dashboard must be configured")
	}

	seen := make(map[string]bool, len(c.Dashboards))
	for i, d := range c.Dashboards {
		if d.Name == "" {
			return fmt.Errorf("dashboard %d: name must not be empty", i)
		}
		if d.Path == "" {
			return fmt.Errorf("dashboard %q: path must not be empty", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate dashboard name: %s", d.Name)
		}
		seen[d.Name] = true
	}

	for _, lang := range c.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("invalid language code %q: %w", lang, err)
		}
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative")
	}

	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce: %w", err)
	}
	if _, err := time.ParseDuration(c.Watch.RebuildInterval); err != nil {
		return fmt.Errorf("invalid watch.rebuild_interval: %w", err)
	}
	return nil
}

// ReferenceLanguage returns the language other languages are checked
// against: the first configured one.
func (c *Config) ReferenceLanguage() string {
	return c.Languages[0]
}

const exampleConfig = `# translations-builder configuration
languages: [fr, en]

common:
  path: cell_culture_app_core

dashboards:
  - name: Fermentalg
    path: fermentalg_dashboard/_fermentalg_dashboard_core
  - name: Biolector
    path: biolector_dashboard/_biolector_dashboard_core

output:
  indent: 4

watch:
  debounce: 2s
  rebuild_interval: 15m
  metrics_addr: ""   # set to e.g. :9090 to expose Prometheus metrics in watch mode

state:
  path: .translations-builder/state.db
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o644)
}
