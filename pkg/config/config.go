package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the renderer.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatText     = "text"
)

// DefaultFileName is picked up automatically when --config is not set.
const DefaultFileName = "catalog-audit.yaml"

// Config is the root of catalog-audit.yaml.
type Config struct {
	Output      string    `yaml:"output"`
	Format      string    `yaml:"format"`
	Limit       int       `yaml:"limit"`
	TitleWidth  int       `yaml:"titleWidth"`
	SQLite      string    `yaml:"sqlite"`
	MetricsFile string    `yaml:"metricsFile"`
	Sections    []Section `yaml:"sections"`
}

// Section is one audited catalog and where its report goes.
type Section struct {
	Marker    string   `yaml:"marker"`
	Source    string   `yaml:"source"`
	Suppliers []string `yaml:"suppliers"`
	Format    string   `yaml:"format"`
	Limit     *int     `yaml:"limit"`
}

// Load reads and validates a config file. Defaults are applied for missing
// top-level values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = "README.md"
	}
	if c.Format == "" {
		c.Format = FormatMarkdown
	}
	if c.TitleWidth == 0 {
		c.TitleWidth = 50
	}
}

// Validate checks sections and formats.
func (c *Config) Validate() error {
	if !IsKnownFormat(c.Format) {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}

	markers := make(map[string]int, len(c.Sections))
	for i, s := range c.Sections {
		if s.Source == "" {
			return fmt.Errorf("section %d: source is required", i)
		}
		if s.Format != "" && !IsKnownFormat(s.Format) {
			return fmt.Errorf("section %d: unknown format %q", i, s.Format)
		}
		if s.Limit != nil && *s.Limit < 0 {
			return fmt.Errorf("section %d: limit must not be negative", i)
		}
		if s.Marker == "" {
			continue
		}
		if prev, dup := markers[s.Marker]; dup {
			return fmt.Errorf("section %d: marker %q already used by section %d", i, s.Marker, prev)
		}
		markers[s.Marker] = i
	}
	return nil
}

// ResolveFormat returns the section format, falling back to the global one.
func (c *Config) ResolveFormat(s Section) string {
	if s.Format != "" {
		return s.Format
	}
	return c.Format
}

// ResolveLimit returns the section display limit, falling back to the global one.
func (c *Config) ResolveLimit(s Section) int {
	if s.Limit != nil {
		return *s.Limit
	}
	return c.Limit
}

// ResolvePaths makes relative file paths absolute against dir.
func (c *Config) ResolvePaths(dir string) {
	c.Output = resolve(dir, c.Output)
	c.SQLite = resolve(dir, c.SQLite)
	c.MetricsFile = resolve(dir, c.MetricsFile)
	for i := range c.Sections {
		if c.Sections[i].Source != "-" {
			c.Sections[i].Source = resolve(dir, c.Sections[i].Source)
		}
	}
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// IsKnownFormat reports whether f is a supported output format.
func IsKnownFormat(f string) bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatJSON, FormatText:
		return true
	}
	return false
}
