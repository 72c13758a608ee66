// Package config handles bibliography project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents project configuration stored in .bibfold/config.yml.
type Config struct {
	BibFile   string `yaml:"bib_file,omitempty"`   // Path to the BibTeX document, relative to the project root
	OutDir    string `yaml:"out_dir,omitempty"`    // Directory for generated HTML pages
	Title     string `yaml:"title,omitempty"`      // Bibliography page title
	PageSize  int    `yaml:"page_size,omitempty"`  // Max entries per HTML page, 0 = single page
	OpenYears *int   `yaml:"open_years,omitempty"` // Year groups rendered expanded; explicit 0 collapses all
	Mailto    string `yaml:"mailto,omitempty"`     // Contact address for DOI resolver requests
}

const (
	BibfoldDir = ".bibfold"
	ConfigFile = "config.yml"
	CacheDir   = "cache"
	DBFile     = "entries.db"
)

// Default values applied when the config file is absent or partial.
const (
	DefaultBibFile   = "references.bib"
	DefaultOutDir    = "html"
	DefaultTitle     = "Bibliography"
	DefaultOpenYears = 3
)

// BibfoldPath returns the path to the .bibfold directory from a root path.
func BibfoldPath(root string) string {
	return filepath.Join(root, BibfoldDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, BibfoldDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, BibfoldDir, CacheDir)
}

// DBPath returns the path to entries.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, BibfoldDir, CacheDir, DBFile)
}

// IsProject checks if the given path contains a bibfold project.
func IsProject(root string) bool {
	info, err := os.Stat(BibfoldPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a bibfold project.
// Returns the project root path or an error if not found.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a bibfold project (no .bibfold directory found)")
		}
		abs = parent
	}
}

// defaults fills unset fields in place. OpenYears is a pointer so an
// explicit open_years: 0 (all groups collapsed) is distinguishable
// from the key being absent.
func (c *Config) defaults() {
	if c.BibFile == "" {
		c.BibFile = DefaultBibFile
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.OpenYears == nil {
		n := DefaultOpenYears
		c.OpenYears = &n
	}
}

// Load reads configuration from the project at the given root.
// A missing config file yields the defaults, not an error.
func Load(root string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.defaults()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.defaults()
	return &cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
