// Package config holds the settings read from advfind's YAML file.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/advfind/internal/dom"
	"github.com/kk-code-lab/advfind/internal/search"
)

const (
	DefaultDebounce = 150 * time.Millisecond
	DefaultTabWidth = 4
	maxDebounce     = 5 * time.Second
)

// Config is the on-disk configuration. Zero fields fall back to defaults.
type Config struct {
	MaxMatches     int           `yaml:"max_matches"`
	Debounce       time.Duration `yaml:"debounce"`
	HighlightClass string        `yaml:"highlight_class"`
	ActiveClass    string        `yaml:"active_class"`
	SkipTags       []string      `yaml:"skip_tags"`
	LogFile        string        `yaml:"log_file"`
	TabWidth       int           `yaml:"tab_width"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxMatches:     search.MaxMatches,
		Debounce:       DefaultDebounce,
		HighlightClass: dom.DefaultHighlightClass,
		ActiveClass:    dom.DefaultActiveClass,
		SkipTags:       append([]string(nil), dom.DefaultSkipTags...),
		TabWidth:       DefaultTabWidth,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/advfind/config.yaml, falling back to the
// user config directory.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		base = dir
	}
	return filepath.Join(base, "advfind", "config.yaml")
}

// Load reads url through afs. A missing file yields the defaults; a file that
// exists but does not parse is an error.
func Load(ctx context.Context, fs afs.Service, url string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(url) == "" {
		return cfg, nil
	}
	if fs == nil {
		fs = afs.New()
	}
	ok, err := fs.Exists(ctx, url)
	if err != nil {
		return cfg, fmt.Errorf("check config %s: %w", url, err)
	}
	if !ok {
		return cfg, nil
	}
	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", url, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	def := Default()
	if c.MaxMatches <= 0 || c.MaxMatches > search.MaxMatches {
		c.MaxMatches = def.MaxMatches
	}
	if c.Debounce < 0 || c.Debounce > maxDebounce {
		c.Debounce = def.Debounce
	}
	c.HighlightClass = strings.TrimSpace(c.HighlightClass)
	if c.HighlightClass == "" || strings.ContainsAny(c.HighlightClass, " \t\n") {
		c.HighlightClass = def.HighlightClass
	}
	c.ActiveClass = strings.TrimSpace(c.ActiveClass)
	if c.ActiveClass == "" || strings.ContainsAny(c.ActiveClass, " \t\n") || c.ActiveClass == c.HighlightClass {
		c.ActiveClass = def.ActiveClass
	}
	if c.SkipTags == nil {
		c.SkipTags = def.SkipTags
	}
	if c.TabWidth <= 0 {
		c.TabWidth = def.TabWidth
	}
	return c
}

// DocumentOptions maps the config onto dom options.
func (c Config) DocumentOptions(charset string) dom.Options {
	return dom.Options{
		HighlightClass: c.HighlightClass,
		ActiveClass:    c.ActiveClass,
		SkipTags:       c.SkipTags,
		Charset:        charset,
	}
}
