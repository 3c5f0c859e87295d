// Package config loads jvx settings. The embedded default_config.yaml is the
// single source of defaults; a user file is decoded on top of it.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration document.
type Config struct {
	App      AppConfig              `yaml:"app"`
	Display  DisplayConfig          `yaml:"display"`
	Behavior BehaviorConfig         `yaml:"behavior"`
	Search   SearchConfig           `yaml:"search"`
	Theme    ThemeSelection         `yaml:"theme"`
	Themes   map[string]ThemeConfig `yaml:"themes"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name  string `yaml:"name"`
	About string `yaml:"about"`
}

// DisplayConfig controls line formatting.
type DisplayConfig struct {
	IndentWidth      int    `yaml:"indent_width"`
	UseTabs          bool   `yaml:"use_tabs"`
	ShowArrayIndices bool   `yaml:"show_array_indices"`
	ShowValues       bool   `yaml:"show_values"`
	MaxValueLength   int    `yaml:"max_value_length"`
	Glyphs           string `yaml:"glyphs"`
	LineNumbers      bool   `yaml:"line_numbers"`
}

// BehaviorConfig controls interaction.
type BehaviorConfig struct {
	// InitialExpandDepth is -1 for everything, N > 0 to expand containers
	// whose level is below N. The root is always expanded.
	InitialExpandDepth int    `yaml:"initial_expand_depth"`
	KeyMode            string `yaml:"key_mode"`
	WatchDebounceMs    int    `yaml:"watch_debounce_ms"`
	QueryTimeoutMs     int    `yaml:"query_timeout_ms"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	Scope string `yaml:"scope"`
}

// ThemeSelection names the active theme.
type ThemeSelection struct {
	Default string `yaml:"default"`
}

// ThemeConfig holds color specs (ANSI 256 numbers or #rrggbb). An empty
// string leaves the terminal default.
type ThemeConfig struct {
	Key          string `yaml:"key"`
	String       string `yaml:"string"`
	Number       string `yaml:"number"`
	Bool         string `yaml:"bool"`
	Null         string `yaml:"null"`
	Brace        string `yaml:"brace"`
	Punct        string `yaml:"punct"`
	Index        string `yaml:"index"`
	Placeholder  string `yaml:"placeholder"`
	Text         string `yaml:"text"`
	Match        string `yaml:"match"`
	CurrentMatch string `yaml:"current_match"`
	CursorBG     string `yaml:"cursor_bg"`
	LineNumber   string `yaml:"line_number"`
	Gutter       string `yaml:"gutter"`
	StatusFG     string `yaml:"status_fg"`
	StatusBG     string `yaml:"status_bg"`
	StatusError  string `yaml:"status_error"`
	Prompt       string `yaml:"prompt"`
}

var (
	validGlyphs   = []string{"none", "unicode", "ascii"}
	validKeyModes = []string{"vim", "emacs", "function"}
	validScopes   = []string{"all", "keys", "values"}
)

// DefaultConfigYAML returns a copy of the embedded defaults.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := decodeInto(&cfg, embeddedDefaultConfig); err != nil {
		return Config{}, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// loads only the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(&cfg, data); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeInto merges data into cfg. Keys missing from data keep their value;
// unknown keys are rejected so typos surface.
func decodeInto(cfg *Config, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// ResolvePath picks the config file: the explicit path if given, else
// $XDG_CONFIG_HOME/jvx/config.yaml, else ~/.config/jvx/config.yaml. It
// returns "" when no candidate exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "jvx", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "jvx", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	var problems []string
	if c.Display.IndentWidth < 0 {
		problems = append(problems, fmt.Sprintf("display.indent_width must be non-negative, got %d", c.Display.IndentWidth))
	}
	if c.Display.MaxValueLength < 0 {
		problems = append(problems, fmt.Sprintf("display.max_value_length must be non-negative, got %d", c.Display.MaxValueLength))
	}
	if c.Display.Glyphs != "" && !contains(validGlyphs, c.Display.Glyphs) {
		problems = append(problems, fmt.Sprintf("display.glyphs %q: valid values are %s", c.Display.Glyphs, strings.Join(validGlyphs, ", ")))
	}
	if c.Behavior.KeyMode != "" && !contains(validKeyModes, c.Behavior.KeyMode) {
		problems = append(problems, fmt.Sprintf("behavior.key_mode %q: valid values are %s", c.Behavior.KeyMode, strings.Join(validKeyModes, ", ")))
	}
	if c.Behavior.InitialExpandDepth < -1 {
		problems = append(problems, fmt.Sprintf("behavior.initial_expand_depth must be -1 or greater, got %d", c.Behavior.InitialExpandDepth))
	}
	if c.Behavior.WatchDebounceMs < 0 {
		problems = append(problems, "behavior.watch_debounce_ms must be non-negative")
	}
	if c.Behavior.QueryTimeoutMs < 0 {
		problems = append(problems, "behavior.query_timeout_ms must be non-negative")
	}
	if c.Search.Scope != "" && !contains(validScopes, c.Search.Scope) {
		problems = append(problems, fmt.Sprintf("search.scope %q: valid values are %s", c.Search.Scope, strings.Join(validScopes, ", ")))
	}
	if c.Theme.Default != "" {
		if _, ok := c.Themes[c.Theme.Default]; !ok {
			problems = append(problems, fmt.Sprintf("theme.default %q is not defined; available: %s", c.Theme.Default, strings.Join(c.ThemeNames(), ", ")))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ThemeNames lists the configured themes in sorted order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveTheme returns the selected theme, falling back to the default.
func (c Config) ActiveTheme() (string, ThemeConfig) {
	name := c.Theme.Default
	if th, ok := c.Themes[name]; ok {
		return name, th
	}
	return name, ThemeConfig{}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
