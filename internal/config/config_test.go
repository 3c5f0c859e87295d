package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "jvx", cfg.App.Name)
	assert.Equal(t, 2, cfg.Display.IndentWidth)
	assert.True(t, cfg.Display.ShowValues)
	assert.Equal(t, "unicode", cfg.Display.Glyphs)
	assert.Equal(t, -1, cfg.Behavior.InitialExpandDepth)
	assert.Equal(t, "vim", cfg.Behavior.KeyMode)
	assert.Equal(t, 200, cfg.Behavior.WatchDebounceMs)
	assert.Equal(t, "all", cfg.Search.Scope)
	assert.Equal(t, []string{"dark", "light", "mono"}, cfg.ThemeNames())

	name, th := cfg.ActiveTheme()
	assert.Equal(t, "dark", name)
	assert.Equal(t, "81", th.Key)
	assert.Equal(t, "244", th.Null)
}

func TestDefaultConfigYAMLIsCopy(t *testing.T) {
	a := DefaultConfigYAML()
	a[0] = 'X'
	assert.NotEqual(t, a[0], DefaultConfigYAML()[0])
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
display:
  indent_width: 4
behavior:
  initial_expand_depth: 2
theme:
  default: light
themes:
  custom:
    key: "#ff00ff"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Display.IndentWidth)
	assert.True(t, cfg.Display.ShowValues, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Behavior.InitialExpandDepth)
	assert.Equal(t, "vim", cfg.Behavior.KeyMode)
	assert.Equal(t, []string{"custom", "dark", "light", "mono"}, cfg.ThemeNames())
	name, _ := cfg.ActiveTheme()
	assert.Equal(t, "light", name)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("display:\n  indnet_width: 3\n"), 0o600))
	_, err = Load(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indnet_width")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("search:\n  scope: paths\n"), 0o600))
	_, err = Load(invalid)
	require.ErrorIs(t, err, ErrInvalid)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	cfg, err := Load(empty)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Display.IndentWidth)
}

func TestValidate(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "negative indent", mutate: func(c *Config) { c.Display.IndentWidth = -1 }, want: "indent_width"},
		{name: "negative max length", mutate: func(c *Config) { c.Display.MaxValueLength = -5 }, want: "max_value_length"},
		{name: "bad glyphs", mutate: func(c *Config) { c.Display.Glyphs = "emoji" }, want: "display.glyphs"},
		{name: "bad key mode", mutate: func(c *Config) { c.Behavior.KeyMode = "nano" }, want: "key_mode"},
		{name: "bad depth", mutate: func(c *Config) { c.Behavior.InitialExpandDepth = -2 }, want: "initial_expand_depth"},
		{name: "bad scope", mutate: func(c *Config) { c.Search.Scope = "paths" }, want: "search.scope"},
		{name: "unknown theme", mutate: func(c *Config) { c.Theme.Default = "neon" }, want: "neon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Themes = base.Themes
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, "", ResolvePath(""))

	path := filepath.Join(xdg, "jvx", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}
