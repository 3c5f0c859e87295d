package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jvx/internal/config"
)

func TestConfigCommandPrintsMergedYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "display:\n  indent_width: 4\ntheme:\n  default: mono\n")
	out := runCLI(t, "config", "--config-file", path)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 4, cfg.Display.IndentWidth)
	assert.Equal(t, "mono", cfg.Theme.Default)
	assert.Equal(t, "vim", cfg.Behavior.KeyMode, "defaults survive the merge")
	assert.Contains(t, cfg.Themes, "dark")
}

func TestConfigThemes(t *testing.T) {
	out := runCLI(t, "config", "themes")
	assert.Equal(t, "* dark\n  light\n  mono\n", out)
}

func TestConfigFromXDG(t *testing.T) {
	resetRootCmdState(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jvx"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jvx", "config.yaml"), []byte("display:\n  indent_width: 3\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config"})
	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "indent_width: 3")
}

func TestInvalidConfigFileIsUsageError(t *testing.T) {
	path := writeFile(t, "config.yaml", "display:\n  glyphs: sparkles\n")
	doc := writeFile(t, "doc.json", `{}`)
	_, err := runCLIErr(t, doc, "--config-file", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestMissingConfigFile(t *testing.T) {
	doc := writeFile(t, "doc.json", `{}`)
	_, err := runCLIErr(t, doc, "--config-file", "/nonexistent/jvx.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestApplyFlagOverridesOnlyChanged(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntVar(&indentWidth, "indent", 2, "")
	fs.BoolVar(&noValues, "no-values", false, "")
	fs.StringVar(&glyphs, "glyphs", "unicode", "")
	fs.StringVar(&searchScope, "search-scope", "", "")
	fs.IntVar(&expandDepth, "expand-depth", -1, "")
	t.Cleanup(func() {
		indentWidth, noValues, glyphs, searchScope, expandDepth = 2, false, "unicode", "", -1
	})

	cfg.Display.Glyphs = "ascii"
	require.NoError(t, fs.Parse([]string{"--indent", "8", "--no-values", "--search-scope", "keys", "--expand-depth", "2"}))
	applyFlagOverrides(fs, &cfg)

	assert.Equal(t, 8, cfg.Display.IndentWidth)
	assert.False(t, cfg.Display.ShowValues)
	assert.Equal(t, "keys", cfg.Search.Scope)
	assert.Equal(t, 2, cfg.Behavior.InitialExpandDepth)
	assert.Equal(t, "ascii", cfg.Display.Glyphs, "unset flags keep file values")
}

func TestApplyThemeFromConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	require.NoError(t, applyThemeFromConfig(&cfg, "light", true))
	assert.Equal(t, "light", cfg.Theme.Default)

	require.NoError(t, applyThemeFromConfig(&cfg, "ignored", false), "unset flag keeps the configured theme")
	assert.Equal(t, "light", cfg.Theme.Default)

	err = applyThemeFromConfig(&cfg, "neon", true)
	var themeErr themeSelectionError
	require.True(t, errors.As(err, &themeErr))
	assert.Equal(t, "neon", themeErr.Selected)
	assert.Equal(t, []string{"dark", "light", "mono"}, themeErr.Available)
}

func TestApplyThemeFallsBackWhenDefaultMissing(t *testing.T) {
	cfg := config.Config{Themes: map[string]config.ThemeConfig{"zen": {}, "calm": {}}}
	require.NoError(t, applyThemeFromConfig(&cfg, "", false))
	assert.Equal(t, "calm", cfg.Theme.Default)
}

func TestWriteConfigYAMLRoundTrip(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, writeConfigYAML(&sb, cfg))

	var back config.Config
	require.NoError(t, yaml.Unmarshal([]byte(sb.String()), &back))
	assert.Equal(t, cfg, back)
}
