package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/ui"
	"github.com/oakwood-commons/jvx/pkg/logger"
	"github.com/oakwood-commons/jvx/pkg/loader"
)

type loaderFormat = loader.Format

// configLoader centralizes config loading so tests can swap the source of defaults.
type configLoader struct {
	load func(path string) (config.Config, error)
}

var cfgLoader = configLoader{load: config.Load}

func loadMergedConfig(cfgPath string) (config.Config, error) {
	cfg, err := cfgLoader.load(cfgPath)
	if err != nil {
		return cfg, exitError{code: ExitUsage, err: err}
	}
	return cfg, nil
}

// loadConfigState loads the merged configuration, applies command-line
// overrides and the theme selection, then validates the result.
func loadConfigState(path string, flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := loadMergedConfig(path)
	if err != nil {
		return cfg, err
	}
	applyFlagOverrides(flags, &cfg)
	themeSet := flags.Changed("theme")
	if err := applyThemeFromConfig(&cfg, themeName, themeSet); err != nil {
		return cfg, exitError{code: ExitUsage, err: err}
	}
	if err := formatter.ValidateGlyphStyle(cfg.Display.Glyphs); err != nil {
		return cfg, usageErr("%v", err)
	}
	if cfg.Behavior.KeyMode != "" && !ui.IsValidKeyMode(cfg.Behavior.KeyMode) {
		return cfg, usageErr("invalid --keymap %q: valid values are vim, emacs, function", cfg.Behavior.KeyMode)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, exitError{code: ExitUsage, err: err}
	}
	lgr := logger.FromContext(rootCtx)
	lgr.V(1).Info("configuration loaded", "path", path, "theme", cfg.Theme.Default, "flags", changedFlags(flags))
	return cfg, nil
}

// applyFlagOverrides copies flags the user set explicitly over the file
// configuration. Unset flags keep the configured values.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("indent") {
		cfg.Display.IndentWidth = indentWidth
	}
	if flags.Changed("tabs") {
		cfg.Display.UseTabs = useTabs
	}
	if flags.Changed("array-indices") {
		cfg.Display.ShowArrayIndices = arrayIndices
	}
	if flags.Changed("no-values") {
		cfg.Display.ShowValues = !noValues
	}
	if flags.Changed("max-value-length") {
		cfg.Display.MaxValueLength = maxValueLength
	}
	if flags.Changed("glyphs") {
		cfg.Display.Glyphs = glyphs
	}
	if flags.Changed("line-numbers") {
		cfg.Display.LineNumbers = lineNumbers
	}
	if flags.Changed("expand-depth") {
		cfg.Behavior.InitialExpandDepth = expandDepth
	}
	if flags.Changed("keymap") {
		cfg.Behavior.KeyMode = keyMode
	}
	if flags.Changed("search-scope") {
		cfg.Search.Scope = searchScope
	}
}

func parseInputFormat(name string) (loader.Format, error) {
	f, err := loader.ParseFormat(name)
	if err != nil {
		return "", usageErr("%v", err)
	}
	return f, nil
}

// configCmd groups configuration-related subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged jvx configuration",
	Long:  "Print the embedded defaults merged with the user config file as YAML.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadMergedConfig(config.ResolvePath(configFile))
		if err != nil {
			return err
		}
		return writeConfigYAML(cmd.OutOrStdout(), cfg)
	},
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadMergedConfig(config.ResolvePath(configFile))
		if err != nil {
			return err
		}
		def := defaultThemeName(cfg)
		for _, name := range cfg.ThemeNames() {
			marker := "  "
			if name == def {
				marker = "* "
			}
			fmt.Fprintln(cmd.OutOrStdout(), marker+name)
		}
		return nil
	},
}

func writeConfigYAML(w io.Writer, cfg config.Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
