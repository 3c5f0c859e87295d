package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oakwood-commons/jvx/internal/config"
)

// Exit statuses returned by ExitCode.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

// exitError carries the process status for an error.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }

func (e exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func runtimeErr(err error) error {
	if err == nil {
		return nil
	}
	var ee exitError
	if errors.As(err, &ee) {
		return err
	}
	return exitError{code: ExitRuntime, err: err}
}

// ExitCode maps an error returned by Execute to a process exit status:
// 0 on success, 2 for invalid flags or configuration, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var themeErr themeSelectionError
	if errors.As(err, &themeErr) || errors.Is(err, config.ErrInvalid) {
		return ExitUsage
	}
	// Cobra reports unknown commands and bad arguments as plain errors.
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "accepts at most") {
		return ExitUsage
	}
	return ExitRuntime
}

// PrintError writes err to w, giving theme errors their multi-line form.
func PrintError(w io.Writer, err error) {
	printThemeSelectionError(w, err)
}

type themeSelectionError struct {
	Selected     string
	Available    []string
	DefaultTheme string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q\navailable themes: %v\ndefault theme: %s", e.Selected, e.Available, e.DefaultTheme)
}

func defaultThemeName(cfg config.Config) string {
	if name := strings.TrimSpace(cfg.Theme.Default); name != "" {
		return name
	}
	return "dark"
}

// applyThemeFromConfig selects the theme named on the command line, or the
// configured default when the flag is unset.
func applyThemeFromConfig(cfg *config.Config, cliTheme string, themeFlagSet bool) error {
	selected := strings.TrimSpace(cliTheme)
	if !themeFlagSet || selected == "" {
		selected = defaultThemeName(*cfg)
	}
	if _, ok := cfg.Themes[selected]; ok {
		cfg.Theme.Default = selected
		return nil
	}
	if !themeFlagSet {
		// A config naming a missing theme falls back to the first one defined.
		if names := cfg.ThemeNames(); len(names) > 0 {
			cfg.Theme.Default = names[0]
			return nil
		}
	}
	return themeSelectionError{Selected: selected, Available: cfg.ThemeNames(), DefaultTheme: defaultThemeName(*cfg)}
}

func printThemeSelectionError(w io.Writer, err error) {
	var themeErr themeSelectionError
	if errors.As(err, &themeErr) {
		fmt.Fprintf(w, "unknown theme %q\n", themeErr.Selected)
		fmt.Fprintf(w, "available themes: %v\n", themeErr.Available)
		fmt.Fprintf(w, "default theme: %s\n", themeErr.DefaultTheme)
		return
	}
	fmt.Fprintln(w, err)
}
