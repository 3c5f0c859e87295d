// Package tui is the public entry point for hosting the interactive viewer.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	jcel "github.com/oakwood-commons/jvx/internal/cel"
	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/highlight"
	"github.com/oakwood-commons/jvx/internal/transform"
	"github.com/oakwood-commons/jvx/internal/ui"
	"github.com/oakwood-commons/jvx/internal/watch"
	"github.com/oakwood-commons/jvx/pkg/core"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
	"github.com/oakwood-commons/jvx/pkg/loader"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr and stdin, then falling back to $COLUMNS and
// finally to 120x24.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// Config describes one viewer session.
type Config struct {
	// Settings is the merged file configuration. The zero value uses the
	// embedded defaults.
	Settings *config.Config
	NoColor  bool
	// Width and Height of 0 auto-detect the terminal size.
	Width  int
	Height int
	// Query is a CEL expression applied before the first frame.
	Query string
	// Search is a term searched before the first frame.
	Search string
	// StartKeys are simulated key presses applied before the first frame.
	StartKeys []string
	// WatchPath, when set, reloads the document whenever the file changes.
	WatchPath string
	// Format forces the decoder used on reload.
	Format loader.Format
	Logger logr.Logger
}

func (c Config) settings() (config.Config, error) {
	if c.Settings != nil {
		return *c.Settings, nil
	}
	return config.Default()
}

func (c Config) size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return w, h
}

// DisplayOptions converts the display section of a configuration.
func DisplayOptions(d config.DisplayConfig) core.DisplayOptions {
	glyphs := formatter.GlyphStyle(d.Glyphs)
	if glyphs == "" {
		glyphs = formatter.GlyphsNone
	}
	return core.DisplayOptions{
		IndentWidth:      d.IndentWidth,
		UseTabs:          d.UseTabs,
		ShowArrayIndices: d.ShowArrayIndices,
		HideValues:       !d.ShowValues,
		MaxValueLength:   d.MaxValueLength,
		Glyphs:           glyphs,
	}
}

// NewEngine builds a viewer engine for v from settings.
func NewEngine(v jsonvalue.Value, settings config.Config, theme ui.Theme, lgr logr.Logger) *core.Engine {
	scope := highlight.Scope(settings.Search.Scope)
	if scope == "" {
		scope = highlight.ScopeAll
	}
	return core.New(v,
		core.WithDisplay(DisplayOptions(settings.Display)),
		core.WithInitialExpandDepth(settings.Behavior.InitialExpandDepth),
		core.WithSearchScope(scope),
		core.WithPalette(theme.Palette),
		core.WithLogger(lgr),
	)
}

// Session is a configured model plus the resources it holds.
type Session struct {
	Model   *ui.Model
	watcher *watch.Watcher
	cancel  context.CancelFunc
}

// Close stops the watcher and any pending query.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// NewSession builds the model for v. The caller must Close the session.
func NewSession(ctx context.Context, v jsonvalue.Value, cfg Config) (*Session, error) {
	settings, err := cfg.settings()
	if err != nil {
		return nil, err
	}
	lgr := cfg.Logger
	theme := ui.ThemeFromSettings(settings, cfg.NoColor)
	engine := NewEngine(v, settings, theme, lgr)

	eval, err := jcel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	runner := transform.NewRunner(eval,
		transform.WithTimeout(time.Duration(settings.Behavior.QueryTimeoutMs)*time.Millisecond),
		transform.WithLogger(lgr),
	)

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{cancel: cancel}
	width, height := cfg.size()
	opts := ui.Options{
		Theme:         theme,
		KeyMode:       ui.KeyMode(settings.Behavior.KeyMode),
		LineNumbers:   settings.Display.LineNumbers,
		NoColor:       cfg.NoColor,
		Width:         width,
		Height:        height,
		Runner:        runner,
		InitialQuery:  cfg.Query,
		InitialSearch: cfg.Search,
		Logger:        lgr,
	}
	if cfg.WatchPath != "" {
		w, err := watch.New(cfg.WatchPath,
			watch.WithDebounce(time.Duration(settings.Behavior.WatchDebounceMs)*time.Millisecond),
			watch.WithLogger(lgr),
		)
		if err != nil {
			cancel()
			return nil, err
		}
		go w.Run(ctx)
		s.watcher = w
		path, format := cfg.WatchPath, cfg.Format
		opts.Events = w.Events()
		opts.Errors = w.Errors()
		opts.Reload = func(context.Context) (jsonvalue.Value, error) {
			return loadPath(path, format, lgr)
		}
	}
	s.Model = ui.NewModel(engine, opts).WithContext(ctx)
	ui.ApplyStartupKeys(s.Model, cfg.StartKeys)
	return s, nil
}

func loadPath(path string, format loader.Format, lgr logr.Logger) (jsonvalue.Value, error) {
	if format == "" || format == loader.FormatAuto {
		return loader.LoadFile(path, lgr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("read %s: %w", path, err)
	}
	return loader.LoadBytesAs(data, format, lgr)
}

// Run starts the interactive viewer for v and blocks until the user quits.
// Extra ProgramOptions (e.g. custom IO) are passed to tea.NewProgram.
func Run(ctx context.Context, v jsonvalue.Value, cfg Config, opts ...tea.ProgramOption) error {
	s, err := NewSession(ctx, v, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Width > 0 && cfg.Height > 0 {
		progOpts = append(progOpts, tea.WithWindowSize(cfg.Width, cfg.Height))
	}
	progOpts = append(progOpts, opts...)
	prog := tea.NewProgram(s.Model, progOpts...)
	_, err = prog.Run()
	return err
}

// Snapshot renders one frame of the viewer as text. The query, if any, is
// evaluated synchronously first. Plain output carries no ANSI styling.
func Snapshot(ctx context.Context, v jsonvalue.Value, cfg Config, plain bool) (string, error) {
	query := strings.TrimSpace(cfg.Query)
	cfg.Query = ""
	cfg.WatchPath = ""
	startKeys := cfg.StartKeys
	cfg.StartKeys = nil
	s, err := NewSession(ctx, v, cfg)
	if err != nil {
		return "", err
	}
	defer s.Close()
	if query != "" {
		if err := s.Model.ApplyQuery(query); err != nil {
			return "", err
		}
		if cfg.Search != "" {
			s.Model.Engine().SetSearch(cfg.Search, "")
		}
	}
	ui.ApplyStartupKeys(s.Model, startKeys)
	return s.Model.Snapshot(plain), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
