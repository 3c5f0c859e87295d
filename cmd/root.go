package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/limiter"
	"github.com/oakwood-commons/jvx/pkg/logger"
	"github.com/oakwood-commons/jvx/pkg/settings"
	"github.com/oakwood-commons/jvx/pkg/tui"
)

// Output modes.
const (
	outputAuto = "auto"
	outputTUI  = "tui"
	outputJSON = "json"
	outputYAML = "yaml"
	outputTree = "tree"
)

var validOutputs = []string{outputAuto, outputTUI, outputJSON, outputYAML, outputTree}

var (
	configFile     string
	themeName      string
	keyMode        string
	indentWidth    int
	useTabs        bool
	arrayIndices   bool
	noValues       bool
	maxValueLength int
	glyphs         string
	lineNumbers    bool
	expandDepth    int
	searchTerm     string
	searchScope    string
	expression     string
	output         string
	arrayStyle     string
	inputFormat    string
	watchInput     bool
	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
	noColor        bool
	debug          bool
	logFile        string
	limitRecords   int
	offsetRecords  int
	tailRecords    int
)

// Seams for tests.
var (
	stdin        io.Reader = os.Stdin
	stdinIsPiped           = func() bool {
		stat, err := os.Stdin.Stat()
		return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
	}
	stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	runViewer        = tui.Run
	terminalOptions  = tui.TerminalOptions
)

var (
	rootCtx      = context.Background()
	logSinkClose = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "jvx - collapsible JSON viewer for the terminal",
	Long: `jvx opens a JSON, NDJSON, YAML, TOML or JWT document as a collapsible tree.
Navigate with the keyboard, fold and unfold containers, search keys and
values, and reshape the document with CEL expressions bound to '_'.

Without a file argument the document is read from standard input.`,
	Example: "\n  jvx testdata/sample.json\n  curl -s https://api.example.com/items | jvx\n  jvx config.yaml -e '_.servers.filter(s, s.enabled)'\n  jvx data.json -o tree\n  jvx data.json --snapshot --width 80 --height 20 --press '/name<CR>'\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var level int8
		if debug {
			level = -1
		}
		sink := io.Writer(os.Stderr)
		if willRunTUI() {
			// The alternate screen owns the terminal.
			sink = io.Discard
		}
		w, closeSink, err := logger.OpenSink(logFile, sink)
		if err != nil {
			return usageErr("%v", err)
		}
		logSinkClose = closeSink
		lgr := logger.Setup(logger.Options{Level: level, Sink: w})
		lgr = logger.WithValues(lgr, logger.CommandKey, cmd.Name())
		rootCtx = logger.WithLogger(cmd.Context(), lgr)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd, args)
	},
}

// willRunTUI reports whether this run ends in the interactive viewer.
func willRunTUI() bool {
	if renderSnapshot {
		return false
	}
	return resolveOutput(output) == outputTUI
}

// resolveOutput maps "auto" to the viewer on a terminal and JSON otherwise.
func resolveOutput(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" || mode == outputAuto {
		if stdoutIsTerminal() {
			return outputTUI
		}
		return outputJSON
	}
	return mode
}

func runRoot(cmd *cobra.Command, args []string) error {
	lgr := *logger.FromContext(rootCtx)

	limits := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
	if err := limits.Validate(); err != nil {
		return usageErr("record limiting error: %v", err)
	}
	if !contains(validOutputs, strings.ToLower(output)) {
		return usageErr("invalid --output %q: valid values are %s", output, strings.Join(validOutputs, ", "))
	}

	run := settings.NewCliParams()
	run.NoColor = noColor
	run.Snapshot = renderSnapshot
	run.LogFile = logFile
	run.ConfigPath = config.ResolvePath(configFile)
	run.Input.Format = inputFormat
	run.Input.Watch = watchInput
	if len(args) == 1 {
		run.Input.Path = args[0]
	}
	if debug {
		run.MinLogLevel = -1
	}
	ctx := settings.IntoContext(rootCtx, run)

	cfg, err := loadConfigState(run.ConfigPath, cmd.Flags())
	if err != nil {
		return err
	}
	format, err := parseInputFormat(run.Input.Format)
	if err != nil {
		return err
	}
	if run.Input.Watch && run.Input.FromStdin() {
		return usageErr("--watch needs a file argument")
	}

	v, err := loadInput(run.Input, format, lgr)
	if err != nil {
		if err == errShowHelp {
			return cmd.Help()
		}
		return err
	}
	v = limits.Apply(v)
	lgr.V(1).Info("input loaded", "path", run.Input.Path, "format", string(format), "kind", v.Kind().String())

	mode := resolveOutput(output)
	if run.Snapshot {
		return printSnapshot(ctx, cmd.OutOrStdout(), v, cfg)
	}
	if mode != outputTUI {
		return printDocument(ctx, cmd.OutOrStdout(), v, mode, cfg)
	}

	viewCfg := viewerConfig(cfg, run, format)
	opts, cleanup := terminalOptions()
	defer cleanup()
	if err := runViewer(ctx, v, viewCfg, opts...); err != nil {
		return runtimeErr(err)
	}
	return nil
}

// viewerConfig collects the session settings shared by the viewer and
// snapshots.
func viewerConfig(cfg config.Config, run *settings.Run, format loaderFormat) tui.Config {
	c := tui.Config{
		Settings:  &cfg,
		NoColor:   run.NoColor,
		Width:     snapshotWidth,
		Height:    snapshotHeight,
		Query:     expression,
		Search:    strings.TrimSpace(searchTerm),
		StartKeys: startKeys,
		Format:    format,
		Logger:    *logger.FromContext(rootCtx),
	}
	if run.Input.Watch {
		c.WatchPath = run.Input.Path
	}
	return c
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print jvx version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

// cliVersionString builds a human-readable version string for CLI output and Cobra's --version flag.
func cliVersionString() string {
	v := settings.VersionInformation
	s := fmt.Sprintf("%s %s (go %s)", settings.CliBinaryName, v.BuildVersion, strings.TrimPrefix(runtime.Version(), "go"))
	if v.Commit != "" && v.Commit != "unknown" {
		s += " commit " + v.Commit
	}
	if v.BuildTime != "" && v.BuildTime != "unknown" {
		s += " built " + v.BuildTime
	}
	return s
}

func init() { //nolint:gochecknoinits
	f := rootCmd.Flags()
	f.StringVar(&configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/jvx/config.yaml)")
	f.StringVar(&themeName, "theme", "", "theme name (default from config; see 'jvx config themes')")
	f.StringVar(&keyMode, "keymap", "", "keybinding mode: vim (default), emacs, or function")
	f.IntVar(&indentWidth, "indent", 2, "spaces per nesting level")
	f.BoolVar(&useTabs, "tabs", false, "indent with tabs")
	f.BoolVar(&arrayIndices, "array-indices", false, "prefix array elements with their index")
	f.BoolVar(&noValues, "no-values", false, "show primitive types instead of values")
	f.IntVar(&maxValueLength, "max-value-length", 0, "truncate long strings to this many columns (0 = unlimited)")
	f.StringVar(&glyphs, "glyphs", "unicode", "expand/collapse markers: unicode, ascii, or none")
	f.BoolVar(&lineNumbers, "line-numbers", true, "show line numbers")
	f.IntVar(&expandDepth, "expand-depth", -1, "expand containers above this depth on load (-1 = everything)")
	f.StringVar(&searchTerm, "search", "", "search keys and values (case-insensitive) on startup")
	f.StringVar(&searchScope, "search-scope", "", "search scope: all, keys, or values (default from config)")
	f.StringVarP(&expression, "expression", "e", "", "CEL expression using '_' as root. Examples: '_.items[0].name', '_.items.filter(x, x.available)'. For special keys use bracket notation: '_[\"bad-key\"]'.")
	f.StringVarP(&output, "output", "o", outputAuto, "output format: auto|tui|json|yaml|tree")
	f.StringVar(&arrayStyle, "array-style", "index", "array index style for tree output: index, numbered, bullet, none")
	f.StringVar(&inputFormat, "format", "auto", "input format: auto, json, yaml, toml, or jwt")
	f.BoolVarP(&watchInput, "watch", "w", false, "reload the viewer when the input file changes")
	f.BoolVar(&renderSnapshot, "snapshot", false, "render a single viewer frame and exit; honors --width/--height")
	f.StringArrayVar(&startKeys, "press", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <CR>, <Esc>, <C-d>, <F3>). Literal text types normally. Examples: --press \"/name<CR>\" or --press \":_.items[0]<CR>\"")
	f.IntVar(&snapshotWidth, "width", 0, "viewer width in columns (0 = terminal width)")
	f.IntVar(&snapshotHeight, "height", 0, "viewer height in rows (0 = terminal height)")
	f.BoolVar(&noColor, "no-color", false, "disable color output")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	f.IntVar(&limitRecords, "limit", 0, "Limit total number of records displayed")
	f.IntVar(&offsetRecords, "offset", 0, "Skip the first N records")
	f.IntVar(&tailRecords, "tail", 0, "Show the last N records (mutually exclusive with --limit; ignores --offset)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr("%v", err)
	})
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)

	configCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file")
	configCmd.AddCommand(configThemesCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command. Use ExitCode to map the error to a process
// exit status.
func Execute() error {
	err := rootCmd.Execute()
	logger.Sync()
	if cerr := logSinkClose(); cerr != nil && err == nil {
		err = runtimeErr(cerr)
	}
	logSinkClose = func() error { return nil }
	return err
}

// changedFlags lists the flags set on the command line, for debug logging.
func changedFlags(fs *pflag.FlagSet) []string {
	var out []string
	fs.Visit(func(f *pflag.Flag) { out = append(out, f.Name) })
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
