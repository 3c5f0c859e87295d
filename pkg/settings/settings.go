// Package settings provides build metadata, per-run options and context
// helpers shared by the jvx command and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jvx"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings describes where the document comes from.
type InputSettings struct {
	// Path is the input file. Empty means standard input.
	Path string
	// Format forces a decoder ("json", "yaml", "toml", "jwt"); "auto" or
	// empty sniffs the content.
	Format string
	// Watch reloads the document when Path changes on disk.
	Watch bool
}

// FromStdin reports whether the document is read from standard input.
func (i InputSettings) FromStdin() bool {
	return i.Path == "" || i.Path == "-"
}

// Run holds the settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Input       InputSettings
	ConfigPath  string
	NoColor     bool
	IsQuiet     bool
	// Snapshot renders one frame to stdout instead of starting the
	// interactive viewer.
	Snapshot bool
}

// NewCliParams returns the defaults for a command-line run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Input: InputSettings{
			Format: "auto",
		},
	}
}
