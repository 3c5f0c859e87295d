package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/ui"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
	"github.com/oakwood-commons/jvx/pkg/loader"
)

func mustLoad(t *testing.T, input string) jsonvalue.Value {
	t.Helper()
	v, err := loader.DecodeJSON([]byte(input))
	require.NoError(t, err)
	return v
}

func snapshotLines(t *testing.T, input string, cfg Config) []string {
	t.Helper()
	if cfg.Width == 0 {
		cfg.Width = 40
	}
	if cfg.Height == 0 {
		cfg.Height = 5
	}
	out, err := Snapshot(context.Background(), mustLoad(t, input), cfg, true)
	require.NoError(t, err)
	return strings.Split(out, "\n")
}

func TestSnapshotPlain(t *testing.T) {
	lines := snapshotLines(t, `{"a":1}`, Config{})
	require.Len(t, lines, 5)
	assert.Equal(t, "> 1 ▾ {", lines[0])
	assert.Equal(t, `  2     "a": 1`, lines[1])
	assert.Equal(t, "  3   }", lines[2])
	assert.Equal(t, "", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "_ "))
	assert.True(t, strings.HasSuffix(lines[4], "1/3  All"))
	assert.Len(t, []rune(lines[4]), 40)
}

func TestSnapshotQuery(t *testing.T) {
	lines := snapshotLines(t, `{"a":{"b":true}}`, Config{Query: "_.a"})
	assert.Equal(t, "> 1 ▾ {", lines[0])
	assert.Equal(t, `  2     "b": true`, lines[1])
	assert.Contains(t, lines[4], "[_.a]")

	_, err := Snapshot(context.Background(), mustLoad(t, `{}`), Config{Width: 40, Height: 5, Query: "_.("}, true)
	require.Error(t, err)
}

func TestSnapshotStartKeys(t *testing.T) {
	lines := snapshotLines(t, `{"a":{"b":1}}`, Config{StartKeys: []string{"j", "<Space>"}})
	assert.Equal(t, "  1 ▾ {", lines[0])
	assert.Equal(t, `> 2 ▸   "a": {...}`, lines[1])
	assert.Equal(t, "  3   }", lines[2])
}

func TestSnapshotSearch(t *testing.T) {
	lines := snapshotLines(t, `{"x":1,"name":2}`, Config{Search: "name"})
	assert.Equal(t, `> 3     "name": 2`, lines[2])
	assert.Contains(t, lines[4], "match 1/1")
}

func TestSnapshotUsesSettings(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Display.LineNumbers = false
	cfg.Display.Glyphs = "ascii"
	cfg.Display.IndentWidth = 4
	lines := snapshotLines(t, `[1]`, Config{Settings: &cfg})
	assert.Equal(t, "> - [", lines[0])
	assert.Equal(t, "        1", lines[1])
}

func TestDisplayOptions(t *testing.T) {
	got := DisplayOptions(config.DisplayConfig{
		IndentWidth:      3,
		UseTabs:          true,
		ShowArrayIndices: true,
		ShowValues:       false,
		MaxValueLength:   12,
	})
	assert.Equal(t, formatter.LineOptions{
		IndentWidth:      3,
		UseTabs:          true,
		ShowArrayIndices: true,
		HideValues:       true,
		MaxValueLength:   12,
		Glyphs:           formatter.GlyphsNone,
	}, got)
}

func TestNewSessionWatchMissingDir(t *testing.T) {
	_, err := NewSession(context.Background(), jsonvalue.NullValue(), Config{
		Width: 40, Height: 5,
		WatchPath: "/nonexistent-dir-for-jvx/data.json",
	})
	require.Error(t, err)
}

func TestTerminalOptionsNotPiped(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	defer func() { stdinIsPiped, openTerminalIOFn = origPiped, origOpen }()

	stdinIsPiped = func() bool { return false }
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		t.Fatal("terminal should not be opened")
		return nil, nil, nil
	}
	opts, cleanup := TerminalOptions()
	require.NotNil(t, cleanup)
	assert.Empty(t, opts)
	cleanup()
}

func TestTerminalOptionsNoTTY(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	defer func() { stdinIsPiped, openTerminalIOFn = origPiped, origOpen }()

	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return nil, nil, errors.New("no tty") }
	opts, cleanup := TerminalOptions()
	assert.Empty(t, opts)
	cleanup()
}

func TestTerminalOptionsReopensTTY(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	defer func() { stdinIsPiped, openTerminalIOFn = origPiped, origOpen }()

	in, err := os.CreateTemp(t.TempDir(), "tty")
	require.NoError(t, err)
	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return in, in, nil }

	opts, cleanup := TerminalOptions()
	assert.Len(t, opts, 3)
	cleanup()
}

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)
	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestCopyToClipboard(t *testing.T) {
	copied, restore := ui.StubPlatformActions()
	defer restore()
	require.NoError(t, CopyToClipboard("_.items[0]"))
	assert.Equal(t, []string{"_.items[0]"}, *copied)
}
