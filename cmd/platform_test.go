package cmd

import (
	"os"
	"testing"

	"github.com/oakwood-commons/jvx/internal/ui"
)

// TestMain keeps tests from touching the system clipboard.
func TestMain(m *testing.M) {
	_, restore := ui.StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}
