package tui

import "github.com/oakwood-commons/jvx/internal/ui"

// CopyToClipboard copies text to the system clipboard. Hosts can use it to
// offer the same copy behavior as the viewer's y and Y keys.
func CopyToClipboard(text string) error {
	return ui.CopyToClipboard(text)
}
