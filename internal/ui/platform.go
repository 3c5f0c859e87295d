package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// copyToClipboardFn is the active clipboard implementation. Tests replace it
// via StubPlatformActions to prevent side effects.
var copyToClipboardFn = copyToClipboardImpl

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard with a recorder and returns the
// recorded texts plus a restore function.
func StubPlatformActions() (copied *[]string, restore func()) {
	orig := copyToClipboardFn
	var got []string
	copyToClipboardFn = func(text string) error {
		got = append(got, text)
		return nil
	}
	return &got, func() { copyToClipboardFn = orig }
}

func copyToClipboardImpl(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard available (install xclip, xsel, or wl-clipboard)")
	}
	return clipboard.WriteAll(text)
}
