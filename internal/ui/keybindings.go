package ui

import (
	"sort"

	"github.com/oakwood-commons/jvx/internal/navigator"
)

// KeyMode represents the keybinding mode for the UI.
type KeyMode string

const (
	// KeyModeVim enables vim-style keybindings (j/k/h/l navigation, / search).
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs enables emacs-style keybindings with ctrl and alt chords.
	KeyModeEmacs KeyMode = "emacs"
	// KeyModeFunction disables single-key shortcuts and uses function keys.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the default keybinding mode.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeEmacs, KeyModeFunction}

// IsValidKeyMode checks if a key mode string is valid.
func IsValidKeyMode(mode string) bool {
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// Command is what a key press asks the viewer to do.
type Command string

const (
	CmdNone        Command = ""
	CmdUp          Command = "up"
	CmdDown        Command = "down"
	CmdToggle      Command = "toggle"
	CmdExpand      Command = "expand"
	CmdCollapse    Command = "collapse"
	CmdExpandAll   Command = "expand_all"
	CmdCollapseAll Command = "collapse_all"
	CmdTop         Command = "top"
	CmdBottom      Command = "bottom"
	CmdPageUp      Command = "page_up"
	CmdPageDown    Command = "page_down"
	CmdParent      Command = "parent"
	CmdSearch      Command = "search"
	CmdNextMatch   Command = "next_match"
	CmdPrevMatch   Command = "prev_match"
	CmdClearSearch Command = "clear_search"
	CmdQuery       Command = "query"
	CmdResetQuery  Command = "reset_query"
	CmdCopyPath    Command = "copy_path"
	CmdCopyValue   Command = "copy_value"
	CmdHelp        Command = "help"
	CmdQuit        Command = "quit"
	cmdPendingG    Command = "pending_g" // waiting for the second g of gg
)

// navActions maps navigation commands onto engine actions. Page commands get
// their count from the viewport height.
var navActions = map[Command]navigator.ActionType{
	CmdUp:          navigator.MoveUp,
	CmdDown:        navigator.MoveDown,
	CmdToggle:      navigator.ToggleNode,
	CmdExpand:      navigator.ExpandNode,
	CmdCollapse:    navigator.CollapseNode,
	CmdExpandAll:   navigator.ExpandAll,
	CmdCollapseAll: navigator.CollapseAll,
	CmdTop:         navigator.GotoTop,
	CmdBottom:      navigator.GotoBottom,
	CmdPageUp:      navigator.PageUp,
	CmdPageDown:    navigator.PageDown,
	CmdParent:      navigator.GotoParent,
}

// commonKeyBindings apply in every mode.
var commonKeyBindings = map[string]Command{
	"up":     CmdUp,
	"down":   CmdDown,
	"right":  CmdExpand,
	"left":   CmdCollapse,
	"enter":  CmdToggle,
	"pgup":   CmdPageUp,
	"pgdown": CmdPageDown,
	"home":   CmdTop,
	"end":    CmdBottom,
	"esc":    CmdClearSearch,
	"ctrl+c": CmdQuit,
}

// VimKeyBindings maps keys to commands for vim mode.
var VimKeyBindings = map[string]Command{
	"j":      CmdDown,
	"k":      CmdUp,
	"l":      CmdExpand,
	"h":      CmdCollapse,
	"space":  CmdToggle,
	"E":      CmdExpandAll,
	"C":      CmdCollapseAll,
	"g":      cmdPendingG,
	"G":      CmdBottom,
	"ctrl+u": CmdPageUp,
	"ctrl+d": CmdPageDown,
	"p":      CmdParent,
	"/":      CmdSearch,
	"n":      CmdNextMatch,
	"N":      CmdPrevMatch,
	":":      CmdQuery,
	"R":      CmdResetQuery,
	"y":      CmdCopyPath,
	"Y":      CmdCopyValue,
	"?":      CmdHelp,
	"q":      CmdQuit,
}

// EmacsKeyBindings maps keys to commands for emacs mode.
var EmacsKeyBindings = map[string]Command{
	"ctrl+n": CmdDown,
	"ctrl+p": CmdUp,
	"ctrl+f": CmdExpand,
	"ctrl+b": CmdCollapse,
	"tab":    CmdToggle,
	"alt+e":  CmdExpandAll,
	"alt+c":  CmdCollapseAll,
	"alt+<":  CmdTop,
	"alt+>":  CmdBottom,
	"alt+v":  CmdPageUp,
	"ctrl+v": CmdPageDown,
	"alt+u":  CmdParent,
	"ctrl+s": CmdSearch,
	"alt+n":  CmdNextMatch,
	"ctrl+r": CmdPrevMatch,
	"ctrl+g": CmdClearSearch,
	"alt+x":  CmdQuery,
	"alt+r":  CmdResetQuery,
	"alt+w":  CmdCopyPath,
	"alt+y":  CmdCopyValue,
	"f1":     CmdHelp, // ctrl+h is backspace in most terminals
	"ctrl+q": CmdQuit,
}

// FunctionKeyBindings maps keys to commands for function-key mode.
var FunctionKeyBindings = map[string]Command{
	"space":     CmdToggle,
	"backspace": CmdParent,
	"f1":        CmdHelp,
	"f2":        CmdCopyPath,
	"f3":        CmdSearch,
	"f4":        CmdNextMatch,
	"shift+f4":  CmdPrevMatch,
	"f5":        CmdCopyValue,
	"f6":        CmdQuery,
	"f7":        CmdExpandAll,
	"f8":        CmdCollapseAll,
	"f9":        CmdResetQuery,
	"f10":       CmdQuit,
}

// bindingsFor returns the mode's bindings layered over the common ones.
func bindingsFor(mode KeyMode) map[string]Command {
	var specific map[string]Command
	switch mode {
	case KeyModeEmacs:
		specific = EmacsKeyBindings
	case KeyModeFunction:
		specific = FunctionKeyBindings
	default:
		specific = VimKeyBindings
	}
	out := make(map[string]Command, len(commonKeyBindings)+len(specific))
	for k, v := range commonKeyBindings {
		out[k] = v
	}
	for k, v := range specific {
		out[k] = v
	}
	return out
}

// KeyResolver turns key strings into commands for one mode. Vim's gg needs
// one key of memory.
type KeyResolver struct {
	mode     KeyMode
	bindings map[string]Command
	pending  string
}

// NewKeyResolver creates a resolver for mode. Unknown modes fall back to
// vim.
func NewKeyResolver(mode KeyMode) *KeyResolver {
	if !IsValidKeyMode(string(mode)) {
		mode = DefaultKeyMode
	}
	return &KeyResolver{mode: mode, bindings: bindingsFor(mode)}
}

// Mode returns the resolver's key mode.
func (r *KeyResolver) Mode() KeyMode { return r.mode }

// Pending reports whether the resolver is waiting for the rest of a
// sequence.
func (r *KeyResolver) Pending() string { return r.pending }

// Resolve returns the command for keyStr, or CmdNone.
func (r *KeyResolver) Resolve(keyStr string) Command {
	if r.pending == "g" {
		r.pending = ""
		if keyStr == "g" {
			return CmdTop
		}
		// The pending g is consumed; keyStr is looked up on its own.
	}
	cmd, ok := r.bindings[keyStr]
	if !ok {
		return CmdNone
	}
	if cmd == cmdPendingG {
		r.pending = "g"
		return CmdNone
	}
	return cmd
}

// KeyHelp is one line of the help overlay.
type KeyHelp struct {
	Keys    []string
	Command Command
}

// HelpFor lists the bindings of mode grouped by command, in command order.
func HelpFor(mode KeyMode) []KeyHelp {
	byCmd := make(map[Command][]string)
	for k, c := range bindingsFor(mode) {
		if c == cmdPendingG {
			k, c = "gg", CmdTop
		}
		byCmd[c] = append(byCmd[c], k)
	}
	out := make([]KeyHelp, 0, len(helpOrder))
	for _, c := range helpOrder {
		keys := byCmd[c]
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys)
		out = append(out, KeyHelp{Keys: keys, Command: c})
	}
	return out
}

var helpOrder = []Command{
	CmdUp, CmdDown, CmdToggle, CmdExpand, CmdCollapse, CmdExpandAll, CmdCollapseAll,
	CmdTop, CmdBottom, CmdPageUp, CmdPageDown, CmdParent,
	CmdSearch, CmdNextMatch, CmdPrevMatch, CmdClearSearch,
	CmdQuery, CmdResetQuery, CmdCopyPath, CmdCopyValue, CmdHelp, CmdQuit,
}

var commandDescriptions = map[Command]string{
	CmdUp:          "move up",
	CmdDown:        "move down",
	CmdToggle:      "toggle node",
	CmdExpand:      "expand node",
	CmdCollapse:    "collapse node",
	CmdExpandAll:   "expand all",
	CmdCollapseAll: "collapse all",
	CmdTop:         "go to top",
	CmdBottom:      "go to bottom",
	CmdPageUp:      "page up",
	CmdPageDown:    "page down",
	CmdParent:      "go to parent",
	CmdSearch:      "search",
	CmdNextMatch:   "next match",
	CmdPrevMatch:   "previous match",
	CmdClearSearch: "clear search",
	CmdQuery:       "CEL query",
	CmdResetQuery:  "reset query",
	CmdCopyPath:    "copy path",
	CmdCopyValue:   "copy value",
	CmdHelp:        "toggle help",
	CmdQuit:        "quit",
}

// Describe returns a short label for c.
func (c Command) Describe() string {
	if d, ok := commandDescriptions[c]; ok {
		return d
	}
	return string(c)
}
