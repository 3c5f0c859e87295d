// Package ui is the Bubble Tea front end of the viewer.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/navigator"
	"github.com/oakwood-commons/jvx/internal/transform"
	"github.com/oakwood-commons/jvx/internal/watch"
	"github.com/oakwood-commons/jvx/pkg/core"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// Mode represents the current UI mode.
type Mode int

const (
	// NormalMode is the default browsing mode.
	NormalMode Mode = iota
	// SearchMode is editing the search prompt.
	SearchMode
	// QueryMode is editing the CEL query prompt.
	QueryMode
	// HelpMode displays the key binding overlay.
	HelpMode
)

// StatusType classifies the status message.
type StatusType int

const (
	StatusInfo StatusType = iota
	StatusError
)

// Options configures a Model.
type Options struct {
	Theme       Theme
	KeyMode     KeyMode
	LineNumbers bool
	NoColor     bool
	// Width and Height seed the layout before the first WindowSizeMsg.
	Width  int
	Height int
	// Runner evaluates queries. Nil disables the query prompt.
	Runner *transform.Runner
	// InitialQuery is submitted by Init.
	InitialQuery string
	// InitialSearch is applied when the model is created.
	InitialSearch string
	// Reload and Events enable live reload of the input file.
	Reload ReloadFunc
	Events <-chan watch.Event
	Errors <-chan error
	Logger logr.Logger
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	engine *core.Engine
	keys   *KeyResolver
	theme  Theme
	runner *transform.Runner
	ctx    context.Context
	log    logr.Logger

	reload ReloadFunc
	events <-chan watch.Event
	errs   <-chan error

	mode  Mode
	input textinput.Model
	// searchBefore restores the previous term when the prompt is cancelled.
	searchBefore string

	query        string
	pendingQuery string
	pendingSeq   uint64
	initialQuery string

	status     string
	statusType StatusType

	width       int
	height      int
	lineNumbers bool
	noColor     bool
	quitting    bool
}

// NewModel wraps engine in a Model.
func NewModel(engine *core.Engine, opts Options) *Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.SetWidth(80)
	ti.Prompt = ""

	m := &Model{
		engine:       engine,
		keys:         NewKeyResolver(opts.KeyMode),
		theme:        opts.Theme,
		runner:       opts.Runner,
		ctx:          context.Background(),
		log:          opts.Logger,
		reload:       opts.Reload,
		events:       opts.Events,
		errs:         opts.Errors,
		input:        ti,
		initialQuery: strings.TrimSpace(opts.InitialQuery),
		width:        opts.Width,
		height:       opts.Height,
		lineNumbers:  opts.LineNumbers,
		noColor:      opts.NoColor,
	}
	if m.theme.tokens == nil {
		m.theme = DefaultTheme(opts.NoColor)
	}
	if m.width <= 0 {
		m.width = 80
	}
	if m.height <= 0 {
		m.height = 24
	}
	m.layout()
	if opts.InitialSearch != "" {
		m.applySearch(opts.InitialSearch)
	}
	return m
}

// WithContext sets the parent context of submitted queries and reloads.
func (m *Model) WithContext(ctx context.Context) *Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

// Engine returns the underlying viewer engine.
func (m *Model) Engine() *core.Engine { return m.engine }

// Mode returns the current UI mode.
func (m *Model) Mode() Mode { return m.mode }

// Status returns the status message and its type.
func (m *Model) Status() (string, StatusType) { return m.status, m.statusType }

// Query returns the applied query, "" when the source document is shown.
func (m *Model) Query() string { return m.query }

// Quitting reports whether the model asked the program to exit.
func (m *Model) Quitting() bool { return m.quitting }

// Init starts the watcher subscription and the initial query.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := waitForFileEvent(m.events, m.errs); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.initialQuery != "" {
		cmds = append(cmds, m.submitQuery(m.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case QueryResultMsg:
		return m.handleQueryResult(msg.Result)

	case FileChangedMsg:
		next := waitForFileEvent(m.events, m.errs)
		if msg.Event.Removed {
			m.setStatus(StatusError, "input file removed; showing last version")
			return m, next
		}
		if m.reload == nil {
			return m, next
		}
		return m, tea.Batch(reloadCmd(m.ctx, m.reload), next)

	case WatchErrorMsg:
		m.setStatus(StatusError, "watch: "+msg.Err.Error())
		return m, waitForFileEvent(m.events, m.errs)

	case ReloadedMsg:
		if msg.Err != nil {
			m.setStatus(StatusError, "reload: "+msg.Err.Error())
			return m, nil
		}
		m.engine.Reload(msg.Value)
		m.log.V(1).Info("input reloaded", "query", m.query)
		m.setStatus(StatusInfo, "reloaded")
		if m.query != "" {
			return m, m.submitQuery(m.query)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	switch m.mode {
	case SearchMode:
		return m.handleSearchKey(msg, keyStr)
	case QueryMode:
		return m.handleQueryKey(msg, keyStr)
	case HelpMode:
		switch keyStr {
		case "esc", "q", "?", "f1", "enter":
			m.mode = NormalMode
			m.layout()
		}
		return m, nil
	}
	return m.execute(m.keys.Resolve(keyStr))
}

// execute runs a command in normal mode.
func (m *Model) execute(cmd Command) (tea.Model, tea.Cmd) {
	if t, ok := navActions[cmd]; ok {
		count := 0
		if t == navigator.PageUp || t == navigator.PageDown {
			count = m.engine.ViewportHeight()
		}
		m.engine.Navigate(navigator.Page(t, count))
		m.clearInfoStatus()
		return m, nil
	}
	switch cmd {
	case CmdSearch:
		return m, m.openPrompt(SearchMode, m.engine.SearchTerm())
	case CmdNextMatch:
		m.stepMatch(m.engine.NextMatch)
	case CmdPrevMatch:
		m.stepMatch(m.engine.PrevMatch)
	case CmdClearSearch:
		m.engine.ClearSearch()
		m.clearInfoStatus()
	case CmdQuery:
		if m.runner == nil {
			m.setStatus(StatusError, "queries are disabled")
			return m, nil
		}
		return m, m.openPrompt(QueryMode, m.query)
	case CmdResetQuery:
		if m.runner == nil {
			m.engine.Replace(m.engine.Source())
			m.query = ""
			return m, nil
		}
		return m, m.submitQuery("")
	case CmdCopyPath:
		m.copy("path", m.engine.CursorPath())
	case CmdCopyValue:
		m.copy("value", m.cursorValueText())
	case CmdHelp:
		m.mode = HelpMode
	case CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) stepMatch(step func() bool) {
	if !step() {
		if m.engine.SearchTerm() == "" {
			m.setStatus(StatusInfo, "no active search")
		} else {
			m.setStatus(StatusError, fmt.Sprintf("no matches for %q", m.engine.SearchTerm()))
		}
		return
	}
	m.clearInfoStatus()
}

func (m *Model) openPrompt(mode Mode, value string) tea.Cmd {
	m.mode = mode
	m.searchBefore = m.engine.SearchTerm()
	m.input.SetValue(value)
	m.input.SetCursor(len(value))
	m.layout()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = NormalMode
	m.input.Blur()
	m.layout()
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		m.closePrompt()
		if m.searchBefore == "" {
			m.engine.ClearSearch()
		} else {
			m.applySearch(m.searchBefore)
		}
		return m, nil
	case "enter":
		m.closePrompt()
		m.applySearch(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.applySearch(v)
	}
	return m, cmd
}

func (m *Model) applySearch(term string) {
	if term == "" {
		m.engine.ClearSearch()
		m.clearInfoStatus()
		return
	}
	if n := m.engine.SetSearch(term, ""); n == 0 {
		m.setStatus(StatusError, fmt.Sprintf("no matches for %q", term))
		return
	}
	m.clearInfoStatus()
}

func (m *Model) handleQueryKey(msg tea.KeyPressMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		expr := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		return m, m.submitQuery(expr)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitQuery starts evaluating expr against the source document. The
// shown tree stays in place until the result arrives.
func (m *Model) submitQuery(expr string) tea.Cmd {
	if m.runner == nil {
		return nil
	}
	req, ch := m.runner.Submit(m.ctx, expr, m.engine.Source())
	m.pendingSeq = req.Seq
	m.pendingQuery = expr
	m.setStatus(StatusInfo, "evaluating…")
	return waitForQuery(ch)
}

func (m *Model) handleQueryResult(res transform.Result) (tea.Model, tea.Cmd) {
	if res.Stale() || res.Seq != m.pendingSeq || (m.runner != nil && !m.runner.IsCurrent(res.Seq)) {
		m.log.V(1).Info("dropping stale query result", "seq", res.Seq, "expr", res.Expr)
		return m, nil
	}
	m.pendingSeq = 0
	if res.Err != nil {
		m.setStatus(StatusError, "query: "+res.Err.Error())
		return m, nil
	}
	m.engine.Replace(res.Value)
	m.query = res.Expr
	if isIdentity(res.Expr) {
		m.query = ""
		m.setStatus(StatusInfo, "showing source document")
	} else {
		m.setStatus(StatusInfo, fmt.Sprintf("query applied in %s", res.Duration.Round(time.Millisecond)))
	}
	return m, nil
}

func isIdentity(expr string) bool {
	t := strings.TrimSpace(expr)
	return t == "" || t == "_"
}

func (m *Model) copy(what, text string) {
	if err := CopyToClipboard(text); err != nil {
		m.setStatus(StatusError, "copy: "+err.Error())
		return
	}
	m.setStatus(StatusInfo, "copied "+what)
}

// cursorValueText renders the subtree under the cursor as indented JSON.
func (m *Model) cursorValueText() string {
	v := m.engine.CursorValue()
	if !v.IsContainer() {
		if v.Kind() == jsonvalue.String {
			return v.Str()
		}
		if !v.IsValid() {
			return ""
		}
		return v.Literal()
	}
	opts := m.engine.Display()
	opts.HideValues = false
	opts.MaxValueLength = 0
	opts.ShowArrayIndices = false
	return formatter.FormatDocument(v, opts)
}

func (m *Model) setStatus(t StatusType, msg string) {
	m.statusType = t
	m.status = msg
}

// clearInfoStatus drops informational messages on the next action; errors
// stay until replaced.
func (m *Model) clearInfoStatus() {
	if m.statusType == StatusInfo {
		m.status = ""
	}
}

// layout resizes the engine to the space left by the status and prompt
// lines.
func (m *Model) layout() {
	body := m.height - 1
	if m.mode == SearchMode || m.mode == QueryMode {
		body--
	}
	if body < 1 {
		body = 1
	}
	m.engine.SetViewportHeight(body)
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	m.input.SetWidth(w)
}

// ApplyQuery evaluates expr synchronously and shows its result. Snapshot
// rendering uses it in place of the asynchronous prompt flow.
func (m *Model) ApplyQuery(expr string) error {
	if m.runner == nil {
		return fmt.Errorf("queries are disabled")
	}
	req := m.runner.Begin(m.ctx, expr)
	m.pendingSeq = req.Seq
	res := m.runner.Run(req, m.engine.Source())
	m.handleQueryResult(res)
	return res.Err
}
