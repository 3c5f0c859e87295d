// Package core is the host-facing viewer engine: it owns the collapse state of
// one document and turns navigation actions into render frames.
package core

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jvx/internal/cel"
	"github.com/oakwood-commons/jvx/internal/collapse"
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/internal/highlight"
	"github.com/oakwood-commons/jvx/internal/navigator"
	"github.com/oakwood-commons/jvx/internal/viewport"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
	"github.com/oakwood-commons/jvx/pkg/loader"
)

// Aliases re-export the core building blocks for hosts outside this module.
type (
	Action         = navigator.Action
	ActionType     = navigator.ActionType
	DisplayOptions = formatter.LineOptions
	GlyphStyle     = formatter.GlyphStyle
	Palette        = highlight.Palette
	Token          = highlight.Token
	SearchScope    = highlight.Scope
	MatchSpan      = highlight.MatchSpan
)

// Evaluator evaluates expressions against a document.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, data jsonvalue.Value) (jsonvalue.Value, error)
}

// Engine holds the viewer state for one document. It is not safe for
// concurrent use; hosts drive it from a single goroutine.
type Engine struct {
	state     collapse.State
	source    jsonvalue.Value
	display   DisplayOptions
	depth     int
	height    int
	offset    int
	palette   Palette
	evaluator Evaluator
	log       logr.Logger

	term    string
	scope   SearchScope
	matches []MatchSpan
	current int
	scanned scanKey

	generation uint64
	lines      lineCache
}

type lineCache struct {
	valid      bool
	generation uint64
	version    uint64
	display    DisplayOptions
	lines      []string
}

// scanKey identifies the lines a search last ran over.
type scanKey struct {
	valid      bool
	generation uint64
	version    uint64
	display    DisplayOptions
}

// Option configures the Engine.
type Option func(*Engine)

// WithDisplay sets the line formatting options.
func WithDisplay(opts DisplayOptions) Option {
	return func(e *Engine) { e.display = opts }
}

// WithInitialExpandDepth sets how many levels start expanded. Negative
// values expand everything; the root is always expanded.
func WithInitialExpandDepth(depth int) Option {
	return func(e *Engine) { e.depth = depth }
}

// WithViewportHeight sets the number of lines a frame shows. Values below 1
// are treated as 1.
func WithViewportHeight(h int) Option {
	return func(e *Engine) { e.height = max(h, 1) }
}

// WithSearchScope sets the scope used by SetSearch when none is given.
func WithSearchScope(scope SearchScope) Option {
	return func(e *Engine) { e.scope = scope }
}

// WithPalette sets the token colors used by Render.
func WithPalette(p Palette) Option {
	return func(e *Engine) { e.palette = p }
}

// WithEvaluator sets a custom expression evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.evaluator = ev }
}

// WithLogger sets the logger used for rebuild and search tracing.
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) { e.log = lgr }
}

// New creates an Engine showing v.
func New(v jsonvalue.Value, opts ...Option) *Engine {
	e := &Engine{
		display: formatter.DefaultLineOptions(),
		depth:   collapse.ExpandAll,
		height:  20,
		palette: highlight.DefaultPalette(),
		scope:   highlight.ScopeAll,
		current: -1,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.source = v
	e.state = collapse.Initialize(v, e.depth)
	e.log.V(1).Info("document built", "nodes", e.state.Tree().Size(), "lines", e.state.Len())
	return e
}

// LoadBytes parses data with format auto-detection.
func LoadBytes(data []byte) (jsonvalue.Value, error) {
	return loader.LoadBytes(data)
}

// LoadFile reads and parses the file at path.
func LoadFile(path string, lgr logr.Logger) (jsonvalue.Value, error) {
	return loader.LoadFile(path, lgr)
}

// State returns the current collapse state.
func (e *Engine) State() collapse.State { return e.state }

// Value returns the document being shown.
func (e *Engine) Value() jsonvalue.Value { return e.state.Value() }

// Source returns the document the engine was created with or last reloaded
// with, before any query.
func (e *Engine) Source() jsonvalue.Value { return e.source }

// Display returns the formatting options.
func (e *Engine) Display() DisplayOptions { return e.display }

// SetDisplay changes the formatting options.
func (e *Engine) SetDisplay(opts DisplayOptions) {
	e.display = opts
	e.refreshMatches()
}

// ViewportHeight returns the frame height.
func (e *Engine) ViewportHeight() int { return e.height }

// Offset returns the index of the first visible line.
func (e *Engine) Offset() int { return e.offset }

// Navigate applies a to the state and keeps the cursor in view.
func (e *Engine) Navigate(a Action) navigator.Result {
	res := navigator.Handle(e.state, a)
	e.state = res.State
	if res.Scroll {
		e.offset = viewport.RecenterForCursor(res.ScrollTo, e.offset, e.height)
	}
	e.follow()
	e.refreshMatches()
	return res
}

// Replace swaps in a new document and rebuilds from scratch: the expanded set
// goes back to the initial depth, the cursor to the root and the scroll
// offset to the top.
func (e *Engine) Replace(v jsonvalue.Value) {
	e.state = collapse.Initialize(v, e.depth)
	e.offset = 0
	e.generation++
	e.lines = lineCache{}
	e.refreshMatches()
	e.log.V(1).Info("document rebuilt", "nodes", e.state.Tree().Size(), "lines", e.state.Len())
}

// Reload replaces both the source and the shown document.
func (e *Engine) Reload(v jsonvalue.Value) {
	e.source = v
	e.Replace(v)
}

// Evaluate runs expr against the source document.
func (e *Engine) Evaluate(ctx context.Context, expr string) (jsonvalue.Value, error) {
	if e.evaluator == nil {
		ev, err := cel.NewEvaluator()
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("evaluator is not configured: %w", err)
		}
		e.evaluator = ev
	}
	return e.evaluator.Evaluate(ctx, expr, e.source)
}

// SetViewportHeight changes the frame height, with the same lower bound as
// WithViewportHeight.
func (e *Engine) SetViewportHeight(h int) {
	e.height = max(h, 1)
	e.follow()
}

func (e *Engine) follow() {
	e.offset = viewport.Follow(e.state.Len(), e.state.Cursor().LineIndex, e.offset, e.height)
}

// Lines returns every formatted visible line. The slice is shared with the
// cache and must not be modified.
func (e *Engine) Lines() []string {
	c := e.lines
	if c.valid && c.generation == e.generation && c.version == e.state.Version() && c.display == e.display {
		return c.lines
	}
	e.lines = lineCache{
		valid:      true,
		generation: e.generation,
		version:    e.state.Version(),
		display:    e.display,
		lines:      formatter.FormatLines(e.state, e.display),
	}
	return e.lines.lines
}

// CursorPath returns the selector of the node under the cursor, e.g.
// _.items[0].name. A closing marker reports its container's path.
func (e *Engine) CursorPath() string {
	n, ok := e.state.CursorNode()
	if !ok {
		return jsonvalue.FormatPath(nil)
	}
	return jsonvalue.FormatPath(n.Path)
}

// CursorValue returns the subtree under the cursor.
func (e *Engine) CursorValue() jsonvalue.Value {
	n, ok := e.state.CursorNode()
	if !ok {
		return jsonvalue.Value{}
	}
	v, _ := e.state.Value().At(n.Path)
	return v
}

// NoData reports whether the document is null or missing.
func (e *Engine) NoData() bool {
	return e.state.Value().IsEmptyish()
}
