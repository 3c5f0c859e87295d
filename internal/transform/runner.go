// Package transform runs query expressions off the input loop. A new request
// supersedes any pending one: its context is cancelled and its result is
// reported as stale.
package transform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// ErrSuperseded marks a result whose request was replaced by a newer one.
var ErrSuperseded = errors.New("query superseded by a newer request")

// Evaluator evaluates an expression against a document.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, data jsonvalue.Value) (jsonvalue.Value, error)
}

// Request identifies one submitted query.
type Request struct {
	Seq  uint64
	Expr string
	ctx  context.Context
}

// Result is the outcome of a Request.
type Result struct {
	Seq      uint64
	Expr     string
	Value    jsonvalue.Value
	Err      error
	Duration time.Duration
}

// Stale reports whether the result belongs to a superseded request.
func (r Result) Stale() bool { return errors.Is(r.Err, ErrSuperseded) }

// Runner sequences query requests.
type Runner struct {
	eval    Evaluator
	timeout time.Duration
	log     logr.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds every evaluation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(lgr logr.Logger) Option {
	return func(r *Runner) { r.log = lgr }
}

// NewRunner creates a Runner around eval.
func NewRunner(eval Evaluator, opts ...Option) *Runner {
	r := &Runner{eval: eval, log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin registers a new request and cancels the pending one, if any.
func (r *Runner) Begin(parent context.Context, expr string) Request {
	if parent == nil {
		parent = context.Background()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	var ctx context.Context
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	r.cancel = cancel
	r.log.V(1).Info("query submitted", "seq", r.seq, "expr", expr)
	return Request{Seq: r.seq, Expr: expr, ctx: ctx}
}

// Run evaluates req against data. It blocks until the evaluation finishes or
// the request is cancelled.
func (r *Runner) Run(req Request, data jsonvalue.Value) Result {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	v, err := r.eval.Evaluate(ctx, req.Expr, data)
	res := Result{Seq: req.Seq, Expr: req.Expr, Value: v, Err: err, Duration: time.Since(start)}

	r.mu.Lock()
	current := req.Seq == r.seq
	if current && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	if !current {
		res.Value = jsonvalue.Value{}
		res.Err = ErrSuperseded
	}
	r.log.V(1).Info("query finished", "seq", req.Seq, "stale", !current, "duration", res.Duration.String(), "error", errString(err))
	return res
}

// Submit begins a request and evaluates it on a new goroutine. The channel
// receives exactly one Result.
func (r *Runner) Submit(parent context.Context, expr string, data jsonvalue.Value) (Request, <-chan Result) {
	req := r.Begin(parent, expr)
	ch := make(chan Result, 1)
	go func() {
		ch <- r.Run(req, data)
	}()
	return req, ch
}

// IsCurrent reports whether seq is the latest request.
func (r *Runner) IsCurrent(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.seq
}

// Cancel aborts the pending request, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
