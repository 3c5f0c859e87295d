// Package limiter trims the top-level records of a document before display.
package limiter

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// ErrConflict is returned when --limit and --tail are both set.
var ErrConflict = errors.New("--limit and --tail are mutually exclusive")

// Config selects a window of records. A record is an item of a top-level
// array or a member of a top-level object.
type Config struct {
	Limit  int // keep at most this many records; 0 keeps all
	Offset int // skip this many leading records; ignored with Tail
	Tail   int // keep only the last N records; excludes Limit
}

// Validate rejects negative counts and the Limit/Tail combination.
func (c Config) Validate() error {
	for _, f := range []struct {
		flag string
		n    int
	}{{"--limit", c.Limit}, {"--offset", c.Offset}, {"--tail", c.Tail}} {
		if f.n < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f.flag, f.n)
		}
	}
	if c.Limit > 0 && c.Tail > 0 {
		return ErrConflict
	}
	return nil
}

// IsActive reports whether any limit is set.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply returns v with its records cut to the configured window, in document
// order. Scalars and inactive configs pass through unchanged.
func (c Config) Apply(v jsonvalue.Value) jsonvalue.Value {
	if !c.IsActive() {
		return v
	}
	switch v.Kind() {
	case jsonvalue.Array:
		items := v.Items()
		lo, hi := c.Range(len(items))
		return jsonvalue.ArrayValue(items[lo:hi]...)
	case jsonvalue.Object:
		members := v.Members()
		lo, hi := c.Range(len(members))
		return jsonvalue.ObjectValue(members[lo:hi]...)
	}
	return v
}

// Range returns the half-open [lo, hi) window selected from n records.
func (c Config) Range(n int) (lo, hi int) {
	if c.Tail > 0 {
		return max(0, n-c.Tail), n
	}
	lo = min(c.Offset, n)
	hi = n
	if c.Limit > 0 {
		hi = min(n, lo+c.Limit)
	}
	return lo, hi
}
