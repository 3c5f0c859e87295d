// Package cel evaluates CEL expressions against jsonvalue documents. The
// document is bound to the variable "_".
package cel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// RootVariable is the name the document is bound to.
const RootVariable = "_"

// interruptCheckFrequency is how many comprehension iterations run between
// context cancellation checks.
const interruptCheckFrequency = 100

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the strings, encoders, lists and
// math extensions. Extra options extend the environment, e.g. with custom
// functions.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable(RootVariable, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// IsIdentity reports whether expr leaves the document unchanged.
func IsIdentity(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	return trimmed == "" || trimmed == RootVariable
}

// Evaluate runs expr against data. Plain selectors such as _.items[0] or
// _["a-b"] are resolved directly so the result keeps its member order; other
// expressions go through CEL and come back with sorted object keys.
func (e *Evaluator) Evaluate(ctx context.Context, expr string, data jsonvalue.Value) (jsonvalue.Value, error) {
	if IsIdentity(expr) {
		return data, nil
	}
	if path, ok := ParseSelector(expr); ok {
		if v, found := data.At(path); found {
			return v, nil
		}
	}
	out, err := EvaluateExpressionWithEnv(ctx, e.env, expr, data.Interface())
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.FromInterface(out), nil
}

// EvaluateExpressionWithEnv compiles expr, evaluates it with data bound to
// "_" and converts the result to plain Go values. The context is checked
// inside comprehensions, so a cancelled context stops long filters.
func EvaluateExpressionWithEnv(ctx context.Context, env *cel.Env, expr string, data interface{}) (interface{}, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}

	prg, err := env.Program(ast, cel.InterruptCheckFrequency(interruptCheckFrequency))
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	result, _, err := prg.ContextEval(ctx, map[string]interface{}{
		RootVariable: data,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("eval cancelled: %w", ctxErr)
		}
		return nil, fmt.Errorf("eval error: %w", err)
	}

	converted := ToGo(result)
	if refVal, ok := converted.(ref.Val); ok {
		converted = refVal.Value()
	}
	return converted, nil
}

// ToGo converts CEL values to Go values recursively.
func ToGo(val ref.Val) interface{} {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	inner := val.Value()
	switch iv := inner.(type) {
	case []ref.Val:
		out := make([]interface{}, len(iv))
		for i, elem := range iv {
			out[i] = ToGo(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(iv))
		for i, elem := range iv {
			out[i] = goValue(elem)
		}
		return out
	case map[string]interface{}:
		return convertMapValues(iv)
	case map[ref.Val]ref.Val:
		out := make(map[string]interface{}, len(iv))
		for k, v := range iv {
			out[fmt.Sprintf("%v", k.Value())] = ToGo(v)
		}
		return out
	}
	return inner
}

func goValue(v interface{}) interface{} {
	switch x := v.(type) {
	case ref.Val:
		return ToGo(x)
	case map[string]interface{}:
		return convertMapValues(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, elem := range x {
			out[i] = goValue(elem)
		}
		return out
	default:
		return v
	}
}

func convertMapValues(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = goValue(v)
	}
	return out
}

// ParseSelector parses a plain path expression rooted at "_": member access
// (.name), indexing ([0]) and quoted keys (["a-b"]). Anything else, including
// function calls and operators, reports false.
func ParseSelector(expr string) ([]jsonvalue.Segment, bool) {
	s := strings.TrimSpace(expr)
	if !strings.HasPrefix(s, RootVariable) {
		return nil, false
	}
	s = s[len(RootVariable):]
	var path []jsonvalue.Segment
	for s != "" {
		switch s[0] {
		case '.':
			end := 1
			for end < len(s) && isIdentByte(s[end], end == 1) {
				end++
			}
			if end == 1 {
				return nil, false
			}
			path = append(path, jsonvalue.KeySegment(s[1:end]))
			s = s[end:]
		case '[':
			closeIdx := strings.IndexByte(s, ']')
			if closeIdx < 0 {
				return nil, false
			}
			inner := strings.TrimSpace(s[1:closeIdx])
			if strings.HasPrefix(inner, `"`) {
				// Quoted keys may contain "]"; find the real end of the literal.
				lit, rest, ok := splitQuoted(s[1:])
				if !ok {
					return nil, false
				}
				rest = strings.TrimLeft(rest, " ")
				if !strings.HasPrefix(rest, "]") {
					return nil, false
				}
				key, err := strconv.Unquote(lit)
				if err != nil {
					return nil, false
				}
				path = append(path, jsonvalue.KeySegment(key))
				s = rest[1:]
				continue
			}
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return nil, false
			}
			path = append(path, jsonvalue.IndexSegment(n))
			s = s[closeIdx+1:]
		default:
			return nil, false
		}
	}
	return path, true
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// splitQuoted splits s (ignoring leading spaces) into a leading double-quoted
// literal and the remainder.
func splitQuoted(s string) (string, string, bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, `"`) {
		return "", "", false
	}
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return s[:i+1], s[i+1:], true
		}
	}
	return "", "", false
}
