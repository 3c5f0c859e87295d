package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"

	jcel "github.com/oakwood-commons/jvx/internal/cel"
	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/formatter"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
	"github.com/oakwood-commons/jvx/pkg/loader"
	"github.com/oakwood-commons/jvx/pkg/settings"
	"github.com/oakwood-commons/jvx/pkg/tui"
)

// errShowHelp signals that no input was given on an interactive terminal.
var errShowHelp = errors.New("no input")

// loadInput reads the document from the file argument or piped stdin.
func loadInput(in settings.InputSettings, format loader.Format, lgr logr.Logger) (jsonvalue.Value, error) {
	if in.FromStdin() {
		if in.Path == "" && !stdinIsPiped() {
			return jsonvalue.Value{}, errShowHelp
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return jsonvalue.Value{}, runtimeErr(fmt.Errorf("read stdin: %w", err))
		}
		v, err := loader.LoadBytesAs(data, format, lgr)
		if err != nil {
			return jsonvalue.Value{}, runtimeErr(fmt.Errorf("parse stdin: %w", err))
		}
		return v, nil
	}
	if format == loader.FormatAuto {
		v, err := loader.LoadFile(in.Path, lgr)
		if err != nil {
			return jsonvalue.Value{}, runtimeErr(err)
		}
		return v, nil
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return jsonvalue.Value{}, runtimeErr(fmt.Errorf("read %s: %w", in.Path, err))
	}
	v, err := loader.LoadBytesAs(data, format, lgr)
	if err != nil {
		return jsonvalue.Value{}, runtimeErr(fmt.Errorf("parse %s: %w", in.Path, err))
	}
	return v, nil
}

// evaluateExpression applies the --expression flag for non-interactive output.
func evaluateExpression(ctx context.Context, v jsonvalue.Value, expr string, cfg config.Config) (jsonvalue.Value, error) {
	if jcel.IsIdentity(expr) {
		return v, nil
	}
	eval, err := jcel.NewEvaluator()
	if err != nil {
		return jsonvalue.Value{}, runtimeErr(err)
	}
	if ms := cfg.Behavior.QueryTimeoutMs; ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}
	out, err := eval.Evaluate(ctx, strings.TrimSpace(expr), v)
	if err != nil {
		return jsonvalue.Value{}, runtimeErr(fmt.Errorf("expression error: %w", err))
	}
	return out, nil
}

// printDocument writes v in a non-interactive output mode.
func printDocument(ctx context.Context, w io.Writer, v jsonvalue.Value, mode string, cfg config.Config) error {
	v, err := evaluateExpression(ctx, v, expression, cfg)
	if err != nil {
		return err
	}
	text, err := renderDocument(v, mode, cfg)
	if err != nil {
		return runtimeErr(err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(w, text)
	return err
}

func renderDocument(v jsonvalue.Value, mode string, cfg config.Config) (string, error) {
	d := cfg.Display
	switch mode {
	case outputYAML:
		return formatter.FormatYAML(v, formatter.YAMLFormatOptions{Indent: d.IndentWidth, LiteralBlockStrings: true})
	case outputTree:
		if err := formatter.ValidateArrayStyle(arrayStyle); err != nil {
			return "", usageErr("%v", err)
		}
		return formatter.FormatAsTree(v, formatter.TreeOptions{
			NoValues:     !d.ShowValues,
			MaxStringLen: d.MaxValueLength,
			ArrayStyle:   arrayStyle,
		}), nil
	default:
		// Markers, indices and placeholders would make the output invalid JSON.
		return formatter.FormatDocument(v, formatter.LineOptions{
			IndentWidth: d.IndentWidth,
			UseTabs:     d.UseTabs,
			Glyphs:      formatter.GlyphsNone,
		}), nil
	}
}

// printSnapshot renders one viewer frame using the run settings in ctx.
func printSnapshot(ctx context.Context, w io.Writer, v jsonvalue.Value, cfg config.Config) error {
	run := settings.FromContextOrDefault(ctx)
	format, _ := loader.ParseFormat(run.Input.Format)
	out, err := tui.Snapshot(ctx, v, viewerConfig(cfg, run, format), run.NoColor)
	if err != nil {
		return runtimeErr(err)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}
