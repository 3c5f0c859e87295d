// Package loader turns raw JSON, NDJSON, YAML, TOML or JWT input into ordered
// jsonvalue documents.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// ErrEmptyInput is returned when the input contains nothing but whitespace.
var ErrEmptyInput = errors.New("empty input")

// Format names an input encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJWT  Format = "jwt"
)

// LoadBytes parses data, auto-detecting its format. Inputs holding several
// documents (NDJSON, multi-document YAML, concatenated JSON) are returned as
// one array whose items are the documents.
func LoadBytes(data []byte) (jsonvalue.Value, error) {
	return LoadBytesWithLogger(data, logr.Discard())
}

// LoadBytesWithLogger is like LoadBytes but records which parsers were tried.
func LoadBytesWithLogger(data []byte, lgr logr.Logger) (jsonvalue.Value, error) {
	docs, err := loadDocuments(string(data), FormatAuto, lgr)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return collapseDocuments(docs), nil
}

// LoadBytesAs parses data with a forced format. FormatAuto sniffs the
// content like LoadBytes.
func LoadBytesAs(data []byte, format Format, lgr logr.Logger) (jsonvalue.Value, error) {
	docs, err := loadDocuments(string(data), format, lgr)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return collapseDocuments(docs), nil
}

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML, FormatTOML, FormatJWT:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q: valid values are auto, json, yaml, toml, jwt", name)
	}
}

// LoadReader reads r to EOF and parses the result.
func LoadReader(r io.Reader, lgr logr.Logger) (jsonvalue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("read input: %w", err)
	}
	return LoadBytesWithLogger(data, lgr)
}

// LoadFile reads and parses a file. The extension selects the parser when it
// is recognized; otherwise the content is auto-detected.
func LoadFile(path string, lgr logr.Logger) (jsonvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("read %s: %w", path, err)
	}
	format := FormatForPath(path)
	lgr.V(1).Info("loading file", "path", path, "format", string(format))
	docs, err := loadDocuments(string(data), format, lgr)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return collapseDocuments(docs), nil
}

// FormatForPath maps a file extension to a Format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson", ".jsonl", ".geojson":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".jwt":
		return FormatJWT
	default:
		return FormatAuto
	}
}

func collapseDocuments(docs []jsonvalue.Value) jsonvalue.Value {
	if len(docs) == 1 {
		return docs[0]
	}
	return jsonvalue.ArrayValue(docs...)
}

func loadDocuments(input string, format Format, lgr logr.Logger) ([]jsonvalue.Value, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	switch format {
	case FormatJSON:
		docs, err := loadJSON(input)
		if err != nil && isLikelyNDJSON(strings.Split(input, "\n")) {
			lgr.V(1).Info("strict JSON failed, retrying as NDJSON", "error", err.Error())
			return loadNDJSON(input)
		}
		return docs, err
	case FormatYAML:
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatJWT:
		return loadJWT(input)
	}

	if IsJWT(input) {
		return loadJWT(input)
	}
	if strings.HasPrefix(input, "---") || strings.Contains(input, "\n---") {
		return loadYAML(input)
	}
	// TOML section headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(input) {
		return loadTOML(input)
	}

	docs, err := loadJSON(input)
	if err == nil {
		return docs, nil
	}
	lgr.V(1).Info("JSON parse failed", "error", err.Error())
	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(input)
	}
	lgr.V(1).Info("falling back to YAML")
	return loadYAML(input)
}

// isLikelyNDJSON reports whether a majority of non-empty lines start like a
// JSON object or array.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmpty := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML looks for [section] headers or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	sections := 0
	keyValues := 0
	nonEmpty := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionPattern.MatchString(line) {
			sections++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValues++
		}
	}
	if sections > 0 {
		return true
	}
	return nonEmpty > 0 && keyValues > nonEmpty/2
}
