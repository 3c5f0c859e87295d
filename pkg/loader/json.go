package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// loadJSON decodes one or more concatenated JSON values, keeping object
// member order and number literals.
func loadJSON(input string) ([]jsonvalue.Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(input)))
	dec.UseNumber()

	var docs []jsonvalue.Value
	for {
		v, err := decodeValue(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		docs = append(docs, v)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return docs, nil
}

// loadNDJSON decodes newline-delimited JSON. Lines that are not valid JSON
// are kept as plain strings.
func loadNDJSON(input string) ([]jsonvalue.Value, error) {
	lines := strings.Split(input, "\n")
	docs := make([]jsonvalue.Value, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parsed, err := loadJSON(line)
		if err != nil || len(parsed) != 1 {
			docs = append(docs, jsonvalue.StringValue(line))
			continue
		}
		docs = append(docs, parsed[0])
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return docs, nil
}

// DecodeJSON parses exactly one JSON value.
func DecodeJSON(data []byte) (jsonvalue.Value, error) {
	docs, err := loadJSON(string(data))
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if len(docs) != 1 {
		return jsonvalue.Value{}, fmt.Errorf("invalid JSON: expected 1 value, found %d", len(docs))
	}
	return docs[0], nil
}

func decodeValue(dec *json.Decoder) (jsonvalue.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (jsonvalue.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return jsonvalue.Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return jsonvalue.StringValue(t), nil
	case json.Number:
		return jsonvalue.NumberValue(t.String()), nil
	case float64:
		return jsonvalue.FloatValue(t), nil
	case bool:
		return jsonvalue.BoolValue(t), nil
	case nil:
		return jsonvalue.NullValue(), nil
	default:
		return jsonvalue.Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (jsonvalue.Value, error) {
	var members []jsonvalue.Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return jsonvalue.Value{}, fmt.Errorf("object key is %T, not a string", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("value of %q: %w", key, err)
		}
		members = append(members, jsonvalue.Member{Key: key, Value: val})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.ObjectValue(members...), nil
}

func decodeArray(dec *json.Decoder) (jsonvalue.Value, error) {
	var items []jsonvalue.Value
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("item %d: %w", len(items), err)
		}
		items = append(items, val)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.ArrayValue(items...), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}
