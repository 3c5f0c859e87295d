package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// IsJWT reports whether input looks like a JWT: three non-empty
// dot-separated base64url parts whose first two decode to JSON objects.
func IsJWT(input string) bool {
	parts, ok := splitJWT(input)
	if !ok {
		return false
	}
	for i := 0; i < 2; i++ {
		if _, err := decodeJWTSegment(parts[i]); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a token into an object with header, payload and signature
// members. The signature stays base64url encoded.
func DecodeJWT(input string) (jsonvalue.Value, error) {
	parts, ok := splitJWT(input)
	if !ok {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT: expected 3 non-empty parts")
	}
	header, err := decodeJWTSegment(parts[0])
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTSegment(parts[1])
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return jsonvalue.ObjectValue(
		jsonvalue.Member{Key: "header", Value: header},
		jsonvalue.Member{Key: "payload", Value: payload},
		jsonvalue.Member{Key: "signature", Value: jsonvalue.StringValue(parts[2])},
	), nil
}

func splitJWT(input string) ([]string, bool) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, part := range parts {
		if part == "" {
			return nil, false
		}
	}
	return parts, true
}

func decodeJWTSegment(segment string) (jsonvalue.Value, error) {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := DecodeJSON(raw)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if v.Kind() != jsonvalue.Object {
		return jsonvalue.Value{}, fmt.Errorf("segment is %s, not an object", v.Kind())
	}
	return v, nil
}

func loadJWT(input string) ([]jsonvalue.Value, error) {
	v, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []jsonvalue.Value{v}, nil
}
