package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeStrategy identifies which fallback of the lenient decode cascade
// produced a value.
type DecodeStrategy string

const (
	DecodeDirect       DecodeStrategy = "direct"
	DecodeBraceExtract DecodeStrategy = "brace_extract"
	DecodeCommaFix     DecodeStrategy = "comma_fix"
	DecodeRepair       DecodeStrategy = "repair"
	DecodeSalvage      DecodeStrategy = "salvage"
	DecodeEmpty        DecodeStrategy = "empty"
)

var (
	trailingObjCommaRe = regexp.MustCompile(`,\s*}`)
	trailingArrCommaRe = regexp.MustCompile(`,\s*]`)
	nameTypePairRe     = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"\s*,\s*"type"\s*:\s*"([^"]+)"`)
)

type decodeAttempt struct {
	strategy DecodeStrategy
	decode   func(string) (any, bool)
}

// The cascade is an explicitly ordered list so each fallback can be tested
// against malformed inputs in isolation.
var decodeCascade = []decodeAttempt{
	{DecodeDirect, decodeDirect},
	{DecodeBraceExtract, decodeBraceExtract},
	{DecodeCommaFix, decodeCommaFix},
	{DecodeRepair, decodeRepair},
	{DecodeSalvage, decodeSalvage},
}

// DecodeLenient parses generation output into a JSON value with a cascading
// fallback strategy. It never fails: if every strategy comes up empty the
// result is an object with an empty entities list. The strategy that produced
// the value is returned for tracing.
func DecodeLenient(raw string) (any, DecodeStrategy) {
	raw = strings.TrimSpace(raw)

	for _, attempt := range decodeCascade {
		if value, ok := attempt.decode(raw); ok {
			return value, attempt.strategy
		}
	}

	return map[string]any{"entities": []any{}}, DecodeEmpty
}

func decodeDirect(raw string) (any, bool) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false
	}
	if value == nil {
		return nil, false
	}
	return value, true
}

func decodeBraceExtract(raw string) (any, bool) {
	return decodeExtracted(raw, func(s string) string { return s })
}

func decodeCommaFix(raw string) (any, bool) {
	return decodeExtracted(raw, stripTrailingCommas)
}

// decodeExtracted pulls the first balanced object out of surrounding prose,
// falling back to the first balanced array. A salvaged bare array is wrapped
// into an entities object, matching what callers of entity extraction expect.
func decodeExtracted(raw string, fix func(string) string) (any, bool) {
	if sub, ok := extractBalanced(raw, '{', '}'); ok {
		var value any
		if err := json.Unmarshal([]byte(fix(sub)), &value); err == nil {
			return value, true
		}
	}

	if sub, ok := extractBalanced(raw, '[', ']'); ok {
		var value any
		if err := json.Unmarshal([]byte(fix(sub)), &value); err == nil {
			return map[string]any{"entities": value}, true
		}
	}

	return nil, false
}

func decodeRepair(raw string) (any, bool) {
	repaired, err := jsonrepair.JSONRepair(stripDuplicateLeadingBrace(raw))
	if err != nil {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, false
	}

	// Repair can turn free text into a bare JSON string. Only structured
	// values count as a successful decode.
	switch value.(type) {
	case map[string]any, []any:
		return value, true
	}
	return nil, false
}

func decodeSalvage(raw string) (any, bool) {
	matches := nameTypePairRe.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, false
	}

	entities := make([]any, 0, len(matches))
	for _, m := range matches {
		entities = append(entities, map[string]any{"name": m[1], "type": m[2]})
	}
	return map[string]any{"entities": entities}, true
}

func stripTrailingCommas(s string) string {
	s = trailingObjCommaRe.ReplaceAllString(s, "}")
	s = trailingArrCommaRe.ReplaceAllString(s, "]")
	return s
}

// extractBalanced returns the first substring delimited by a balanced
// open/close pair, honoring JSON string literals and escapes.
func extractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		rest := strings.TrimSpace(s[1:])
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}

// DecodeInto attempts to unmarshal JSON into the target with multiple fallback
// strategies: standard unmarshaling, double-encoded JSON strings, and repair
// of malformed JSON. Used for schema-constrained responses where the shape is
// known up front.
func DecodeInto(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	input = stripDuplicateLeadingBrace(input)
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return fmt.Errorf(
		"unmarshal failed after repair: input=%s repaired=%s",
		input, repaired,
	)
}
