package questions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// elementSchema is the minimum shape an element of the bank must have.
// Optional facets are coerced rather than validated.
var elementSchema = map[string]any{
	"type":     "object",
	"required": []any{"question", "options", "answer"},
	"properties": map[string]any{
		"question": map[string]any{"type": "string"},
		"options":  map[string]any{"type": "array"},
		"answer":   map[string]any{"type": "number"},
	},
}

const elementSchemaURL = "schema://question-element.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// schema returns the compiled element schema, compiling it on first use.
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(elementSchemaURL, elementSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(elementSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Parse decodes a raw question bank and normalizes it.
func Parse(raw []byte) ([]Question, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return Normalize(data), nil
}

// Normalize converts decoded JSON into questions. Anything that is not an
// array yields an empty slice. Elements missing a string question, an
// options array or a numeric answer are dropped, as are elements whose
// answer does not index into their options.
func Normalize(data any) []Question {
	list, ok := data.([]any)
	if !ok {
		return []Question{}
	}

	sch, err := schema()
	if err != nil {
		return []Question{}
	}

	out := make([]Question, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		if err := sch.Validate(item); err != nil {
			continue
		}
		obj := item.(map[string]any)

		rawOptions := obj["options"].([]any)
		options := make([]string, len(rawOptions))
		for i, o := range rawOptions {
			options[i] = stringify(o)
		}

		answer, ok := answerIndex(obj["answer"], len(options))
		if !ok {
			continue
		}

		out = append(out, Question{
			Grade:    facet(obj["grade"]),
			Subject:  facet(obj["subject"]),
			Topic:    facet(obj["topic"]),
			Question: obj["question"].(string),
			Options:  options,
			Answer:   answer,
			Image:    trimmedString(obj["image"]),
			ImageAlt: trimmedString(obj["imageAlt"]),
		})
	}
	return out
}

// answerIndex converts a decoded JSON number to an option index.
func answerIndex(v any, n int) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) || f < 0 || f >= float64(n) {
		return 0, false
	}
	return int(f), true
}

// facet coerces an optional facet to a trimmed string. Falsy values
// (absent, null, false, 0, "") become empty.
func facet(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if !x {
			return ""
		}
	case float64:
		if x == 0 {
			return ""
		}
	case string:
		return strings.TrimSpace(x)
	}
	return strings.TrimSpace(stringify(v))
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringify renders a decoded JSON value the way a string coercion would.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
