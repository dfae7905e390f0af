package judge

import (
	"encoding/json"
	"strings"
)

// FormatArgs converts a JSON-encoded test-case input into a literal
// expression for the target language. Input that does not parse as
// JSON is passed through verbatim; this is a fallback for legacy test
// cases, not a validation layer.
func FormatArgs(input, language string) string {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return input
	}
	// Trailing garbage after the value means the input is not a single
	// JSON document; treat it as raw text.
	if dec.More() {
		return input
	}

	return formatValue(parsed, language)
}

func formatValue(v interface{}, language string) string {
	switch val := v.(type) {
	case string:
		return formatString(val, language)
	case []interface{}:
		return formatList(val, language)
	case bool:
		return formatBool(val, language)
	case json.Number:
		return val.String()
	case nil:
		switch language {
		case "python":
			return "None"
		case "javascript":
			return "null"
		default:
			return "NULL"
		}
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatString(s, language string) string {
	switch language {
	case "python", "javascript":
		b, _ := json.Marshal(s)
		return string(b)
	default:
		return `"` + s + `"`
	}
}

func formatList(items []interface{}, language string) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, formatValue(item, language))
	}
	joined := strings.Join(rendered, ", ")

	switch language {
	case "python", "javascript":
		return "[" + joined + "]"
	case "c", "cpp", "java":
		// Array initializer syntax; the synthesized entry point owns
		// the element type.
		return "{" + joined + "}"
	default:
		return "[" + joined + "]"
	}
}

func formatBool(b bool, language string) string {
	switch language {
	case "python":
		if b {
			return "True"
		}
		return "False"
	case "javascript":
		if b {
			return "true"
		}
		return "false"
	default:
		if b {
			return "1"
		}
		return "0"
	}
}
