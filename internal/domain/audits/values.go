package audits

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Helpers for reading the loosely typed details objects. Missing or
// malformed values read as absent or zero instead of failing.

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	}
	return false
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// toNumber coerces v like a numeric context would; nil is zero and
// unparseable text is NaN.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	case float64, float32, int, int64, int32, json.Number:
		f := toNumber(n)
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func length(v any) int {
	if a, ok := v.([]any); ok {
		return len(a)
	}
	return 0
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// display renders v as inline text.
func display(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case bool:
		return strconv.FormatBool(n)
	case float64, float32, int, int64, int32, json.Number:
		return formatNumber(toNumber(n))
	case []any:
		parts := make([]string, len(n))
		for i, x := range n {
			parts[i] = display(x)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// orZero is v when truthy, otherwise "0".
func orZero(v any) string {
	if !truthy(v) {
		return "0"
	}
	return display(v)
}

// coalesce is v when present, otherwise "0".
func coalesce(v any) string {
	if v == nil {
		return "0"
	}
	return display(v)
}

func coalesceValue(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// Percent formats num/den as "N%", or "—" when den is zero.
func Percent(num, den float64) string {
	if den == 0 || math.IsNaN(den) {
		return "—"
	}
	r := num / den * 100
	if math.IsNaN(r) {
		return "NaN%"
	}
	return strconv.Itoa(roundHalfUp(r)) + "%"
}

func siNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
