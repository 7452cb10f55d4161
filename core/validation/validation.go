// Package validation provides named validators attached to component
// fields. A validator is a pure predicate over a field value; its name
// identifies the failed rule in validation failure maps.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Validator is a named validation rule. Func reports whether a value
// satisfies the rule.
type Validator struct {
	Name string
	Func func(value any) bool
}

// Custom builds a validator from an arbitrary predicate.
func Custom(name string, fn func(value any) bool) Validator {
	return Validator{Name: name, Func: fn}
}

// NotEmpty requires a non-blank string, a non-empty slice or map, or a
// non-nil value of any other type.
func NotEmpty() Validator {
	return Validator{
		Name: "notEmpty()",
		Func: func(value any) bool {
			switch v := value.(type) {
			case nil:
				return false
			case string:
				return strings.TrimSpace(v) != ""
			case []any:
				return len(v) > 0
			case map[string]any:
				return len(v) > 0
			default:
				return true
			}
		},
	}
}

// MinLength requires a string or slice of at least n elements.
// Values of other types pass.
func MinLength(n int) Validator {
	return Validator{
		Name: fmt.Sprintf("minLength(%d)", n),
		Func: func(value any) bool {
			length, ok := lengthOf(value)
			if !ok {
				return true
			}
			return length >= n
		},
	}
}

// MaxLength requires a string or slice of at most n elements.
// Values of other types pass.
func MaxLength(n int) Validator {
	return Validator{
		Name: fmt.Sprintf("maxLength(%d)", n),
		Func: func(value any) bool {
			length, ok := lengthOf(value)
			if !ok {
				return true
			}
			return length <= n
		},
	}
}

// Min requires a numeric value of at least n. Non-numeric values pass.
func Min(n float64) Validator {
	return Validator{
		Name: fmt.Sprintf("min(%v)", n),
		Func: func(value any) bool {
			v, err := toFloat64(value)
			if err != nil {
				return true
			}
			return v >= n
		},
	}
}

// Max requires a numeric value of at most n. Non-numeric values pass.
func Max(n float64) Validator {
	return Validator{
		Name: fmt.Sprintf("max(%v)", n),
		Func: func(value any) bool {
			v, err := toFloat64(value)
			if err != nil {
				return true
			}
			return v <= n
		},
	}
}

// Pattern requires string values to match a regular expression. The
// expression must be valid; callers validating untrusted expressions
// should compile them first.
func Pattern(expr string) Validator {
	re := regexp.MustCompile(expr)
	return Validator{
		Name: fmt.Sprintf("pattern(%s)", expr),
		Func: func(value any) bool {
			str, ok := value.(string)
			if !ok {
				return true
			}
			return re.MatchString(str)
		},
	}
}

// OneOf requires the value to equal one of the allowed values, compared
// by their printed form.
func OneOf(allowed ...any) Validator {
	var options []string
	for _, v := range allowed {
		options = append(options, fmt.Sprintf("%v", v))
	}
	return Validator{
		Name: fmt.Sprintf("oneOf(%s)", strings.Join(options, ", ")),
		Func: func(value any) bool {
			str := fmt.Sprintf("%v", value)
			for _, opt := range options {
				if opt == str {
					return true
				}
			}
			return false
		},
	}
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	case []any:
		return len(v), true
	case []string:
		return len(v), true
	default:
		return 0, false
	}
}

// toFloat64 converts various numeric types to float64.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
