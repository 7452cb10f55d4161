package validation

import "testing"

func TestNotEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"non-empty string", "hello", true},
		{"empty string", "", false},
		{"whitespace string", "   ", false},
		{"nil", nil, false},
		{"non-empty slice", []any{1}, true},
		{"empty slice", []any{}, false},
		{"empty map", map[string]any{}, false},
		{"number passes", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NotEmpty().Func(tt.value); got != tt.want {
				t.Errorf("NotEmpty()(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMinLength(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		value any
		want  bool
	}{
		{"long enough string", 3, "abcd", true},
		{"exact length", 3, "abc", true},
		{"too short", 3, "ab", false},
		{"slice counted", 2, []any{1, 2}, true},
		{"short slice", 2, []any{1}, false},
		{"non-lengthy passes", 3, 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinLength(tt.n).Func(tt.value); got != tt.want {
				t.Errorf("MinLength(%d)(%v) = %v, want %v", tt.n, tt.value, got, tt.want)
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	if got := MaxLength(3).Func("abcd"); got {
		t.Error("MaxLength(3)(abcd) = true, want false")
	}
	if got := MaxLength(3).Func("abc"); !got {
		t.Error("MaxLength(3)(abc) = false, want true")
	}
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name  string
		v     Validator
		value any
		want  bool
	}{
		{"min satisfied", Min(10), 15, true},
		{"min boundary", Min(10), 10, true},
		{"min violated", Min(10), 9, false},
		{"min float input", Min(10), 9.5, false},
		{"min non-numeric passes", Min(10), "abc", true},
		{"max satisfied", Max(10), 5, true},
		{"max violated", Max(10), 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Func(tt.value); got != tt.want {
				t.Errorf("%s(%v) = %v, want %v", tt.v.Name, tt.value, got, tt.want)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	v := Pattern(`^[a-z]+$`)
	if !v.Func("abc") {
		t.Error("pattern did not match abc")
	}
	if v.Func("ABC") {
		t.Error("pattern matched ABC")
	}
	if !v.Func(42) {
		t.Error("non-string should pass")
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("draft", "published")
	if !v.Func("draft") {
		t.Error("oneOf rejected draft")
	}
	if v.Func("deleted") {
		t.Error("oneOf accepted deleted")
	}
}

func TestCustom(t *testing.T) {
	v := Custom("even()", func(value any) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	})
	if v.Name != "even()" {
		t.Errorf("Name = %q, want even()", v.Name)
	}
	if !v.Func(4) || v.Func(3) {
		t.Error("custom predicate misbehaved")
	}
}

func TestValidatorNames(t *testing.T) {
	tests := []struct {
		v    Validator
		want string
	}{
		{NotEmpty(), "notEmpty()"},
		{MinLength(3), "minLength(3)"},
		{MaxLength(120), "maxLength(120)"},
		{Min(1), "min(1)"},
		{Max(100), "max(100)"},
		{OneOf("a", "b"), "oneOf(a, b)"},
	}
	for _, tt := range tests {
		if tt.v.Name != tt.want {
			t.Errorf("Name = %q, want %q", tt.v.Name, tt.want)
		}
	}
}
