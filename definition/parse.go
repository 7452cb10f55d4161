package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pokkur/layr/core/component"
)

// ParseFile parses a definition document from a YAML file.
func ParseFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a definition document from YAML bytes.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := Validate(def); err != nil {
		return Definition{}, fmt.Errorf("validate definition %q: %w", def.Registry, err)
	}

	return def, nil
}

// ParseDir parses all definition documents from a directory, including
// subdirectories.
func ParseDir(dir string) ([]Definition, error) {
	var defs []Definition

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			subDefs, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			defs = append(defs, subDefs...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// Validate validates a definition document.
func Validate(def Definition) error {
	var errs []string

	if def.Registry != "" {
		if err := component.ValidateName(def.Registry); err != nil {
			errs = append(errs, fmt.Sprintf("registry name: %v", err))
		}
	}

	if len(def.Components) == 0 {
		errs = append(errs, "definition must declare at least one component")
	}

	seen := make(map[string]bool)
	for _, comp := range def.Components {
		if err := component.ValidateName(comp.Name); err != nil {
			errs = append(errs, fmt.Sprintf("component name: %v", err))
		}
		if seen[comp.Name] {
			errs = append(errs, fmt.Sprintf("component %q is declared twice", comp.Name))
		}
		seen[comp.Name] = true

		for name, field := range comp.Fields {
			if err := validateField(comp.Name, name, field); err != nil {
				errs = append(errs, err.Error())
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateField validates a single field declaration.
func validateField(comp, name string, field Field) error {
	ft := component.ParseFieldType(field.Type)
	if ft.Name == "" {
		return fmt.Errorf("field %q of %q: type is required", name, comp)
	}
	if !ft.IsComponent() {
		if err := validateDefault(comp, name, ft, field.Default); err != nil {
			return err
		}
	} else {
		if err := component.ValidateName(ft.Name); err != nil {
			return fmt.Errorf("field %q of %q: %v", name, comp, err)
		}
		if field.Default != nil {
			return fmt.Errorf("field %q of %q: component references take no default", name, comp)
		}
	}

	for _, v := range field.Validators {
		if err := validateValidator(comp, name, v); err != nil {
			return err
		}
	}

	return nil
}

// validateDefault validates that a scalar default matches the field
// type. Array defaults are checked per element.
func validateDefault(comp, name string, ft component.FieldType, value any) error {
	if value == nil {
		return nil
	}
	if ft.IsArray {
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("field %q of %q: default must be a list", name, comp)
		}
		scalar := component.FieldType{Name: ft.Name}
		for _, item := range items {
			if err := validateDefault(comp, name, scalar, item); err != nil {
				return err
			}
		}
		return nil
	}
	switch ft.Name {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q of %q: default must be a string", name, comp)
		}
	case "number":
		switch value.(type) {
		case int, int64, float64:
		default:
			return fmt.Errorf("field %q of %q: default must be a number", name, comp)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %q of %q: default must be a boolean", name, comp)
		}
	}
	return nil
}

// validateValidator validates a single validation rule declaration.
func validateValidator(comp, name string, v Validator) error {
	switch v.Type {
	case ValidatorNotEmpty:
		return nil
	case ValidatorMinLength, ValidatorMaxLength:
		if _, err := toInt(v.Value); err != nil {
			return fmt.Errorf("field %q of %q: %s requires an integer value", name, comp, v.Type)
		}
	case ValidatorMin, ValidatorMax:
		if _, err := toFloat64(v.Value); err != nil {
			return fmt.Errorf("field %q of %q: %s requires a numeric value", name, comp, v.Type)
		}
	case ValidatorPattern:
		expr, ok := v.Value.(string)
		if !ok {
			return fmt.Errorf("field %q of %q: pattern requires a string value", name, comp)
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("field %q of %q: invalid pattern: %v", name, comp, err)
		}
	case ValidatorOneOf:
		if vals := oneOfValues(v.Value); len(vals) == 0 {
			return fmt.Errorf("field %q of %q: one_of requires a value list", name, comp)
		}
	default:
		return fmt.Errorf("field %q of %q: unknown validator type %q", name, comp, v.Type)
	}
	return nil
}

// oneOfValues normalizes a one_of value list.
func oneOfValues(v any) []any {
	switch vals := v.(type) {
	case []any:
		return vals
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	default:
		return nil
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
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

// toInt converts various types to int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
