package param

import (
	"math"
	"regexp"
	"slices"
	"time"
)

// Validate checks value against spec. Checks run in a fixed order: required,
// then type, then the type's facets (enum, length, pattern for strings; range
// for numerics). The first failing check wins; an absent value with Required
// unset passes without further checks.
func Validate(value any, spec Spec) error {
	return ValidateNamed("", value, spec)
}

// ValidateNamed is Validate with a parameter name attached to any error.
func ValidateNamed(name string, value any, spec Spec) error {
	if value == nil {
		if spec.Required {
			return newError(ErrMissingRequired, name, value, "no value supplied")
		}
		return nil
	}

	switch spec.Type {
	case TypeString:
		return validateString(name, value, spec)
	case TypeInteger:
		n, ok := asInteger(value)
		if !ok {
			return newError(ErrTypeMismatch, name, value, "expected an integer, got %T", value)
		}
		return validateRange(name, value, n, spec)
	case TypeNumber:
		n, ok := asNumber(value)
		if !ok {
			return newError(ErrTypeMismatch, name, value, "expected a number, got %T", value)
		}
		return validateRange(name, value, n, spec)
	case TypeDate:
		if _, ok := value.(time.Time); !ok {
			return newError(ErrTypeMismatch, name, value, "expected a time.Time, got %T", value)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return newError(ErrTypeMismatch, name, value, "expected a bool, got %T", value)
		}
	}
	return nil
}

func validateString(name string, value any, spec Spec) error {
	s, ok := value.(string)
	if !ok {
		return newError(ErrTypeMismatch, name, value, "expected a string, got %T", value)
	}
	if len(spec.Enum) > 0 && !slices.Contains(spec.Enum, s) {
		return newError(ErrEnumViolation, name, value, "%q is not one of %v", s, spec.Enum)
	}
	if spec.MinLength != nil && len(s) < *spec.MinLength {
		return newError(ErrLengthViolation, name, value, "length %d below minimum %d", len(s), *spec.MinLength)
	}
	if spec.MaxLength != nil && len(s) > *spec.MaxLength {
		return newError(ErrLengthViolation, name, value, "length %d above maximum %d", len(s), *spec.MaxLength)
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return newError(ErrPatternViolation, name, value, "invalid pattern %q: %v", spec.Pattern, err)
		}
		if !re.MatchString(s) {
			return newError(ErrPatternViolation, name, value, "%q does not match %q", s, spec.Pattern)
		}
	}
	return nil
}

func validateRange(name string, value any, n float64, spec Spec) error {
	if spec.Minimum != nil && n < *spec.Minimum {
		return newError(ErrRangeViolation, name, value, "%v below minimum %v", n, *spec.Minimum)
	}
	if spec.Maximum != nil && n > *spec.Maximum {
		return newError(ErrRangeViolation, name, value, "%v above maximum %v", n, *spec.Maximum)
	}
	return nil
}

// asInteger accepts Go integer kinds and floats that are exactly
// representable as integers. Strings are never coerced.
func asInteger(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		f := float64(v)
		return f, f == math.Trunc(f)
	case float64:
		return v, v == math.Trunc(v)
	}
	return 0, false
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return asInteger(value)
}
