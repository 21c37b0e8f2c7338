// Package normalization maps loosely typed configuration and CLI strings
// onto typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// Normalizer provides type-safe string-to-enum normalization.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are matched case-insensitively after trimming.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize returns the default value if raw is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[clean(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// Lookup reports whether raw is recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	value, exists := n.validValues[clean(raw)]
	return value, exists
}

// ValidKeys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EnumNormalizer adds a descriptive name used in error and warning messages.
type EnumNormalizer[T comparable] struct {
	*Normalizer[T]
	enumName string
}

// NewEnumNormalizer creates an enum normalizer with descriptive error messages.
func NewEnumNormalizer[T comparable](enumName string, values map[string]T, defaultValue T) *EnumNormalizer[T] {
	return &EnumNormalizer[T]{
		Normalizer: NewNormalizer(values, defaultValue),
		enumName:   enumName,
	}
}

// NormalizeWithValidation converts raw to an enum value. Empty input yields
// the default; unknown input is a validation error listing the valid values.
func (e *EnumNormalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	if clean(raw) == "" {
		return e.defaultValue, nil
	}
	if value, ok := e.Lookup(raw); ok {
		return value, nil
	}
	var zero T
	return zero, ferrors.ValidationError(fmt.Sprintf("invalid %s %q, valid options: %s",
		e.enumName, raw, strings.Join(e.validKeys, ", "))).
		WithContext("value", raw).
		Build()
}

// Result is the outcome of a normalization with an optional warning about
// the value having been rewritten.
type Result[T comparable] struct {
	Value   T
	Changed bool
	Warning string
}

// NormalizeWithWarning normalizes raw and reports whether the spelling was
// changed, so callers can tell the user about it.
func (e *EnumNormalizer[T]) NormalizeWithWarning(fieldName, raw string) Result[T] {
	cleaned := clean(raw)
	res := Result[T]{Value: e.Normalize(raw), Changed: cleaned != raw}
	if res.Changed {
		res.Warning = fmt.Sprintf("normalized %s from '%s' to '%s'", fieldName, raw, cleaned)
	}
	return res
}
