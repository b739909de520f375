package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a node or pathway identifier.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters (tabs and newlines break TSV inputs)
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s identifier cannot be empty", kind)
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s identifier too long (max 256 characters)", kind)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s identifier %q contains control characters", kind, id)
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "%s identifier %q has surrounding whitespace", kind, id)
	}
	return nil
}

// ValidateExpression checks that every value of an expression map is finite
// and every key is a valid node identifier.
func ValidateExpression(expr map[string]float64) error {
	for id, v := range expr {
		if err := ValidateIdentifier("node", id); err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "expression value for %q is not finite", id)
		}
	}
	return nil
}

// ValidateProbability checks that p lies in (0, 1].
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %v", name, p)
	}
	return nil
}
