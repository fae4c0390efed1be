package errors

import (
	"math"
	"regexp"
)

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// ValidatePositive requires a finite value strictly greater than zero.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be greater than zero, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative requires a finite value greater than or equal to zero.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb color literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS hex color literal. Empty strings are
// accepted and mean "not set".
func ValidateHexColor(field, color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidOption, "%s must be a hex color like #1f77b4, got %q", field, color)
	}
	return nil
}

// ValidateDimension validates an output width or height in pixels.
func ValidateDimension(field string, v float64) error {
	if err := ValidatePositive(field, v); err != nil {
		return New(ErrCodeInvalidOption, "%s", UserMessage(err))
	}
	const maxDimension = 20000
	if v > maxDimension {
		return New(ErrCodeInvalidOption, "%s too large (max %d)", field, maxDimension)
	}
	return nil
}
