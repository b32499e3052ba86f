package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"zahlentrainer/internal/models"
)

const (
	// MaxValue is the largest number a drill may ask for
	MaxValue = 1000

	minDecimalPlaces = 1
	maxDecimalPlaces = 2
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with errors.Is
func (e ValidationError) Unwrap() error {
	return models.ErrInvalidSettings
}

// ValidateSettings checks the generation bounds
func ValidateSettings(s models.Settings) error {
	if s.Min < 0 {
		return ValidationError{Field: "min", Message: "min must be at least 0"}
	}
	if s.Max > MaxValue {
		return ValidationError{Field: "max", Message: fmt.Sprintf("max must be at most %d", MaxValue)}
	}
	if s.Min > s.Max {
		return ValidationError{Field: "min", Message: "min must not be greater than max"}
	}
	if s.AllowDecimal && (s.DecimalPlaces < minDecimalPlaces || s.DecimalPlaces > maxDecimalPlaces) {
		return ValidationError{Field: "decimalPlaces", Message: "decimal places must be 1 or 2"}
	}
	return nil
}

// ParseSettingsQuery builds settings from request query parameters.
// A difficulty parameter selects a preset; explicit parameters override it.
func ParseSettingsQuery(q url.Values) (models.Settings, error) {
	return ParseSettingsQueryWithBase(models.DefaultSettings(), q)
}

// ParseSettingsQueryWithBase is ParseSettingsQuery starting from base instead
// of the built-in defaults
func ParseSettingsQueryWithBase(base models.Settings, q url.Values) (models.Settings, error) {
	s := base

	if name := strings.TrimSpace(q.Get("difficulty")); name != "" {
		d, ok := models.DifficultyByName(strings.ToLower(name))
		if !ok {
			return s, ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", name)}
		}
		s = d.Settings
	}

	var err error
	if s.Min, err = intParam(q, "min", s.Min); err != nil {
		return s, err
	}
	if s.Max, err = intParam(q, "max", s.Max); err != nil {
		return s, err
	}
	if s.DecimalPlaces, err = intParam(q, "decimalPlaces", s.DecimalPlaces); err != nil {
		return s, err
	}
	if v := q.Get("decimal"); v != "" {
		s.AllowDecimal = v == "true"
	}

	return s, ValidateSettings(s)
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}
