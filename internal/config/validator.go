package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/focusgate/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "onboarding.auto_advance_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the logger's levels as they are written in the
// config file.
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	for i, l := range levels {
		levels[i] = strings.ToLower(l)
	}
	return levels
}

// maxAutoAdvanceMs caps the success acknowledgment so a typo cannot stall the tour.
const maxAutoAdvanceMs = 60_000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBroadcast()...)
	errors = append(errors, c.validateOnboarding()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateBroadcast() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Broadcast.LogFile) == "" {
		errors = append(errors, ValidationError{
			Field:   "broadcast.log_file",
			Value:   c.Broadcast.LogFile,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateOnboarding() []ValidationError {
	var errors []ValidationError

	if c.Onboarding.AutoAdvanceMs <= 0 || c.Onboarding.AutoAdvanceMs > maxAutoAdvanceMs {
		errors = append(errors, ValidationError{
			Field:   "onboarding.auto_advance_ms",
			Value:   c.Onboarding.AutoAdvanceMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxAutoAdvanceMs),
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.FeedSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.feed_size",
			Value:   c.TUI.FeedSize,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
