package alb

import (
	"fmt"
	"strings"
)

// Error codes for configuration failures.
const (
	ErrCodeConfigMissing = "CONFIG_MISSING"
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// Sentinel errors for use with errors.Is.
var (
	ErrConfigMissing = &ConfigError{Code: ErrCodeConfigMissing}
	ErrConfigInvalid = &ConfigError{Code: ErrCodeConfigInvalid}
)

// ConfigError reports a missing or invalid options block. Message is the
// exact user-facing text; Violations lists the individual clauses.
type ConfigError struct {
	Code       string
	Message    string
	Violations []string
	Suggestion string
}

// Error returns the user-facing message.
func (e *ConfigError) Error() string {
	return e.Message
}

// Is reports whether target is a ConfigError with the same code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Format returns the message followed by each violation and the suggestion.
func (e *ConfigError) Format() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v)
	}
	if e.Suggestion != "" {
		b.WriteString("\n  Suggestion: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// NewConfigMissingError reports that custom.serverless-alb-manager is absent.
func NewConfigMissingError() *ConfigError {
	return &ConfigError{
		Code: ErrCodeConfigMissing,
		Message: fmt.Sprintf(
			"%s: Please define ALB options in serverless.yml:custom.%s. See README.md for details.",
			PluginName, ConfigKey,
		),
		Suggestion: fmt.Sprintf("Add a custom.%s block with vpcId, subnetIds, certificateArn and domainName.", ConfigKey),
	}
}

// NewConfigInvalidError aggregates schema violations into one error.
func NewConfigInvalidError(violations []string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeConfigInvalid,
		Message: fmt.Sprintf("%s: Invalid configuration. ValidationError: %s",
			PluginName, strings.Join(violations, ". ")),
		Violations: append([]string(nil), violations...),
	}
}
