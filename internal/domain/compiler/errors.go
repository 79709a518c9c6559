package compiler

import (
	"fmt"
	"strings"
)

// Error codes for lifecycle operations.
const (
	ErrCodeHookFailed     = "HOOK_FAILED"
	ErrCodeHookOutOfOrder = "HOOK_OUT_OF_ORDER"
	ErrCodeUnknownHook    = "UNKNOWN_HOOK"
)

// HookError reports a lifecycle failure. When a provider hook fails, Message is
// the provider's own error message, unchanged.
type HookError struct {
	Code       string // Error code for categorization
	Message    string // User-facing message
	Hook       string // Lifecycle hook being fired
	Provider   string // Provider whose hook failed, if any
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the message.
func (e *HookError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *HookError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a HookError with the same code.
func (e *HookError) Is(target error) bool {
	t, ok := target.(*HookError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Format returns a fully formatted error with all details.
func (e *HookError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Hook != "" {
		b.WriteString(fmt.Sprintf("\n  Hook: %s", e.Hook))
	}
	if e.Provider != "" {
		b.WriteString(fmt.Sprintf("\n  Provider: %s", e.Provider))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}

	return b.String()
}

// NewHookFailedError wraps a provider hook failure.
func NewHookFailedError(hook, provider string, err error) *HookError {
	return &HookError{
		Code:       ErrCodeHookFailed,
		Message:    err.Error(),
		Hook:       hook,
		Provider:   provider,
		Underlying: err,
	}
}

// NewHookOutOfOrderError reports a hook fired in the wrong lifecycle phase.
func NewHookOutOfOrderError(hook string, phase Phase) *HookError {
	return &HookError{
		Code:       ErrCodeHookOutOfOrder,
		Message:    fmt.Sprintf("hook %q cannot run in phase %q", hook, phase),
		Hook:       hook,
		Suggestion: fmt.Sprintf("Fire hooks in order: %s.", strings.Join(PackageLifecycle, ", ")),
	}
}

// NewUnknownHookError reports a hook name outside the package lifecycle.
func NewUnknownHookError(hook string) *HookError {
	return &HookError{
		Code:       ErrCodeUnknownHook,
		Message:    fmt.Sprintf("unknown lifecycle hook %q", hook),
		Hook:       hook,
		Suggestion: fmt.Sprintf("Known hooks: %s.", strings.Join(PackageLifecycle, ", ")),
	}
}
