package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewHookFailedError(HookCompileFunctions, "alb", cause)

	assert.Equal(t, "boom", err.Error())
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestHookError_Format(t *testing.T) {
	t.Parallel()

	err := NewHookOutOfOrderError(HookCompileFunctions, PhasePending)

	formatted := err.Format()
	assert.Contains(t, formatted, "[HOOK_OUT_OF_ORDER]")
	assert.Contains(t, formatted, "Hook: package:compileFunctions")
	assert.Contains(t, formatted, "Suggestion: Fire hooks in order: package:setupProviderConfiguration, package:compileFunctions.")
}

func TestHookError_Is(t *testing.T) {
	t.Parallel()

	err := NewUnknownHookError("x")

	assert.ErrorIs(t, err, &HookError{Code: ErrCodeUnknownHook})
	assert.NotErrorIs(t, err, &HookError{Code: ErrCodeHookFailed})
	assert.NotErrorIs(t, err, errors.New("other"))
}
