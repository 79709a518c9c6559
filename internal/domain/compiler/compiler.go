// Package compiler drives the package build lifecycle. Registered providers
// contribute callbacks to the lifecycle hooks, and a state machine enforces
// that the hooks fire once each and in order.
package compiler

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is the position of a build in the package lifecycle.
type Phase string

const (
	statePending  = "pending"
	stateSetup    = "setup"
	statePackaged = "packaged"
	stateFailed   = "failed"
)

// Lifecycle phases.
const (
	// PhasePending means no hook has run yet.
	PhasePending Phase = statePending
	// PhaseSetup means provider configuration is set up and functions are not yet compiled.
	PhaseSetup Phase = stateSetup
	// PhasePackaged means every hook has run.
	PhasePackaged Phase = statePackaged
	// PhaseFailed means a hook failed; the build must be reset.
	PhaseFailed Phase = stateFailed
)

// Lifecycle machine events.
const (
	EventSetupComplete   = "SETUP_COMPLETE"
	EventCompileComplete = "COMPILE_COMPLETE"
	EventFail            = "FAIL"
	EventReset           = "RESET"
)

// lifecycleState is the statekit machine context.
type lifecycleState struct {
	Failures int
}

// Compiler fires lifecycle hooks on registered providers.
type Compiler struct {
	providers []Provider
	state     *lifecycleState
	interp    *statekit.Interpreter[lifecycleState]
}

// NewCompiler creates a Compiler in the pending phase.
func NewCompiler() (*Compiler, error) {
	state := &lifecycleState{}
	interp, err := buildLifecycleMachine(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build lifecycle machine: %w", err)
	}
	interp.Start()

	return &Compiler{
		providers: make([]Provider, 0),
		state:     state,
		interp:    interp,
	}, nil
}

// buildLifecycleMachine constructs the lifecycle state machine. The state
// pointer is captured by closures so actions modify the original context.
func buildLifecycleMachine(state *lifecycleState) (*statekit.Interpreter[lifecycleState], error) {
	machine, err := statekit.NewMachine[lifecycleState]("package-lifecycle").
		WithInitial(statePending).
		WithContext(*state).
		WithAction("recordFailure", func(_ *lifecycleState, _ statekit.Event) {
			state.Failures++
		}).
		State(statePending).
		On(EventSetupComplete).Target(stateSetup).
		On(EventFail).Target(stateFailed).Done().
		State(stateSetup).
		On(EventCompileComplete).Target(statePackaged).
		On(EventFail).Target(stateFailed).
		On(EventReset).Target(statePending).Done().
		State(statePackaged).
		On(EventReset).Target(statePending).Done().
		State(stateFailed).
		OnEntry("recordFailure").
		On(EventReset).Target(statePending).Done().
		Build()

	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}

// RegisterProvider adds a provider to the compiler.
// Providers are called in registration order for every hook.
func (c *Compiler) RegisterProvider(provider Provider) {
	c.providers = append(c.providers, provider)
}

// Providers returns all registered providers.
func (c *Compiler) Providers() []Provider {
	return c.providers
}

// Phase returns the current lifecycle phase.
func (c *Compiler) Phase() Phase {
	return Phase(c.interp.State().Value)
}

// Failures returns how many builds failed since the compiler was created.
func (c *Compiler) Failures() int {
	return c.state.Failures
}

// Trigger fires one lifecycle hook on every provider that registered it.
// The first provider error stops the hook and moves the build to PhaseFailed.
func (c *Compiler) Trigger(ctx context.Context, hook string, bctx *BuildContext) error {
	var want Phase
	var done statekit.EventType
	switch hook {
	case HookSetupProviderConfiguration:
		want, done = PhasePending, EventSetupComplete
	case HookCompileFunctions:
		want, done = PhaseSetup, EventCompileComplete
	default:
		return NewUnknownHookError(hook)
	}

	if phase := c.Phase(); phase != want {
		return NewHookOutOfOrderError(hook, phase)
	}

	for _, provider := range c.providers {
		fn, ok := provider.Hooks()[hook]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			c.interp.Send(statekit.Event{Type: EventFail})
			return err
		}
		if err := fn(ctx, bctx); err != nil {
			c.interp.Send(statekit.Event{Type: EventFail})
			return NewHookFailedError(hook, provider.Name(), err)
		}
	}

	c.interp.Send(statekit.Event{Type: done})
	return nil
}

// Package fires every hook of the package lifecycle in order.
func (c *Compiler) Package(ctx context.Context, bctx *BuildContext) error {
	for _, hook := range PackageLifecycle {
		if err := c.Trigger(ctx, hook, bctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the compiler to PhasePending so another build can run.
func (c *Compiler) Reset() {
	if c.Phase() != PhasePending {
		c.interp.Send(statekit.Event{Type: EventReset})
	}
}
