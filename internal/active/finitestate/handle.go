// Package finitestate provides the finite state machine that tracks the
// lifecycle of a transaction handle.
//
// Handle Lifecycle:
//  1. Unopened - Handle created, host transaction not yet attached
//  2. Open - Host transaction started and available to the caller
//  3. Committed - Work was committed (terminal)
//  4. Discarded - Work was abandoned on callback or commit failure (terminal)
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Handle state constants
const (
	StateUnopened  = "unopened"
	StateOpen      = "open"
	StateCommitted = "committed"
	StateDiscarded = "discarded"
)

// HandleTransitions defines the valid state transitions for a transaction handle.
var HandleTransitions = map[string][]string{
	StateUnopened:  {StateOpen, StateDiscarded},
	StateOpen:      {StateCommitted, StateDiscarded},
	StateCommitted: {},
	StateDiscarded: {},
}

// HandleTerminalStates lists the states a handle never leaves.
var HandleTerminalStates = []string{StateCommitted, StateDiscarded}

// Machine defines the interface for the handle state machine.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// New creates a new handle state machine in the unopened state.
func New(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StateUnopened, HandleTransitions)
}
