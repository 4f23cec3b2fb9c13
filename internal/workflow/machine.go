// Package workflow implements the simulated fixed-delay state machines
// behind site generation, deployment, domain connection and subdomain
// publishing. Each machine transitions idle -> pending -> success after its
// configured delay; the error state is representable but never produced by
// the simulation.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	StateIdle    = "idle"
	StatePending = "pending"
	StateSuccess = "success"
	StateError   = "error"

	logEventPersistState    = "persist_workflow_state"
	logEventCompleteFailure = "complete_workflow"
)

var (
	// ErrWorkflowPending indicates the machine is mid-run; triggering is
	// rejected at the engine, not just disabled in a view.
	ErrWorkflowPending = errors.New("workflow: already pending")
)

// Notifier receives the completion notification. The notification center
// satisfies this interface.
type Notifier interface {
	Success(ownerID string, title string, message string)
}

// CompletionFunc runs extra persistence when a run finishes, before the
// terminal state is written.
type CompletionFunc func(ctx context.Context, ownerID string) error

// Machine is one simulated workflow. The persisted store holds the state per
// owner so a reload re-derives exactly what was last written; an in-memory
// set guards against concurrent triggers within this process.
type Machine struct {
	kind            string
	statusKey       string
	delay           time.Duration
	persistedStore  store.Store
	notifier        Notifier
	logger          *zap.Logger
	successTitle    string
	successMessage  string
	onSuccess       CompletionFunc
	mutex           sync.Mutex
	inFlightByOwner map[string]struct{}
}

// MachineConfig captures the fixed parameters of one workflow machine.
type MachineConfig struct {
	Kind           string
	StatusKey      string
	Delay          time.Duration
	SuccessTitle   string
	SuccessMessage string
	OnSuccess      CompletionFunc
}

// NewMachine constructs a workflow machine.
func NewMachine(persistedStore store.Store, notifier Notifier, logger *zap.Logger, configuration MachineConfig) *Machine {
	return &Machine{
		kind:            configuration.Kind,
		statusKey:       configuration.StatusKey,
		delay:           configuration.Delay,
		persistedStore:  persistedStore,
		notifier:        notifier,
		logger:          logger,
		successTitle:    configuration.SuccessTitle,
		successMessage:  configuration.SuccessMessage,
		onSuccess:       configuration.OnSuccess,
		inFlightByOwner: make(map[string]struct{}),
	}
}

// State reads the owner's persisted state, defaulting to idle.
func (machine *Machine) State(ctx context.Context, ownerID string) (string, error) {
	currentState := StateIdle
	if _, loadErr := store.Load(ctx, machine.persistedStore, ownerID, machine.statusKey, &currentState); loadErr != nil {
		return "", loadErr
	}
	return currentState, nil
}

// Trigger starts a run. A run already pending for the owner is rejected; a
// terminal state is re-triggerable. The pending state is persisted before
// Trigger returns, and the terminal state lands after the simulated delay.
func (machine *Machine) Trigger(ctx context.Context, ownerID string) error {
	machine.mutex.Lock()
	if _, inFlight := machine.inFlightByOwner[ownerID]; inFlight {
		machine.mutex.Unlock()
		return ErrWorkflowPending
	}
	machine.inFlightByOwner[ownerID] = struct{}{}
	machine.mutex.Unlock()

	if persistErr := machine.persistedStore.Set(ctx, ownerID, machine.statusKey, StatePending); persistErr != nil {
		machine.clearInFlight(ownerID)
		machine.logger.Warn(logEventPersistState, zap.String("workflow", machine.kind), zap.Error(persistErr))
		return persistErr
	}

	time.AfterFunc(machine.delay, func() {
		machine.complete(ownerID)
	})
	return nil
}

func (machine *Machine) complete(ownerID string) {
	defer machine.clearInFlight(ownerID)

	completionContext := context.Background()
	if machine.onSuccess != nil {
		if completionErr := machine.onSuccess(completionContext, ownerID); completionErr != nil {
			machine.logger.Warn(logEventCompleteFailure, zap.String("workflow", machine.kind), zap.Error(completionErr))
		}
	}

	if persistErr := machine.persistedStore.Set(completionContext, ownerID, machine.statusKey, StateSuccess); persistErr != nil {
		machine.logger.Warn(logEventPersistState, zap.String("workflow", machine.kind), zap.Error(persistErr))
		return
	}

	if machine.notifier != nil {
		machine.notifier.Success(ownerID, machine.successTitle, machine.successMessage)
	}
}

func (machine *Machine) clearInFlight(ownerID string) {
	machine.mutex.Lock()
	delete(machine.inFlightByOwner, ownerID)
	machine.mutex.Unlock()
}
