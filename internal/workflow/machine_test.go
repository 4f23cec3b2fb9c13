package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/store"
	"github.com/CandlelightHQ/candlelight_svc/internal/workflow"
)

const (
	testMachineKind      = "test_run"
	testMachineSuccess   = "Run Complete"
	testMachineMessage   = "The run finished"
	testCompletionRecord = "completed"
)

func newMachineUnderTest(t *testing.T, persistedStore store.Store, notifier workflow.Notifier, onSuccess workflow.CompletionFunc) *workflow.Machine {
	t.Helper()
	return workflow.NewMachine(persistedStore, notifier, zap.NewNop(), workflow.MachineConfig{
		Kind:           testMachineKind,
		StatusKey:      store.KeyDeployStatus,
		Delay:          testWorkflowDelayValue,
		SuccessTitle:   testMachineSuccess,
		SuccessMessage: testMachineMessage,
		OnSuccess:      onSuccess,
	})
}

func waitForMachineState(t *testing.T, machine *workflow.Machine, expectedState string) {
	t.Helper()
	require.Eventually(t, func() bool {
		currentState, stateErr := machine.State(context.Background(), testOwnerIdentifier)
		return stateErr == nil && currentState == expectedState
	}, testWorkflowWaitValue, testWorkflowPollValue)
}

func TestMachineStateDefaultsToIdle(t *testing.T) {
	machine := newMachineUnderTest(t, newMemoryStore(), &recordingNotifier{}, nil)

	currentState, stateErr := machine.State(context.Background(), testOwnerIdentifier)
	require.NoError(t, stateErr)
	require.Equal(t, workflow.StateIdle, currentState)
}

func TestMachineTriggerPersistsPendingThenSuccess(t *testing.T) {
	persistedStore := newMemoryStore()
	notifier := &recordingNotifier{}
	machine := newMachineUnderTest(t, persistedStore, notifier, nil)
	requestContext := context.Background()

	require.NoError(t, machine.Trigger(requestContext, testOwnerIdentifier))

	currentState, stateErr := machine.State(requestContext, testOwnerIdentifier)
	require.NoError(t, stateErr)
	require.Equal(t, workflow.StatePending, currentState)

	waitForMachineState(t, machine, workflow.StateSuccess)
	require.Contains(t, notifier.recordedTitles(), testMachineSuccess)
}

func TestMachineRunsCompletionHookBeforeTerminalState(t *testing.T) {
	persistedStore := newMemoryStore()
	completionRuns := make(chan string, 1)
	machine := newMachineUnderTest(t, persistedStore, &recordingNotifier{}, func(ctx context.Context, ownerID string) error {
		completionRuns <- ownerID
		return persistedStore.Set(ctx, ownerID, store.KeyDeployDomain, testCompletionRecord)
	})

	require.NoError(t, machine.Trigger(context.Background(), testOwnerIdentifier))
	waitForMachineState(t, machine, workflow.StateSuccess)

	select {
	case completedOwner := <-completionRuns:
		require.Equal(t, testOwnerIdentifier, completedOwner)
	case <-time.After(testWorkflowWaitValue):
		t.Fatal("completion hook never ran")
	}

	var recordedValue string
	populated, loadErr := store.Load(context.Background(), persistedStore, testOwnerIdentifier, store.KeyDeployDomain, &recordedValue)
	require.NoError(t, loadErr)
	require.True(t, populated)
	require.Equal(t, testCompletionRecord, recordedValue)
}

func TestMachineStoredPendingWithoutTimerIsRetriggerable(t *testing.T) {
	persistedStore := newMemoryStore()
	requestContext := context.Background()

	// A pending state left behind by a prior process holds no in-memory
	// timer; a fresh machine must accept a new trigger for it.
	require.NoError(t, persistedStore.Set(requestContext, testOwnerIdentifier, store.KeyDeployStatus, workflow.StatePending))

	machine := newMachineUnderTest(t, persistedStore, &recordingNotifier{}, nil)

	currentState, stateErr := machine.State(requestContext, testOwnerIdentifier)
	require.NoError(t, stateErr)
	require.Equal(t, workflow.StatePending, currentState)

	require.NoError(t, machine.Trigger(requestContext, testOwnerIdentifier))
	waitForMachineState(t, machine, workflow.StateSuccess)
}

func TestMachineTerminalStateIsRetriggerable(t *testing.T) {
	machine := newMachineUnderTest(t, newMemoryStore(), &recordingNotifier{}, nil)
	requestContext := context.Background()

	require.NoError(t, machine.Trigger(requestContext, testOwnerIdentifier))
	waitForMachineState(t, machine, workflow.StateSuccess)

	require.NoError(t, machine.Trigger(requestContext, testOwnerIdentifier))
	waitForMachineState(t, machine, workflow.StateSuccess)
}
