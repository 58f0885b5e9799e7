package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BTreeMap/PetDiary/internal/models"
)

// InMemoryStateManager keeps conversation state for the process lifetime.
type InMemoryStateManager struct {
	mu     sync.Mutex
	states map[int64]State
}

// Compile-time check that InMemoryStateManager implements StateManager.
var _ StateManager = (*InMemoryStateManager)(nil)

// NewInMemoryStateManager creates an empty state manager.
func NewInMemoryStateManager() *InMemoryStateManager {
	slog.Debug("Creating InMemoryStateManager")
	return &InMemoryStateManager{states: make(map[int64]State)}
}

func (sm *InMemoryStateManager) GetState(_ context.Context, userID int64) (State, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.states[userID], nil
}

func (sm *InMemoryStateManager) SetState(_ context.Context, userID int64, st State) error {
	if err := st.Validate(); err != nil {
		slog.Error("StateManager SetState rejected", "error", err, "userID", userID)
		return err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if st.IsIdle() {
		delete(sm.states, userID)
	} else {
		sm.states[userID] = st
	}
	slog.Debug("StateManager SetState", "userID", userID, "step", st.Step)
	return nil
}

func (sm *InMemoryStateManager) UpdateState(_ context.Context, userID int64, fn func(st *State) error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	st := sm.states[userID]
	if err := fn(&st); err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		slog.Error("StateManager UpdateState rejected", "error", err, "userID", userID)
		return err
	}
	if st.IsIdle() {
		delete(sm.states, userID)
	} else {
		sm.states[userID] = st
	}
	slog.Debug("StateManager UpdateState", "userID", userID, "step", st.Step)
	return nil
}

func (sm *InMemoryStateManager) ResetState(_ context.Context, userID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.states, userID)
	slog.Debug("StateManager ResetState", "userID", userID)
	return nil
}

func (sm *InMemoryStateManager) CurrentStep(_ context.Context, userID int64) (models.StateType, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.states[userID].Step, nil
}

// Len returns the number of users with an active wizard.
func (sm *InMemoryStateManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.states)
}
