package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Broadcaster pushes operation snapshots to interested listeners. The
// websocket hub satisfies this.
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// Snapshot message types
const (
	TypeSnapshot = "operation:snapshot"
	TypeComplete = "operation:complete"
)

// Manager runs operations: ordered step sequences with progress
// reporting. Finished operations stay queryable until the process
// exits.
type Manager struct {
	logger      *slog.Logger
	broadcaster Broadcaster

	mu         sync.RWMutex
	operations map[string]*State
}

// NewManager creates a manager broadcasting through the given
// broadcaster. A nil broadcaster disables progress push.
func NewManager(logger *slog.Logger, broadcaster Broadcaster) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:      logger.With(slog.String("component", "operations")),
		broadcaster: broadcaster,
		operations:  make(map[string]*State),
	}
}

// Run executes the steps in order. The first failing step aborts the
// operation; a cancelled context marks it cancelled. The returned state
// is final.
func (m *Manager) Run(ctx context.Context, name string, steps []Step) (*State, error) {
	state := NewState(uuid.New().String(), name)
	for _, step := range steps {
		state.Steps = append(state.Steps, NewStepState(step.ID(), step.Name()))
	}

	m.mu.Lock()
	m.operations[state.ID] = state
	m.mu.Unlock()

	state.Start()
	m.publish(TypeSnapshot, state)

	m.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", state.ID),
		slog.String("name", name),
		slog.Int("step_count", len(steps)))

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			state.Cancel()
			m.publish(TypeComplete, state)
			return state, err
		}

		stepState := state.StepState(step.ID())
		stepState.Start()
		m.publish(TypeSnapshot, state)

		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			state.Fail(err)
			m.publish(TypeComplete, state)

			m.logger.ErrorContext(ctx, "operation failed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))

			return state, fmt.Errorf("step %s: %w", step.ID(), err)
		}

		stepState.Complete()
		m.publish(TypeSnapshot, state)
	}

	state.Complete()
	m.publish(TypeComplete, state)

	m.logger.InfoContext(ctx, "operation completed",
		slog.String("operation_id", state.ID),
		slog.String("name", name))

	return state, nil
}

// Get returns a previously started operation by id
func (m *Manager) Get(id string) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.operations[id]
	return state, ok
}

// Publish pushes an intermediate snapshot; steps call this through the
// state while reporting partial progress.
func (m *Manager) Publish(state *State) {
	m.publish(TypeSnapshot, state)
}

func (m *Manager) publish(messageType string, state *State) {
	if m.broadcaster == nil {
		return
	}
	m.broadcaster.Broadcast(messageType, state.Snapshot())
}
