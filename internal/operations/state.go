package operations

import (
	"sync"
	"time"
)

// Status is the overall operation status
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// State is the complete runtime state of one operation
type State struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`

	// steps in execution order
	Steps []*StepState `json:"steps"`

	// scratch values handed from one step to the next
	values map[string]interface{}
}

// NewState creates a pending operation state
func NewState(id, name string) *State {
	return &State{
		ID:     id,
		Name:   name,
		Status: StatusPending,
		values: make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StatusRunning
	s.StartTime = time.Now()
}

// Complete marks the operation as completed
func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCompleted
}

// Fail marks the operation as failed
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusFailed
	if err != nil {
		s.Error = err.Error()
	}
}

// Cancel marks the operation as cancelled
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCancelled
}

// Set stores a value for later steps
func (s *State) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get reads a value stored by an earlier step
func (s *State) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// StepState finds a step state by id
func (s *State) StepState(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, step := range s.Steps {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// Snapshot returns a serializable copy of the whole operation
func (s *State) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	steps := make([]StepState, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step.Snapshot()
	}

	snapshot := map[string]interface{}{
		"id":         s.ID,
		"name":       s.Name,
		"status":     s.Status,
		"start_time": s.StartTime,
		"steps":      steps,
	}
	if s.EndTime != nil {
		snapshot["end_time"] = *s.EndTime
	}
	if s.Error != "" {
		snapshot["error"] = s.Error
	}
	return snapshot
}
