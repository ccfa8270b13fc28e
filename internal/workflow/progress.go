package workflow

import (
	"fmt"

	"caseflow-be/internal/apperror"
)

// StepID names a stage inside an ordered flow (the case-level workflow or a
// discovery/financial-interview sub-flow).
type StepID string

// StepState is the render state of a single step. Exactly one state holds per
// step at any time.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// AccessPolicy gates click-navigation between steps.
type AccessPolicy int

const (
	// PolicyUnrestricted lets advisors jump to any step at any time. Used for
	// the top-level case workflow.
	PolicyUnrestricted AccessPolicy = iota

	// PolicyStrictSequential allows a step only once every earlier step is
	// completed, or when it is already the current step. Used for the
	// interview sub-flows.
	PolicyStrictSequential
)

// Tracker records which step of an ordered flow is current and which steps
// have been completed. It is derived state: server-confirmed completions
// always win over local navigation (see ApplyServerCompleted).
type Tracker struct {
	steps     []StepID
	index     map[StepID]int
	current   *StepID
	completed map[StepID]struct{}
	policy    AccessPolicy
}

// NewTracker builds a tracker over an ordered list of unique steps. Duplicate
// step ids are a programming error.
func NewTracker(steps []StepID, policy AccessPolicy) (*Tracker, error) {
	index := make(map[StepID]int, len(steps))
	for i, s := range steps {
		if _, dup := index[s]; dup {
			return nil, fmt.Errorf("duplicate step %q", s)
		}
		index[s] = i
	}
	return &Tracker{
		steps:     append([]StepID(nil), steps...),
		index:     index,
		completed: make(map[StepID]struct{}),
		policy:    policy,
	}, nil
}

// Steps returns the ordered step list.
func (t *Tracker) Steps() []StepID {
	return append([]StepID(nil), t.steps...)
}

// Current returns the current step, or nil if the flow has not started.
func (t *Tracker) Current() *StepID {
	if t.current == nil {
		return nil
	}
	c := *t.current
	return &c
}

// AdvanceTo sets the current step. Completed is never altered here, so
// revisiting a completed step does not un-complete it.
func (t *Tracker) AdvanceTo(step StepID) error {
	if _, ok := t.index[step]; !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownStep, step)
	}
	s := step
	t.current = &s
	return nil
}

// MarkCompleted adds a step to the completed set. Idempotent: marking an
// already-completed step is a no-op, not an error.
func (t *Tracker) MarkCompleted(step StepID) error {
	if _, ok := t.index[step]; !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownStep, step)
	}
	t.completed[step] = struct{}{}
	return nil
}

// IsCompleted reports membership in the completed set.
func (t *Tracker) IsCompleted(step StepID) bool {
	_, ok := t.completed[step]
	return ok
}

// IsAccessible answers whether click-navigation to a step is allowed under the
// tracker's policy.
func (t *Tracker) IsAccessible(step StepID) (bool, error) {
	i, ok := t.index[step]
	if !ok {
		return false, fmt.Errorf("%w: %q", apperror.ErrUnknownStep, step)
	}
	if t.policy == PolicyUnrestricted {
		return true, nil
	}
	if t.current != nil && *t.current == step {
		return true, nil
	}
	for _, earlier := range t.steps[:i] {
		if _, done := t.completed[earlier]; !done {
			return false, nil
		}
	}
	return true, nil
}

// StateOf returns the render state for a step: completed beats current beats
// pending.
func (t *Tracker) StateOf(step StepID) (StepState, error) {
	if _, ok := t.index[step]; !ok {
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownStep, step)
	}
	if _, done := t.completed[step]; done {
		return StepCompleted, nil
	}
	if t.current != nil && *t.current == step {
		return StepCurrent, nil
	}
	return StepPending, nil
}

// Reset clears the completed set and current position. This is the only way
// the completed set shrinks.
func (t *Tracker) Reset() {
	t.current = nil
	t.completed = make(map[StepID]struct{})
}

// ApplyServerCompleted replaces the completed set with the server's record.
// The server is authoritative for completions whenever it supplies them;
// unknown step ids in the server list are ignored rather than failing the
// whole sync.
func (t *Tracker) ApplyServerCompleted(steps []StepID) {
	completed := make(map[StepID]struct{}, len(steps))
	for _, s := range steps {
		if _, ok := t.index[s]; ok {
			completed[s] = struct{}{}
		}
	}
	t.completed = completed
}

// Snapshot is the read model pushed to UI consumers after every navigation or
// completion event. Consumers render it; they never mutate it.
type Snapshot struct {
	Steps     []StepID `json:"steps"`
	Current   *StepID  `json:"current"`
	Completed []StepID `json:"completed"`
}

// Snapshot returns the current progress read model. Completed preserves step
// order for stable rendering.
func (t *Tracker) Snapshot() Snapshot {
	completed := make([]StepID, 0, len(t.completed))
	for _, s := range t.steps {
		if _, done := t.completed[s]; done {
			completed = append(completed, s)
		}
	}
	return Snapshot{
		Steps:     t.Steps(),
		Current:   t.Current(),
		Completed: completed,
	}
}
