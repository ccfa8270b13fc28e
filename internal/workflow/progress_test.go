package workflow

import (
	"errors"
	"reflect"
	"testing"

	"caseflow-be/internal/apperror"
)

func newSequentialTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(DiscoverySteps(), PolicyStrictSequential)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	return tr
}

func TestNewTrackerRejectsDuplicates(t *testing.T) {
	_, err := NewTracker([]StepID{"a", "b", "a"}, PolicyUnrestricted)
	if err == nil {
		t.Fatal("expected error for duplicate step ids")
	}
}

func TestAdvanceTo(t *testing.T) {
	tr := newSequentialTracker(t)

	if tr.Current() != nil {
		t.Fatalf("Current = %v before any navigation, want nil", tr.Current())
	}

	if err := tr.AdvanceTo(StepFinancialProfile); err != nil {
		t.Fatalf("AdvanceTo: %v", err)
	}
	if cur := tr.Current(); cur == nil || *cur != StepFinancialProfile {
		t.Errorf("Current = %v, want %q", cur, StepFinancialProfile)
	}

	err := tr.AdvanceTo(StepID("retirement"))
	if !errors.Is(err, apperror.ErrUnknownStep) {
		t.Errorf("AdvanceTo(unknown) err = %v, want ErrUnknownStep", err)
	}
}

func TestAdvanceDoesNotUncomplete(t *testing.T) {
	tr := newSequentialTracker(t)

	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := tr.AdvanceTo(StepPersonalInfo); err != nil {
		t.Fatalf("AdvanceTo: %v", err)
	}

	if !tr.IsCompleted(StepPersonalInfo) {
		t.Error("revisiting a completed step must not un-complete it")
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	tr := newSequentialTracker(t)

	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	once := tr.Snapshot().Completed

	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatalf("second MarkCompleted: %v", err)
	}
	twice := tr.Snapshot().Completed

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("completed after second mark = %v, want %v", twice, once)
	}

	err := tr.MarkCompleted(StepID("retirement"))
	if !errors.Is(err, apperror.ErrUnknownStep) {
		t.Errorf("MarkCompleted(unknown) err = %v, want ErrUnknownStep", err)
	}
}

func TestIsAccessiblePolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    AccessPolicy
		completed []StepID
		current   *StepID
		step      StepID
		want      bool
	}{
		{
			name:   "unrestricted allows jumping ahead",
			policy: PolicyUnrestricted,
			step:   StepGoals,
			want:   true,
		},
		{
			name:   "sequential blocks jumping ahead",
			policy: PolicyStrictSequential,
			step:   StepGoals,
			want:   false,
		},
		{
			name:   "sequential allows first step",
			policy: PolicyStrictSequential,
			step:   StepPersonalInfo,
			want:   true,
		},
		{
			name:      "sequential unlocks after prior completions",
			policy:    PolicyStrictSequential,
			completed: []StepID{StepPersonalInfo, StepFinancialProfile},
			step:      StepExistingCoverage,
			want:      true,
		},
		{
			name:      "sequential still blocks with a gap",
			policy:    PolicyStrictSequential,
			completed: []StepID{StepPersonalInfo, StepExistingCoverage},
			step:      StepGoals,
			want:      false,
		},
		{
			name:    "sequential allows the current step",
			policy:  PolicyStrictSequential,
			current: func() *StepID { s := StepGoals; return &s }(),
			step:    StepGoals,
			want:    true,
		},
		{
			name:      "completed step stays reachable sequentially",
			policy:    PolicyStrictSequential,
			completed: []StepID{StepPersonalInfo},
			step:      StepPersonalInfo,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTracker(DiscoverySteps(), tt.policy)
			if err != nil {
				t.Fatalf("NewTracker: %v", err)
			}
			for _, s := range tt.completed {
				if err := tr.MarkCompleted(s); err != nil {
					t.Fatalf("MarkCompleted(%q): %v", s, err)
				}
			}
			if tt.current != nil {
				if err := tr.AdvanceTo(*tt.current); err != nil {
					t.Fatalf("AdvanceTo: %v", err)
				}
			}

			got, err := tr.IsAccessible(tt.step)
			if err != nil {
				t.Fatalf("IsAccessible: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAccessible(%q) = %v, want %v", tt.step, got, tt.want)
			}
		})
	}

	tr := newSequentialTracker(t)
	if _, err := tr.IsAccessible(StepID("retirement")); !errors.Is(err, apperror.ErrUnknownStep) {
		t.Errorf("IsAccessible(unknown) err = %v, want ErrUnknownStep", err)
	}
}

// Every step is in exactly one of completed/current/pending.
func TestExactlyOneRenderState(t *testing.T) {
	tr := newSequentialTracker(t)
	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatal(err)
	}
	if err := tr.AdvanceTo(StepFinancialProfile); err != nil {
		t.Fatal(err)
	}

	wantStates := map[StepID]StepState{
		StepPersonalInfo:     StepCompleted,
		StepFinancialProfile: StepCurrent,
		StepExistingCoverage: StepPending,
		StepGoals:            StepPending,
	}
	for _, step := range tr.Steps() {
		state, err := tr.StateOf(step)
		if err != nil {
			t.Fatalf("StateOf(%q): %v", step, err)
		}
		if state != wantStates[step] {
			t.Errorf("StateOf(%q) = %q, want %q", step, state, wantStates[step])
		}
	}

	// Completed wins over current when a completed step is revisited.
	if err := tr.AdvanceTo(StepPersonalInfo); err != nil {
		t.Fatal(err)
	}
	state, err := tr.StateOf(StepPersonalInfo)
	if err != nil {
		t.Fatal(err)
	}
	if state != StepCompleted {
		t.Errorf("StateOf(revisited completed step) = %q, want %q", state, StepCompleted)
	}
}

func TestReset(t *testing.T) {
	tr := newSequentialTracker(t)
	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatal(err)
	}
	if err := tr.AdvanceTo(StepFinancialProfile); err != nil {
		t.Fatal(err)
	}

	tr.Reset()

	if tr.Current() != nil {
		t.Error("Current should be nil after reset")
	}
	if len(tr.Snapshot().Completed) != 0 {
		t.Error("completed should be empty after reset")
	}
}

func TestApplyServerCompleted(t *testing.T) {
	tr := newSequentialTracker(t)
	if err := tr.MarkCompleted(StepGoals); err != nil {
		t.Fatal(err)
	}

	// Server record wins wholesale; unknown ids are ignored.
	tr.ApplyServerCompleted([]StepID{StepPersonalInfo, StepID("retired_step")})

	snap := tr.Snapshot()
	if !reflect.DeepEqual(snap.Completed, []StepID{StepPersonalInfo}) {
		t.Errorf("Completed = %v, want [%q]", snap.Completed, StepPersonalInfo)
	}
}

func TestSnapshotOrdering(t *testing.T) {
	tr := newSequentialTracker(t)
	if err := tr.MarkCompleted(StepGoals); err != nil {
		t.Fatal(err)
	}
	if err := tr.MarkCompleted(StepPersonalInfo); err != nil {
		t.Fatal(err)
	}

	snap := tr.Snapshot()
	want := []StepID{StepPersonalInfo, StepGoals}
	if !reflect.DeepEqual(snap.Completed, want) {
		t.Errorf("Completed = %v, want step order %v", snap.Completed, want)
	}
}
