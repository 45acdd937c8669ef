package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, state *State) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, state *State) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, state)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func newTestState() *State {
	return NewState(model.NewRun(model.ModeAssign), model.NewTaxonomy(), nil, nil)
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if len(p.StepNames()) != 0 {
			t.Errorf("expected 0 steps, got %d", len(p.StepNames()))
		}
		if p.logger == nil {
			t.Error("expected a default logger")
		}
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(nil))
		if p.logger == nil {
			t.Error("expected a default logger")
		}
	})
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if len(p.StepNames()) != 3 {
		t.Errorf("expected 3 steps, got %d", len(p.StepNames()))
	}
	if got, want := p.StepNames(), []string{"first", "second", "third"}; !reflect.DeepEqual(got, want) {
		t.Errorf("StepNames() = %v, want %v", got, want)
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"step-1", "step-2"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *State) error {
					order = append(order, name)
					return nil
				},
			})
		}

		state := newTestState()
		if err := p.Execute(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"step-1", "step-2"}; !reflect.DeepEqual(order, want) {
			t.Errorf("wrong execution order: %v", order)
		}
		if want := []string{"step-1", "step-2"}; !reflect.DeepEqual(state.Run.PerformedSteps, want) {
			t.Errorf("PerformedSteps = %v, want %v", state.Run.PerformedSteps, want)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddSteps(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *State) error {
				return expectedErr
			},
		}, second)

		state := newTestState()
		err := p.Execute(context.Background(), state)
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if state.Run.ErrorMessage != expectedErr.Error() {
			t.Errorf("ErrorMessage = %q", state.Run.ErrorMessage)
		}
		if len(state.Run.PerformedSteps) != 0 {
			t.Errorf("PerformedSteps = %v, want none", state.Run.PerformedSteps)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New()
		p.AddStep(step)

		state := newTestState()
		if err := p.Execute(ctx, state); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if !errors.Is(state.Run.Error, context.Canceled) {
			t.Errorf("Run.Error = %v", state.Run.Error)
		}
	})
}

func TestNewState(t *testing.T) {
	t.Parallel()

	tax := model.NewTaxonomy()
	key := model.Key{Hub: "Math", Subhub: "Algebra"}
	tax.AddSubhub(key)
	tax.Add(key, "old")
	tax.Add(key, "new")

	t.Run("empty baseline leaves the audit unrestricted", func(t *testing.T) {
		t.Parallel()

		s := NewState(model.NewRun(model.ModeAudit), tax, nil, map[string]struct{}{})
		if s.Restrict != nil {
			t.Errorf("Restrict = %v, want nil", s.Restrict)
		}
	})

	t.Run("baseline restricts to newer slugs", func(t *testing.T) {
		t.Parallel()

		s := NewState(model.NewRun(model.ModeAudit), tax, nil, map[string]struct{}{"old": {}})
		if want := map[string]struct{}{"new": {}}; !reflect.DeepEqual(s.Restrict, want) {
			t.Errorf("Restrict = %v, want %v", s.Restrict, want)
		}
	})
}
