package pipeline

import (
	"context"
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/signature"
	"github.com/Led-adel-pilot/CogniGuide/internal/taxonomy"
)

// State is what the steps of one run share.
// Steps read the inputs and fill in Run.
type State struct {
	Run *model.Run

	// Taxonomy is the working copy. Steps that reassign or apply mutate it.
	Taxonomy *model.Taxonomy

	// Pages holds the signature of every generated page, by slug.
	Pages signature.PageIndex

	// Restrict limits the audit to these slugs. An empty set audits every
	// placed slug.
	Restrict map[string]struct{}
}

// NewState prepares the state of a run.
// A non-empty baseline restricts the audit to slugs placed since the
// baseline was taken; an empty one leaves the audit unrestricted.
func NewState(run *model.Run, t *model.Taxonomy, pages signature.PageIndex, baseline map[string]struct{}) *State {
	s := &State{
		Run:      run,
		Taxonomy: t,
		Pages:    pages,
	}
	if len(baseline) > 0 {
		s.Restrict = taxonomy.Restriction(t, baseline)
	}
	return s
}

// Step is one stage of a run.
type Step interface {
	// Do executes the step. A returned error stops the pipeline.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging and the run record.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in sequence, checking for cancellation before
// each one. The first failing step stops the run; its error is recorded in
// state.Run and returned.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	run := state.Run
	p.logger.Debug("pipeline started",
		"run", run.ID,
		"steps", p.StepNames(),
	)
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.record(run, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"run", run.ID,
		)

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"run", run.ID,
				"error", err,
			)
			p.record(run, err)
			return err
		}
		p.logger.Debug("step completed",
			"step", step.Name(),
			"run", run.ID,
		)

		run.AddStep(step.Name())
	}
	return nil
}

// record keeps the first error of a run.
func (p *Pipeline) record(run *model.Run, err error) {
	if run.Error != nil {
		return
	}
	run.Error = err
	run.ErrorMessage = err.Error()
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
