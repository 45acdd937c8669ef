package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Led-adel-pilot/CogniGuide/internal/config"
	"github.com/Led-adel-pilot/CogniGuide/internal/engine"
	"github.com/Led-adel-pilot/CogniGuide/internal/model"
	"github.com/Led-adel-pilot/CogniGuide/internal/report"
	"github.com/Led-adel-pilot/CogniGuide/internal/taxonomy"
)

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ValidateStep fails the run when the fallback subhub is not in the
// taxonomy. It runs before anything is scored or removed.
type ValidateStep struct {
	engine *engine.Engine
}

// NewValidateStep creates a validation step.
func NewValidateStep(e *engine.Engine) *ValidateStep {
	return &ValidateStep{engine: e}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, state *State) error {
	return s.engine.CheckFallback(state.Taxonomy)
}

// MissingStep collects the generated slugs that no subhub holds yet.
type MissingStep struct {
	limit int
}

// NewMissingStep creates a step that keeps at most limit missing slugs.
// Zero means no limit.
func NewMissingStep(limit int) *MissingStep {
	return &MissingStep{limit: limit}
}

// Name returns the step name.
func (s *MissingStep) Name() string {
	return "missing"
}

// Do executes the missing step.
func (s *MissingStep) Do(_ context.Context, state *State) error {
	state.Run.Missing = engine.Missing(state.Taxonomy, state.Pages, s.limit)
	return nil
}

// AuditStep finds placements that would not be confirmed today.
type AuditStep struct {
	engine *engine.Engine

	// output is where flagged entries are saved as JSON. Empty skips saving.
	output string

	logger *slog.Logger
}

// NewAuditStep creates an audit step. When output is set and the audit
// flags anything, the entries are saved there.
func NewAuditStep(e *engine.Engine, output string, logger *slog.Logger) *AuditStep {
	return &AuditStep{
		engine: e,
		output: output,
		logger: orDefault(logger),
	}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do executes the audit step.
func (s *AuditStep) Do(ctx context.Context, state *State) error {
	run := state.Run
	run.RestrictedTo = len(state.Restrict)

	entries, err := s.engine.Audit(ctx, state.Taxonomy, state.Pages, state.Restrict)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	run.LowConfidence = entries
	s.logger.Debug("audit finished",
		slog.Int("flagged", len(entries)),
		slog.Int("restricted_to", run.RestrictedTo),
	)

	if s.output == "" || len(entries) == 0 {
		return nil
	}
	if err := report.SaveLowConfidence(s.output, entries); err != nil {
		return err
	}
	run.ReportOutput = s.output
	return nil
}

// ReassignStep frees every flagged slug and queues it for assignment.
// It must follow MissingStep and AuditStep.
type ReassignStep struct{}

// NewReassignStep creates a reassign step.
func NewReassignStep() *ReassignStep {
	return &ReassignStep{}
}

// Name returns the step name.
func (s *ReassignStep) Name() string {
	return "reassign"
}

// Do executes the reassign step.
func (s *ReassignStep) Do(_ context.Context, state *State) error {
	run := state.Run
	run.Reassigned = engine.Reassign(state.Taxonomy, run.LowConfidence)
	run.Missing = engine.MergeSlugs(run.Missing, run.Reassigned)
	return nil
}

// AssignStep places every missing slug against signatures built from the
// current taxonomy.
type AssignStep struct {
	engine *engine.Engine
}

// NewAssignStep creates an assignment step.
func NewAssignStep(e *engine.Engine) *AssignStep {
	return &AssignStep{engine: e}
}

// Name returns the step name.
func (s *AssignStep) Name() string {
	return "assign"
}

// Do executes the assignment step.
func (s *AssignStep) Do(_ context.Context, state *State) error {
	run := state.Run
	if len(run.Missing) == 0 {
		return nil
	}
	subhubs := s.engine.Builder().BuildSubhubs(state.Taxonomy, state.Pages)
	results, err := s.engine.Assign(run.Missing, state.Pages, subhubs)
	if err != nil {
		return fmt.Errorf("assignment failed: %w", err)
	}
	run.Assignments = results
	return nil
}

// ApplyStep adds the assignments to the taxonomy and rewrites the file when
// anything changed.
type ApplyStep struct {
	path   string
	dryRun bool
	logger *slog.Logger
}

// NewApplyStep creates a step that writes to path unless dryRun is set.
func NewApplyStep(path string, dryRun bool, logger *slog.Logger) *ApplyStep {
	return &ApplyStep{
		path:   path,
		dryRun: dryRun,
		logger: orDefault(logger),
	}
}

// Name returns the step name.
func (s *ApplyStep) Name() string {
	return "apply"
}

// Do executes the apply step.
func (s *ApplyStep) Do(_ context.Context, state *State) error {
	run := state.Run
	if s.dryRun || len(run.Assignments) == 0 {
		return nil
	}

	run.Updates = taxonomy.Apply(state.Taxonomy, run.Assignments)
	if run.Updates == 0 {
		return nil
	}
	if err := taxonomy.Write(s.path, state.Taxonomy); err != nil {
		return err
	}
	run.Written = true
	s.logger.Debug("taxonomy written",
		slog.String("path", s.path),
		slog.Int("updates", run.Updates),
	)

	digest, err := taxonomy.Digest(state.Taxonomy)
	if err != nil {
		return err
	}
	run.TaxonomyDigest = digest
	return nil
}

// DefaultPipeline composes the steps for mode from cfg.
func DefaultPipeline(mode model.Mode, e *engine.Engine, cfg *config.Config, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddStep(NewValidateStep(e))

	if mode == model.ModeAudit {
		p.AddStep(NewAuditStep(e, cfg.ReportOutput, p.logger))
		return p
	}

	p.AddStep(NewMissingStep(cfg.Limit))
	if cfg.ReassignLowConfidence {
		p.AddSteps(NewAuditStep(e, "", p.logger), NewReassignStep())
	}
	p.AddSteps(
		NewAssignStep(e),
		NewApplyStep(cfg.TaxonomyPath, cfg.DryRun, p.logger),
	)
	return p
}
