// Package pipeline runs an assign or audit as a sequence of steps.
//
// Each step receives the shared State, reads the taxonomy and page
// signatures from it, and records what it did in the run. DefaultPipeline
// composes the steps for a mode:
//
//	audit:  validate, audit
//	assign: validate, missing, [audit, reassign], assign, apply
//
// The pipeline checks for cancellation between steps; the audit step
// also honors it while scoring.
package pipeline
