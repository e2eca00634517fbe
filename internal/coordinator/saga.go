// Package coordinator submits a work order as a saga: each step has a
// compensating action, and a failure undoes the steps that already ran.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
)

var tracer = otel.Tracer("github.com/allstar-electrical/workorders/internal/coordinator")

// Step is a single unit of work in the saga.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs steps in order and records every transition in the saga
// log under sagaID.
type Orchestrator struct {
	sagaID  string
	payload string
	steps   []Step
	repo    sagalog.Repository
}

func NewOrchestrator(sagaID, payload string, repo sagalog.Repository, steps ...Step) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, payload: payload, steps: steps, repo: repo}
}

// Start runs the steps sequentially. If a step fails, the previously
// successful steps are compensated in reverse order and the step error is
// returned.
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "saga.submit_work_order")
	defer span.End()
	span.SetAttributes(attribute.String("saga.id", o.sagaID))

	o.record(ctx, sagalog.StatusStarted, "", o.payload, nil)

	var done []Step
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing saga step", "saga_id", o.sagaID, "step", step.Name())
		if err := o.execute(ctx, step); err != nil {
			slog.ErrorContext(ctx, "saga step failed, starting rollback",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), "", errs)
			errs = o.rollback(ctx, done, errs)

			final := sagalog.StatusCompensated
			if len(errs) > 1 {
				final = sagalog.StatusFailed
			}
			o.record(ctx, final, step.Name(), "", errs)
			return fmt.Errorf("saga %s: %s: %w", o.sagaID, step.Name(), err)
		}
		done = append(done, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "saga completed", "saga_id", o.sagaID)
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := tracer.Start(ctx, "saga.step."+step.Name())
	defer span.End()
	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// rollback compensates steps LIFO and returns errs plus any compensation
// failures.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step, errs []string) []string {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.WarnContext(ctx, "compensating saga step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate step",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

// record appends a saga log row. A log write failure never fails the saga.
func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.repo == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.sagaID, status, step, payload, errs)
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write saga log", "saga_id", o.sagaID, "status", status, "error", err)
	}
}
