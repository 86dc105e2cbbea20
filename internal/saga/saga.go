// Package saga orchestrates the fulfillment steps of an order with
// compensating actions on partial failure.
package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Step is a single unit of work in the saga. Each step must have a
// compensating action that undoes whatever it committed.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// StepFailure is a business-rule rejection raised by a step. It is an
// expected outcome, not a fault: the orchestrator converts it into
// compensation of the committed steps and the caller into a terminal
// FAILED order state.
type StepFailure struct {
	Step    string
	Message string
}

func (e *StepFailure) Error() string {
	return e.Message
}

// Orchestrator runs steps strictly in order. When a step fails, the
// steps that already committed are compensated before the failure is
// returned.
type Orchestrator struct {
	steps  []Step
	logger zerolog.Logger
}

// NewOrchestrator creates an orchestrator over the given steps.
func NewOrchestrator(logger zerolog.Logger, steps ...Step) *Orchestrator {
	return &Orchestrator{
		steps:  steps,
		logger: logger.With().Str("component", "saga").Logger(),
	}
}

// Run executes the steps sequentially. A *StepFailure return means a
// step rejected the order and all committed steps were compensated.
// Any other error is infrastructural, including a failed compensation,
// and must not be treated as a normal business outcome.
func (o *Orchestrator) Run(ctx context.Context) error {
	var committed []Step

	for _, step := range o.steps {
		o.logger.Debug().Str("step", step.Name()).Msg("executing step")

		if err := step.Execute(ctx); err != nil {
			o.logger.Warn().
				Err(err).
				Str("step", step.Name()).
				Msg("step failed, compensating committed steps")

			if cerr := o.rollback(ctx, committed); cerr != nil {
				return fmt.Errorf("compensation after %s failed: %w", step.Name(), cerr)
			}
			return err
		}

		committed = append(committed, step)
	}

	o.logger.Debug().Msg("all steps completed")
	return nil
}

// rollback compensates the committed steps. Compensations run in the
// order the steps committed: inventory is released before payment is
// refunded. Compensation failures are collected and surfaced rather
// than swallowed.
func (o *Orchestrator) rollback(ctx context.Context, committed []Step) error {
	var errs []error

	for _, step := range committed {
		o.logger.Info().Str("step", step.Name()).Msg("compensating step")
		if err := step.Compensate(ctx); err != nil {
			o.logger.Error().
				Err(err).
				Str("step", step.Name()).
				Msg("compensation failed")
			errs = append(errs, fmt.Errorf("%s: %w", step.Name(), err))
		}
	}

	return errors.Join(errs...)
}
