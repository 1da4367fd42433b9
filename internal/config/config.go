package config

import (
	"time"

	"gopact/internal/errors"
)

// Workflow holds the fully-resolved tuning knobs for one cross-chain
// transfer run. The workflow engine consumes this struct as-is and knows
// nothing about files or environment variables.
type Workflow struct {
	// AttemptsTx bounds the initial-confirmation poll; 0 means unbounded.
	AttemptsTx int
	// IntervalTx is the fixed delay between initial-confirmation polls.
	IntervalTx time.Duration

	// PostConfirmWait is an unconditional delay inserted after the source
	// transaction confirms and before the first proof request, giving the
	// source chain time to finalize.
	PostConfirmWait time.Duration

	// AttemptsSPV bounds proof polling; 0 means unbounded. Proof
	// availability latency is unrelated to client retry budgets, so the
	// default leaves this unbounded and relies on MaxTotalTime.
	AttemptsSPV int
	// IntervalSPV is the fixed delay between proof polls.
	IntervalSPV time.Duration

	// AttemptsFinal bounds the final-confirmation poll; 0 means unbounded.
	AttemptsFinal int
	// IntervalFinal is the fixed delay between final-confirmation polls.
	IntervalFinal time.Duration

	// MaxTotalTime is the wall-clock budget for the whole workflow across
	// all phases; 0 means unbounded.
	MaxTotalTime time.Duration

	// Verbose enables per-attempt progress logging.
	Verbose bool
}

// DefaultWorkflow returns the recommended workflow tuning: bounded polls for
// the two confirmation phases, unbounded proof polling backstopped by a
// multi-minute overall deadline.
func DefaultWorkflow() Workflow {
	return Workflow{
		AttemptsTx:      30,
		IntervalTx:      5 * time.Second,
		PostConfirmWait: 10 * time.Second,
		AttemptsSPV:     0,
		IntervalSPV:     5 * time.Second,
		AttemptsFinal:   30,
		IntervalFinal:   5 * time.Second,
		MaxTotalTime:    15 * time.Minute,
	}
}

// Validate checks the workflow configuration for values that can never be
// correct. An unbounded attempt count combined with an unbounded total time
// is allowed but means the run can only end by cancellation.
func (w Workflow) Validate() error {
	if w.AttemptsTx < 0 || w.AttemptsSPV < 0 || w.AttemptsFinal < 0 {
		return errors.Configuration("attempt counts must be non-negative (0 means unbounded)")
	}
	if w.IntervalTx < 0 || w.IntervalSPV < 0 || w.IntervalFinal < 0 {
		return errors.Configuration("poll intervals must be non-negative")
	}
	if w.PostConfirmWait < 0 {
		return errors.Configuration("post-confirm wait must be non-negative")
	}
	if w.MaxTotalTime < 0 {
		return errors.Configuration("max total time must be non-negative (0 means unbounded)")
	}
	return nil
}
