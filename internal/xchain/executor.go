package xchain

import (
	"context"
	stderrors "errors"
	"time"

	"gopact/internal/chainweb"
	"gopact/internal/errors"
	"gopact/internal/logging"
)

// probe executes one attempt of a remote operation. It returns a payload on
// definitive success, chainweb.ErrNotReady while the result does not exist
// yet, or any other error for a failed call.
type probe func(ctx context.Context) (any, error)

type outcomeStatus int

const (
	outcomeCompleted outcomeStatus = iota
	outcomeExhausted
	outcomeDeadline
	outcomeCanceled
	outcomeFatal
)

// outcome is the tagged result of one polling phase.
type outcome struct {
	status   outcomeStatus
	payload  any
	attempts int
	err      error
}

// pollStep drives one probe under a policy and the shared deadline. Not-yet
// -ready results and transport failures are retried on the fixed interval;
// validation and protocol errors surface immediately. The deadline and the
// context are observed at the top of every iteration, and sleeps themselves
// are cancellable.
func pollStep(ctx context.Context, log *logging.Logger, name string, pol Policy, dl *Deadline, pr probe) outcome {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return outcome{status: outcomeCanceled, attempts: attempts, err: err}
		}
		if dl.Exceeded() {
			return outcome{status: outcomeDeadline, attempts: attempts, err: errors.Timeout(name)}
		}

		payload, err := pr(ctx)
		attempts++
		if err == nil {
			return outcome{status: outcomeCompleted, payload: payload, attempts: attempts}
		}
		if errors.IsFatal(err) {
			return outcome{status: outcomeFatal, attempts: attempts, err: err}
		}
		if !stderrors.Is(err, chainweb.ErrNotReady) {
			log.Debug("%s attempt %d failed: %v", name, attempts, err)
		}

		if pol.Exhausted(attempts) {
			return outcome{status: outcomeExhausted, attempts: attempts, err: errors.Exhausted(name, attempts)}
		}

		if pol.Unbounded() {
			log.Debug("%s not ready, attempt %d, retrying in %s", name, attempts, pol.NextDelay())
		} else {
			log.Debug("%s not ready, attempt %d/%d, retrying in %s", name, attempts, pol.MaxAttempts, pol.NextDelay())
		}
		select {
		case <-ctx.Done():
			return outcome{status: outcomeCanceled, attempts: attempts, err: ctx.Err()}
		case <-sleepCtx(ctx, pol.NextDelay()):
		}
	}
}

// sleepCtx returns a channel closed after d or when ctx ends, whichever
// comes first.
func sleepCtx(ctx context.Context, d time.Duration) <-chan struct{} {
	ch := make(chan struct{})
	if d <= 0 {
		close(ch)
		return ch
	}
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		close(ch)
	}()
	return ch
}
