package xchain

import (
	"context"
	"os"

	"gopact/internal/chainweb"
	"gopact/internal/config"
	"gopact/internal/crypto"
	"gopact/internal/errors"
	"gopact/internal/logging"
)

// Node is the slice of the chainweb API the workflow drives. Listen is
// deliberately absent: the workflow polls rather than holding a blocking
// connection open past typical client timeouts.
type Node interface {
	Send(ctx context.Context, host string, cmd map[string]any) (map[string]any, error)
	Poll(ctx context.Context, host string, requestKeys []string) (map[string]any, error)
	SPV(ctx context.Context, host, requestKey, targetChainID string) (string, error)
}

// CommandBuilder constructs the signed commands for the two on-chain steps
// of a transfer.
type CommandBuilder interface {
	BuildTransferInit(req TransferRequest) (map[string]any, error)
	BuildTransferComplete(pactID, proof string, req TransferRequest) (map[string]any, error)
}

// HostFunc resolves the Pact endpoint base URL for a chain.
type HostFunc func(networkID, chainID string) (string, error)

// TransferRequest describes one cross-chain transfer. It is immutable once
// Execute starts.
type TransferRequest struct {
	Token             string
	SenderAccount     string
	ReceiverAccount   string
	ReceiverPublicKey string
	Amount            float64
	SourceChainID     string
	TargetChainID     string
	NetworkID         string
	SenderKey         crypto.KeyPair
	ReceiverKey       crypto.KeyPair
}

// Validate checks the request for values that can never succeed on chain.
func (r TransferRequest) Validate() error {
	if r.Token == "" {
		return errors.Validation("token is required")
	}
	if r.SenderAccount == "" || r.ReceiverAccount == "" {
		return errors.Validation("sender and receiver accounts are required")
	}
	if r.ReceiverPublicKey == "" {
		return errors.Validation("receiver public key is required")
	}
	if r.Amount <= 0 {
		return errors.Validation("amount must be positive")
	}
	if r.SourceChainID == "" || r.TargetChainID == "" {
		return errors.Validation("source and target chain ids are required")
	}
	if r.SourceChainID == r.TargetChainID {
		return errors.Validation("source and target chain ids must differ")
	}
	if r.NetworkID == "" {
		return errors.Validation("network id is required")
	}
	if r.SenderKey.SecretKey == "" {
		return errors.Validation("sender secret key is required to sign the initiation")
	}
	return nil
}

// phase enumerates the workflow states in execution order.
type phase int

const (
	phaseSubmit phase = iota
	phasePollInit
	phasePostConfirmWait
	phaseFetchProof
	phaseComplete
	phasePollFinal
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseSubmit:
		return "submit"
	case phasePollInit:
		return "poll-init"
	case phasePostConfirmWait:
		return "post-confirm-wait"
	case phaseFetchProof:
		return "fetch-proof"
	case phaseComplete:
		return "complete"
	case phasePollFinal:
		return "poll-final"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Workflow executes cross-chain transfers. One Workflow may serve many
// concurrent Execute calls; each run owns its own deadline and result and
// shares nothing mutable with other runs.
type Workflow struct {
	node    Node
	builder CommandBuilder
	hosts   HostFunc
	cfg     config.Workflow
	logger  *logging.Logger
}

// New creates a workflow. A nil logger gets a default whose level follows
// the config's Verbose flag.
func New(node Node, builder CommandBuilder, hosts HostFunc, cfg config.Workflow, logger *logging.Logger) (*Workflow, error) {
	if node == nil {
		return nil, errors.Configuration("node client is required")
	}
	if builder == nil {
		return nil, errors.Configuration("command builder is required")
	}
	if hosts == nil {
		return nil, errors.Configuration("host resolver is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		level := logging.LevelInfo
		if cfg.Verbose {
			level = logging.LevelDebug
		}
		logger = logging.NewLogger(level, os.Stderr, "xchain: ")
	}
	return &Workflow{node: node, builder: builder, hosts: hosts, cfg: cfg, logger: logger}, nil
}

// run is the mutable state of one Execute call.
type run struct {
	w          *Workflow
	req        TransferRequest
	sourceHost string
	targetHost string
	deadline   *Deadline
	result     *Result
	phase      phase
}

// Execute drives the transfer through its phases until it succeeds or
// fails. It never returns a raw transport error: every outcome is a Result,
// and a failed Result still carries the artifacts of every completed phase.
func (w *Workflow) Execute(ctx context.Context, req TransferRequest) *Result {
	result := &Result{}

	if err := req.Validate(); err != nil {
		return failResult(result, "validate", err)
	}

	sourceHost, err := w.hosts(req.NetworkID, req.SourceChainID)
	if err != nil {
		return failResult(result, "validate", err)
	}
	targetHost, err := w.hosts(req.NetworkID, req.TargetChainID)
	if err != nil {
		return failResult(result, "validate", err)
	}

	r := &run{
		w:          w,
		req:        req,
		sourceHost: sourceHost,
		targetHost: targetHost,
		deadline:   NewDeadline(w.cfg.MaxTotalTime),
		result:     result,
		phase:      phaseSubmit,
	}

	for r.phase != phaseDone {
		if err := r.step(ctx); err != nil {
			return failResult(result, r.phase.String(), err)
		}
		r.phase++
	}

	result.Status = StatusSuccess
	return result
}

func failResult(result *Result, phaseName string, err error) *Result {
	result.Status = StatusError
	result.Error = err.Error()
	result.FailedPhase = phaseName
	return result
}

// step runs exactly one phase transition.
func (r *run) step(ctx context.Context) error {
	switch r.phase {
	case phaseSubmit:
		return r.submit(ctx)
	case phasePollInit:
		return r.pollInit(ctx)
	case phasePostConfirmWait:
		return r.postConfirmWait(ctx)
	case phaseFetchProof:
		return r.fetchProof(ctx)
	case phaseComplete:
		return r.complete(ctx)
	case phasePollFinal:
		return r.pollFinal(ctx)
	default:
		return errors.Internal("workflow reached unknown phase")
	}
}

// submit builds and sends the initiating command on the source chain. Any
// failure here is fatal: a malformed submission will not become valid by
// waiting.
func (r *run) submit(ctx context.Context) error {
	cmd, err := r.w.builder.BuildTransferInit(r.req)
	if err != nil {
		return err
	}

	res, err := r.w.node.Send(ctx, r.sourceHost, cmd)
	if err != nil {
		return err
	}
	r.result.InitResult = res

	keys := chainweb.RequestKeysOf(res)
	if len(keys) == 0 {
		return errors.Protocol("send response carries no request keys")
	}
	r.result.RequestKeyInit = keys[0]
	r.w.logger.Info("transfer initiated on chain %s, request key %s", r.req.SourceChainID, keys[0])
	return nil
}

// pollInit polls the source chain until the initiating transaction has a
// result, then extracts the pact id that links the two steps.
func (r *run) pollInit(ctx context.Context) error {
	rk := r.result.RequestKeyInit
	pol := Policy{MaxAttempts: r.w.cfg.AttemptsTx, Interval: r.w.cfg.IntervalTx}

	out := pollStep(ctx, r.w.logger, "init-poll", pol, r.deadline, func(ctx context.Context) (any, error) {
		res, err := r.w.node.Poll(ctx, r.sourceHost, []string{rk})
		if err != nil {
			return nil, err
		}
		entry, ok := chainweb.ResultEntry(res, rk)
		if !ok {
			return nil, chainweb.ErrNotReady
		}
		r.result.InitPollResult = res
		if status, msg := resultStatusOf(entry); status == "failure" {
			return nil, errors.Node("transfer initiation failed on chain: " + msg)
		}
		return res, nil
	})
	if out.status != outcomeCompleted {
		return out.err
	}

	entry, _ := chainweb.ResultEntry(r.result.InitPollResult, rk)
	pactID := pactIDOf(entry)
	if pactID == "" {
		// The node reported success but the continuation is missing; a
		// protocol mismatch, not transience.
		return errors.Protocol("confirmed initiation carries no continuation pact id")
	}
	r.result.PactID = pactID
	r.w.logger.Info("initiation confirmed, pact id %s", pactID)
	return nil
}

// postConfirmWait holds for the configured delay so the source chain can
// finalize before the first proof request. No polling, no attempt
// accounting; only the deadline and cancellation apply.
func (r *run) postConfirmWait(ctx context.Context) error {
	wait := r.w.cfg.PostConfirmWait
	if wait <= 0 {
		return nil
	}
	if left, ok := r.deadline.Remaining(); ok && left < wait {
		wait = left
	}
	if wait > 0 {
		r.w.logger.Debug("waiting %s before requesting the proof", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sleepCtx(ctx, wait):
		}
	}
	if r.deadline.Exceeded() {
		return errors.Timeout("post-confirm-wait")
	}
	return nil
}

// fetchProof polls the source chain for the cross-chain proof. Proof
// availability latency is unrelated to client retry budgets, so this phase
// defaults to unbounded attempts with the deadline as the backstop.
func (r *run) fetchProof(ctx context.Context) error {
	rk := r.result.RequestKeyInit
	pol := Policy{MaxAttempts: r.w.cfg.AttemptsSPV, Interval: r.w.cfg.IntervalSPV}

	out := pollStep(ctx, r.w.logger, "spv", pol, r.deadline, func(ctx context.Context) (any, error) {
		return r.w.node.SPV(ctx, r.sourceHost, rk, r.req.TargetChainID)
	})
	if out.status != outcomeCompleted {
		return out.err
	}

	proof, _ := out.payload.(string)
	if proof == "" {
		return errors.Protocol("spv endpoint returned an empty proof")
	}
	r.result.SPVProof = proof
	r.w.logger.Info("spv proof obtained after %d attempts", out.attempts)
	return nil
}

// complete builds and sends the continuation on the target chain. Like
// submit, failure here is fatal.
func (r *run) complete(ctx context.Context) error {
	cmd, err := r.w.builder.BuildTransferComplete(r.result.PactID, r.result.SPVProof, r.req)
	if err != nil {
		return err
	}

	res, err := r.w.node.Send(ctx, r.targetHost, cmd)
	if err != nil {
		return err
	}
	r.result.CompleteResult = res

	keys := chainweb.RequestKeysOf(res)
	if len(keys) == 0 {
		return errors.Protocol("send response carries no request keys")
	}
	r.result.RequestKeyComplete = keys[0]
	r.w.logger.Info("completion submitted on chain %s, request key %s", r.req.TargetChainID, keys[0])
	return nil
}

// pollFinal polls the target chain for the completion result. A failure
// whose message says the pact already completed counts as success: some
// nodes surface completed-pact state as an error.
func (r *run) pollFinal(ctx context.Context) error {
	rk := r.result.RequestKeyComplete
	pol := Policy{MaxAttempts: r.w.cfg.AttemptsFinal, Interval: r.w.cfg.IntervalFinal}

	out := pollStep(ctx, r.w.logger, "final-poll", pol, r.deadline, func(ctx context.Context) (any, error) {
		res, err := r.w.node.Poll(ctx, r.targetHost, []string{rk})
		if err != nil {
			return nil, err
		}
		entry, ok := chainweb.ResultEntry(res, rk)
		if !ok {
			return nil, chainweb.ErrNotReady
		}
		r.result.FinalPollResult = res
		status, msg := resultStatusOf(entry)
		if status == "success" {
			return res, nil
		}
		if isAlreadyCompleted(msg) {
			r.w.logger.Debug("node reports pact already completed, treating as success")
			return res, nil
		}
		return nil, errors.Node("transfer completion failed on chain: " + msg)
	})
	if out.status != outcomeCompleted {
		return out.err
	}

	r.w.logger.Info("cross-chain transfer completed, request key %s", rk)
	return nil
}

// resultStatusOf extracts result.status and the failure message, if any,
// from a poll entry. Error payloads appear both as bare strings and as
// objects with a message field.
func resultStatusOf(entry map[string]any) (status, message string) {
	result, _ := entry["result"].(map[string]any)
	status, _ = result["status"].(string)
	switch e := result["error"].(type) {
	case string:
		message = e
	case map[string]any:
		message, _ = e["message"].(string)
	}
	return status, message
}

// pactIDOf extracts the continuation pact id from a poll entry.
func pactIDOf(entry map[string]any) string {
	cont, _ := entry["continuation"].(map[string]any)
	id, _ := cont["pactId"].(string)
	return id
}
