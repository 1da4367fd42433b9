package xchain

import "encoding/json"

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result accumulates the artifacts of one cross-chain transfer run. Each
// phase records what it produced before the workflow decides whether to
// continue, so a failed run still carries everything gathered up to the
// failing phase.
type Result struct {
	Status string `json:"status"`

	RequestKeyInit string         `json:"request_key_init,omitempty"`
	InitResult     map[string]any `json:"init_result,omitempty"`
	InitPollResult map[string]any `json:"init_poll_result,omitempty"`
	PactID         string         `json:"pact_id,omitempty"`
	SPVProof       string         `json:"spv_proof,omitempty"`

	CompleteResult     map[string]any `json:"complete_result,omitempty"`
	RequestKeyComplete string         `json:"request_key_complete,omitempty"`
	FinalPollResult    map[string]any `json:"final_poll_result,omitempty"`

	Error       string `json:"error,omitempty"`
	FailedPhase string `json:"failed_phase,omitempty"`
}

// JSON renders the result as indented JSON.
func (r *Result) JSON() string {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return `{"status":"error","error":"result serialization failed"}`
	}
	return string(out)
}
