package chainweb

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopact/internal/errors"
	"gopact/internal/logging"
)

// ErrNotReady signals that the node has no result yet for the queried
// request key or proof. Callers retry according to their poll policy.
var ErrNotReady = stderrors.New("result not ready")

// LocalOptions control the optional query parameters of /api/v1/local.
type LocalOptions struct {
	Preflight             *bool
	SignatureVerification *bool
}

// Client talks to the Pact HTTP API of chainweb nodes. The target host is
// passed per call because a cross-chain transfer spans two chains with
// distinct endpoints.
type Client struct {
	HTTP   *http.Client
	logger *logging.Logger
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: timeout},
		logger: logging.NewDefaultLogger("chainweb"),
	}
}

func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, errors.ErrorTypeInternal, "request serialization failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, errors.Wrap(err, errors.ErrorTypeInternal, "request construction failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, errors.Transport("chainweb", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("response body close failed: %v", cerr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Transport("chainweb", err)
	}
	return resp.StatusCode, data, nil
}

// decodeObject parses a JSON object response, classifying failures by HTTP
// status: client errors are malformed-request-class (never retried), server
// errors are transport-class (retried).
func decodeObject(status int, body []byte) (map[string]any, error) {
	if status >= 400 && status < 500 {
		return nil, errors.Node(nodeMessage(status, body))
	}
	if status >= 500 {
		return nil, errors.Transport("chainweb", stderrors.New(nodeMessage(status, body)))
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Protocol("expected JSON object, got: " + truncate(string(body), 200))
	}
	return out, nil
}

func nodeMessage(status int, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "empty response body"
	}
	return "node returned " + strconv.Itoa(status) + ": " + truncate(msg, 300)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Send submits one signed command to /api/v1/send and returns the node's
// response, normally {"requestKeys": [...]}. A client-error status means the
// command was structurally rejected; callers must not retry it.
func (c *Client) Send(ctx context.Context, host string, cmd map[string]any) (map[string]any, error) {
	envelope := map[string]any{"cmds": []any{cmd}}
	status, body, err := c.postJSON(ctx, host+"/api/v1/send", envelope)
	if err != nil {
		return nil, err
	}
	if status >= 400 && status < 500 {
		// Rejected submissions do not become valid by waiting.
		return nil, errors.Validation(nodeMessage(status, body))
	}
	return decodeObject(status, body)
}

// Poll issues a non-blocking status query for the given request keys. The
// response maps each confirmed request key to its transaction result; keys
// still pending are absent.
func (c *Client) Poll(ctx context.Context, host string, requestKeys []string) (map[string]any, error) {
	payload := map[string]any{"requestKeys": requestKeys}
	status, body, err := c.postJSON(ctx, host+"/api/v1/poll", payload)
	if err != nil {
		return nil, err
	}
	return decodeObject(status, body)
}

// Listen blocks server-side until the request key has a result. Poll is the
// primary path; Listen exists for callers that accept long-held connections.
func (c *Client) Listen(ctx context.Context, host, requestKey string) (map[string]any, error) {
	payload := map[string]any{"listen": requestKey}
	status, body, err := c.postJSON(ctx, host+"/api/v1/listen", payload)
	if err != nil {
		return nil, err
	}
	return decodeObject(status, body)
}

// Local executes a command on the node without submitting it to the chain.
func (c *Client) Local(ctx context.Context, host string, cmd map[string]any, opts *LocalOptions) (map[string]any, error) {
	endpoint := host + "/api/v1/local"
	if opts != nil {
		params := url.Values{}
		if opts.Preflight != nil {
			params.Set("preflight", strconv.FormatBool(*opts.Preflight))
		}
		if opts.SignatureVerification != nil {
			params.Set("signatureVerification", strconv.FormatBool(*opts.SignatureVerification))
		}
		if encoded := params.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}
	status, body, err := c.postJSON(ctx, endpoint, cmd)
	if err != nil {
		return nil, err
	}
	return decodeObject(status, body)
}

// SPV requests a cross-chain proof for a request key. Nodes report a proof
// that is not yet available through error statuses and empty bodies alike,
// so every shape other than a non-empty proof maps to ErrNotReady.
func (c *Client) SPV(ctx context.Context, host, requestKey, targetChainID string) (string, error) {
	payload := map[string]any{
		"requestKey":    requestKey,
		"targetChainId": targetChainID,
	}
	status, body, err := c.postJSON(ctx, host+"/spv", payload)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", ErrNotReady
	}

	// Older nodes answer with a bare JSON string, newer ones with an
	// object carrying a "proof" field.
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return bare, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		if proof, ok := obj["proof"].(string); ok && proof != "" {
			return proof, nil
		}
	}
	return "", ErrNotReady
}

// ResultEntry extracts the result object for one request key from a poll or
// listen response. ok is false while the transaction is still pending.
func ResultEntry(res map[string]any, requestKey string) (map[string]any, bool) {
	entry, ok := res[requestKey].(map[string]any)
	if !ok || len(entry) == 0 {
		return nil, false
	}
	return entry, true
}

// RequestKeysOf extracts the request keys from a send response.
func RequestKeysOf(res map[string]any) []string {
	raw, ok := res["requestKeys"].([]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for _, rk := range raw {
		if s, ok := rk.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}
