package chainweb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopact/internal/errors"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(5 * time.Second)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSend(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var envelope map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		cmds := envelope["cmds"].([]any)
		require.Len(t, cmds, 1)
		assert.Equal(t, "h1", cmds[0].(map[string]any)["hash"])

		writeJSON(t, w, map[string]any{"requestKeys": []string{"R1"}})
	})

	res, err := c.Send(context.Background(), srv.URL, map[string]any{"hash": "h1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, RequestKeysOf(res))
}

func TestSendRejectionIsValidationError(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Validation failed: invalid signature", http.StatusBadRequest)
	})

	_, err := c.Send(context.Background(), srv.URL, map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "invalid signature")
}

func TestPoll(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/poll", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []any{"R1", "R2"}, payload["requestKeys"])

		writeJSON(t, w, map[string]any{
			"R1": map[string]any{"result": map[string]any{"status": "success"}},
		})
	})

	res, err := c.Poll(context.Background(), srv.URL, []string{"R1", "R2"})
	require.NoError(t, err)

	entry, ok := ResultEntry(res, "R1")
	require.True(t, ok)
	assert.Equal(t, "success", entry["result"].(map[string]any)["status"])

	_, ok = ResultEntry(res, "R2")
	assert.False(t, ok, "pending keys are absent from the response")
}

func TestListen(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/listen", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "R1", payload["listen"])

		writeJSON(t, w, map[string]any{"result": map[string]any{"status": "success"}})
	})

	res, err := c.Listen(context.Background(), srv.URL, "R1")
	require.NoError(t, err)
	assert.NotNil(t, res["result"])
}

func TestLocalQueryParams(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/local", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("preflight"))
		assert.Equal(t, "false", r.URL.Query().Get("signatureVerification"))
		writeJSON(t, w, map[string]any{"result": map[string]any{"status": "success"}})
	})

	yes, no := true, false
	res, err := c.Local(context.Background(), srv.URL, map[string]any{}, &LocalOptions{
		Preflight:             &yes,
		SignatureVerification: &no,
	})
	require.NoError(t, err)
	assert.NotNil(t, res["result"])
}

func TestLocalWithoutOptions(t *testing.T) {
	srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, map[string]any{})
	})

	_, err := c.Local(context.Background(), srv.URL, map[string]any{}, nil)
	require.NoError(t, err)
}

func TestSPV(t *testing.T) {
	t.Run("bare string proof", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/spv", r.URL.Path)

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "R1", payload["requestKey"])
			assert.Equal(t, "2", payload["targetChainId"])

			writeJSON(t, w, "proof-base64")
		})

		proof, err := c.SPV(context.Background(), srv.URL, "R1", "2")
		require.NoError(t, err)
		assert.Equal(t, "proof-base64", proof)
	})

	t.Run("object proof", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{"proof": "proof-base64"})
		})

		proof, err := c.SPV(context.Background(), srv.URL, "R1", "2")
		require.NoError(t, err)
		assert.Equal(t, "proof-base64", proof)
	})

	t.Run("error status means not ready", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "SPV target not reachable", http.StatusBadRequest)
		})

		_, err := c.SPV(context.Background(), srv.URL, "R1", "2")
		assert.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("empty object means not ready", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{})
		})

		_, err := c.SPV(context.Background(), srv.URL, "R1", "2")
		assert.ErrorIs(t, err, ErrNotReady)
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("client error on poll is node class", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such request key", http.StatusNotFound)
		})

		_, err := c.Poll(context.Background(), srv.URL, []string{"R1"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeNode))
	})

	t.Run("server error is transport class", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "mempool unavailable", http.StatusServiceUnavailable)
		})

		_, err := c.Poll(context.Background(), srv.URL, []string{"R1"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
	})

	t.Run("unreachable host is transport class", func(t *testing.T) {
		c := NewClient(time.Second)
		_, err := c.Poll(context.Background(), "http://127.0.0.1:1", []string{"R1"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
	})

	t.Run("malformed body is protocol class", func(t *testing.T) {
		srv, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		_, err := c.Poll(context.Background(), srv.URL, []string{"R1"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeProtocol))
	})
}

func TestRequestKeysOf(t *testing.T) {
	assert.Nil(t, RequestKeysOf(map[string]any{}))
	assert.Nil(t, RequestKeysOf(map[string]any{"requestKeys": "R1"}))
	assert.Equal(t, []string{"R1", "R2"},
		RequestKeysOf(map[string]any{"requestKeys": []any{"R1", "R2"}}))
	assert.Equal(t, []string{"R1"},
		RequestKeysOf(map[string]any{"requestKeys": []any{"R1", 42}}), "non-string entries are skipped")
}
