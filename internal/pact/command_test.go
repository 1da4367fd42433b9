package pact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopact/internal/crypto"
)

func testKey(t *testing.T) SigningKey {
	t.Helper()
	kp, err := crypto.GenKeyPair()
	require.NoError(t, err)
	return SigningKey{KeyPair: kp, Clist: []Capability{{Name: "coin.GAS", Args: []any{}}}}
}

func decodeCmd(t *testing.T, wire map[string]any) map[string]any {
	t.Helper()
	cmd, ok := wire["cmd"].(string)
	require.True(t, ok, "cmd must be the serialized payload string")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(cmd), &payload))
	return payload
}

func TestPrepareExecCmd(t *testing.T) {
	key := testKey(t)
	meta := MkMeta("k:"+key.PublicKey, "0", 0.0000001, 60000, 1700000000, 15000)

	wire, err := PrepareExecCmd("(+ 1 2)", map[string]any{"x": 1}, meta, "testnet04", "nonce-1", []SigningKey{key})
	require.NoError(t, err)

	cmd := wire["cmd"].(string)
	assert.Equal(t, crypto.Base64URLHash(crypto.HashBin(cmd)), wire["hash"],
		"hash is the blake2b-256 of the serialized payload")

	sigs := wire["sigs"].([]map[string]any)
	require.Len(t, sigs, 1)
	assert.True(t, crypto.Verify(cmd, key.PublicKey, sigs[0]["sig"].(string)),
		"signature covers the serialized payload")

	payload := decodeCmd(t, wire)
	assert.Equal(t, "testnet04", payload["networkId"])
	assert.Equal(t, "nonce-1", payload["nonce"])

	exec := payload["payload"].(map[string]any)["exec"].(map[string]any)
	assert.Equal(t, "(+ 1 2)", exec["code"])
	assert.Equal(t, map[string]any{"x": float64(1)}, exec["data"])

	signers := payload["signers"].([]any)
	require.Len(t, signers, 1)
	signer := signers[0].(map[string]any)
	assert.Equal(t, key.PublicKey, signer["pubKey"])
	assert.NotNil(t, signer["clist"])
}

func TestPrepareExecCmdUnsigned(t *testing.T) {
	wire, err := PrepareExecCmd("(describe-module \"coin\")", map[string]any{},
		MkMeta("not real", "0", 0.0000001, 60000, 1700000000, 5000), "testnet04", "n", nil)
	require.NoError(t, err)

	assert.Empty(t, wire["sigs"], "unsigned commands carry an empty sigs array")
	assert.NotEmpty(t, wire["hash"])
}

func TestPrepareExecCmdDefaultNonce(t *testing.T) {
	key := testKey(t)
	wire, err := PrepareExecCmd("(+ 1 2)", nil, MkMeta("s", "0", 0.0000001, 600, 0, 600), "testnet04", "", []SigningKey{key})
	require.NoError(t, err)

	payload := decodeCmd(t, wire)
	assert.NotEmpty(t, payload["nonce"])
}

func TestPrepareContCmd(t *testing.T) {
	key := testKey(t)
	meta := MkMeta("k:"+key.PublicKey, "2", 0.0000001, 60000, 1700000000, 15000)

	wire, err := PrepareContCmd("pact-123", false, 1, "proof-data",
		map[string]any{}, meta, "mainnet01", "n", []SigningKey{key})
	require.NoError(t, err)

	cont := decodeCmd(t, wire)["payload"].(map[string]any)["cont"].(map[string]any)
	assert.Equal(t, "pact-123", cont["pactId"])
	assert.Equal(t, false, cont["rollback"])
	assert.Equal(t, float64(1), cont["step"])
	assert.Equal(t, "proof-data", cont["proof"])
}

func TestPrepareContCmdEmptyProofIsNull(t *testing.T) {
	key := testKey(t)
	wire, err := PrepareContCmd("pact-123", true, 0, "",
		map[string]any{}, MkMeta("s", "0", 0.0000001, 600, 0, 600), "mainnet01", "n", []SigningKey{key})
	require.NoError(t, err)

	cont := decodeCmd(t, wire)["payload"].(map[string]any)["cont"].(map[string]any)
	assert.Nil(t, cont["proof"])
	assert.Equal(t, true, cont["rollback"])
}

func TestUUIDNonce(t *testing.T) {
	a, b := UUIDNonce(), UUIDNonce()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestMkPublicSend(t *testing.T) {
	c1 := map[string]any{"hash": "h1"}
	c2 := map[string]any{"hash": "h2"}

	env := MkPublicSend(c1, c2)
	cmds := env["cmds"].([]any)
	require.Len(t, cmds, 2)
	assert.Equal(t, c1, cmds[0])
	assert.Equal(t, c2, cmds[1])
}
