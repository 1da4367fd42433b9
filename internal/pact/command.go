package pact

import (
	"encoding/json"
	"time"

	"gopact/internal/crypto"
	"gopact/internal/errors"

	"github.com/google/uuid"
)

// SigningKey is a key pair plus the capability list its signature grants.
type SigningKey struct {
	crypto.KeyPair
	Clist []Capability
}

// sigEntry is one signature slot of a command. Sig is empty for keys that
// only declare a signer (no secret available locally).
type sigEntry struct {
	Hash      string
	Sig       string
	PublicKey string
}

// DefaultNonce returns the conventional timestamp nonce.
func DefaultNonce() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// UUIDNonce returns a random nonce for callers that submit several commands
// within one second.
func UUIDNonce() string {
	return uuid.New().String()
}

func mkSigner(key SigningKey) map[string]any {
	signer := map[string]any{"pubKey": key.PublicKey}
	if key.Clist != nil {
		signer["clist"] = key.Clist
	}
	return signer
}

// attachSig hashes the serialized command and signs it with every key that
// carries a secret. Keys without a secret contribute a null signature slot.
func attachSig(cmd string, keys []SigningKey) ([]sigEntry, error) {
	digest := crypto.HashBin(cmd)
	hash := crypto.Base64URLHash(digest)

	if len(keys) == 0 {
		return []sigEntry{{Hash: hash}}, nil
	}

	sigs := make([]sigEntry, 0, len(keys))
	for _, key := range keys {
		entry := sigEntry{Hash: hash, PublicKey: key.PublicKey}
		if key.SecretKey != "" {
			_, sig, err := crypto.Sign(cmd, key.SecretKey)
			if err != nil {
				return nil, err
			}
			entry.Sig = sig
		}
		sigs = append(sigs, entry)
	}
	return sigs, nil
}

// mkSingleCmd assembles the wire form {hash, sigs, cmd}. Every signature
// must cover the same hash; entries without a signature are dropped from the
// sigs array but still pin the hash.
func mkSingleCmd(sigs []sigEntry, cmd string) (map[string]any, error) {
	if len(sigs) == 0 {
		return nil, errors.Internal("command has no signature entries")
	}
	hash := sigs[0].Hash
	for _, s := range sigs {
		if s.Hash != hash {
			return nil, errors.Validation("signatures cover different command hashes")
		}
	}

	wireSigs := make([]map[string]any, 0, len(sigs))
	for _, s := range sigs {
		if s.Sig == "" {
			continue
		}
		wireSigs = append(wireSigs, map[string]any{"sig": s.Sig})
	}

	return map[string]any{
		"hash": hash,
		"sigs": wireSigs,
		"cmd":  cmd,
	}, nil
}

// PrepareExecCmd builds and signs an exec command ready for /api/v1/send.
func PrepareExecCmd(pactCode string, envData, meta map[string]any, networkID, nonce string, keys []SigningKey) (map[string]any, error) {
	if nonce == "" {
		nonce = DefaultNonce()
	}

	signers := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		signers = append(signers, mkSigner(key))
	}

	payload := map[string]any{
		"networkId": networkID,
		"payload": map[string]any{
			"exec": map[string]any{
				"data": envData,
				"code": pactCode,
			},
		},
		"signers": signers,
		"meta":    meta,
		"nonce":   nonce,
	}

	return signPayload(payload, keys)
}

// PrepareContCmd builds and signs a continuation command, optionally
// carrying an SPV proof for cross-chain resumption.
func PrepareContCmd(pactID string, rollback bool, step int, proof string, envData, meta map[string]any, networkID, nonce string, keys []SigningKey) (map[string]any, error) {
	if nonce == "" {
		nonce = DefaultNonce()
	}

	signers := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		signers = append(signers, mkSigner(key))
	}

	var proofField any
	if proof != "" {
		proofField = proof
	}

	payload := map[string]any{
		"networkId": networkID,
		"payload": map[string]any{
			"cont": map[string]any{
				"proof":    proofField,
				"pactId":   pactID,
				"rollback": rollback,
				"step":     step,
				"data":     envData,
			},
		},
		"signers": signers,
		"meta":    meta,
		"nonce":   nonce,
	}

	return signPayload(payload, keys)
}

func signPayload(payload map[string]any, keys []SigningKey) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "command serialization failed")
	}
	cmd := string(raw)

	sigs, err := attachSig(cmd, keys)
	if err != nil {
		return nil, err
	}
	return mkSingleCmd(sigs, cmd)
}

// MkPublicSend wraps prepared commands in the /api/v1/send envelope.
func MkPublicSend(cmds ...map[string]any) map[string]any {
	list := make([]any, len(cmds))
	for i, c := range cmds {
		list[i] = c
	}
	return map[string]any{"cmds": list}
}
