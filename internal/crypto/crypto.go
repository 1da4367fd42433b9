package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"gopact/internal/errors"

	"golang.org/x/crypto/blake2b"
)

// KeyPair is an ed25519 key pair in the hex encoding Pact uses on the wire.
// SecretKey is the 32-byte seed; it may be empty for verify-only keys.
type KeyPair struct {
	PublicKey string
	SecretKey string
}

// HashBin computes the blake2b-256 digest Pact uses for command hashes.
func HashBin(msg string) []byte {
	sum := blake2b.Sum256([]byte(msg))
	return sum[:]
}

// Base64URLHash encodes a binary hash the way Chainweb expects request keys:
// URL-safe base64 without padding.
func Base64URLHash(bin []byte) string {
	return base64.RawURLEncoding.EncodeToString(bin)
}

// HexToBin decodes a hex string, returning nil on malformed input.
func HexToBin(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// BinToHex encodes bytes as lowercase hex.
func BinToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// GenKeyPair generates a fresh ed25519 key pair.
func GenKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, errors.Wrap(err, errors.ErrorTypeInternal, "key generation failed")
	}
	return KeyPair{
		PublicKey: hex.EncodeToString(pub),
		SecretKey: hex.EncodeToString(priv.Seed()),
	}, nil
}

// RestoreKeyPair derives the public key from a hex-encoded 32-byte seed.
func RestoreKeyPair(secret string) (KeyPair, error) {
	seed, err := hex.DecodeString(secret)
	if err != nil || len(seed) != ed25519.SeedSize {
		return KeyPair{}, errors.Validation("secret key must be 32 hex-encoded bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return KeyPair{
		PublicKey: hex.EncodeToString(pub),
		SecretKey: secret,
	}, nil
}

// Sign hashes msg with blake2b-256 and signs the hash. It returns the
// base64url-encoded hash (the request key) and the hex-encoded signature.
func Sign(msg, secret string) (hash string, sig string, err error) {
	seed, derr := hex.DecodeString(secret)
	if derr != nil || len(seed) != ed25519.SeedSize {
		return "", "", errors.Validation("secret key must be 32 hex-encoded bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	digest := HashBin(msg)
	raw := ed25519.Sign(priv, digest)
	return Base64URLHash(digest), hex.EncodeToString(raw), nil
}

// Verify checks a hex signature over the blake2b-256 hash of msg.
func Verify(msg, publicKey, signature string) bool {
	pub := HexToBin(publicKey)
	sig := HexToBin(signature)
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), HashBin(msg), sig)
}
