package pact

import (
	"strings"
	"time"

	"gopact/internal/errors"
	"gopact/internal/xchain"
)

const (
	defaultGasPrice = 0.0000001
	defaultGasLimit = 60000
	defaultTTL      = 15000

	// creationTimeSkew backdates creationTime so minor clock drift between
	// the client and the node does not invalidate the command.
	creationTimeSkew = 100
)

// Builder constructs signed transfer commands. It implements
// xchain.CommandBuilder.
type Builder struct {
	// Nonce generates command nonces; defaults to the timestamp nonce.
	Nonce func() string
}

// NewBuilder returns a Builder with default settings.
func NewBuilder() *Builder {
	return &Builder{Nonce: DefaultNonce}
}

func (b *Builder) nonce() string {
	if b.Nonce != nil {
		return b.Nonce()
	}
	return DefaultNonce()
}

// splitToken resolves a token address into namespace and module. The bare
// "coin" contract has no namespace.
func splitToken(token string) (namespace, module string, err error) {
	if token == "coin" {
		return "", "coin", nil
	}
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Validation("token address must be \"coin\" or namespace.module")
	}
	return parts[0], parts[1], nil
}

func creationTime() int64 {
	return time.Now().Unix() - creationTimeSkew
}

// BuildTransferInit builds the step-0 command that burns the amount on the
// source chain and opens the cross-chain pact.
func (b *Builder) BuildTransferInit(req xchain.TransferRequest) (map[string]any, error) {
	namespace, module, err := splitToken(req.Token)
	if err != nil {
		return nil, err
	}

	code := MkExp(module+".transfer-crosschain", namespace,
		req.SenderAccount,
		req.ReceiverAccount,
		Raw(`(read-keyset "ks")`),
		req.TargetChainID,
		Decimal(req.Amount),
	)

	key := SigningKey{
		KeyPair: req.SenderKey,
		Clist: []Capability{
			{Name: "coin.GAS", Args: []any{}},
			{Name: req.Token + ".TRANSFER_XCHAIN", Args: []any{
				req.SenderAccount, req.ReceiverAccount, req.Amount, req.TargetChainID,
			}},
		},
	}

	meta := MkMeta("k:"+req.SenderKey.PublicKey, req.SourceChainID,
		defaultGasPrice, defaultGasLimit, creationTime(), defaultTTL)
	envData := map[string]any{
		"ks": map[string]any{"pred": "keys-all", "keys": []any{req.ReceiverPublicKey}},
	}

	return PrepareExecCmd(code, envData, meta, req.NetworkID, b.nonce(), []SigningKey{key})
}

// BuildTransferComplete builds the step-1 continuation that credits the
// amount on the target chain, carrying the SPV proof from the source chain.
func (b *Builder) BuildTransferComplete(pactID, proof string, req xchain.TransferRequest) (map[string]any, error) {
	if pactID == "" {
		return nil, errors.Validation("pact id is required for completion")
	}
	if proof == "" {
		return nil, errors.Validation("spv proof is required for completion")
	}

	key := SigningKey{
		KeyPair: req.ReceiverKey,
		Clist:   []Capability{{Name: "coin.GAS", Args: []any{}}},
	}

	meta := MkMeta(req.ReceiverAccount, req.TargetChainID,
		defaultGasPrice, defaultGasLimit, creationTime(), defaultTTL)

	return PrepareContCmd(pactID, false, 1, proof,
		map[string]any{}, meta, req.NetworkID, b.nonce(), []SigningKey{key})
}

// BuildTokenTransfer builds a same-chain transfer-create command.
func (b *Builder) BuildTokenTransfer(token, senderAccount, receiverAccount, receiverPublicKey string, amount float64, senderKey SigningKey, chainID, networkID string) (map[string]any, error) {
	namespace, module, err := splitToken(token)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errors.Validation("amount must be positive")
	}

	code := MkExp(module+".transfer-create", namespace,
		senderAccount,
		receiverAccount,
		Raw(`(read-keyset "ks")`),
		Decimal(amount),
	)

	senderKey.Clist = []Capability{
		{Name: "coin.GAS", Args: []any{}},
		{Name: token + ".TRANSFER", Args: []any{senderAccount, receiverAccount, amount}},
	}

	meta := MkMeta("k:"+senderKey.PublicKey, chainID,
		defaultGasPrice, defaultGasLimit, creationTime(), defaultTTL)
	envData := map[string]any{
		"ks": map[string]any{"pred": "keys-all", "keys": []any{receiverPublicKey}},
	}

	return PrepareExecCmd(code, envData, meta, networkID, b.nonce(), []SigningKey{senderKey})
}

// BuildLocalExec builds an unsigned command for running arbitrary Pact code
// through /api/v1/local.
func (b *Builder) BuildLocalExec(code, chainID, networkID string) (map[string]any, error) {
	if code == "" {
		return nil, errors.Validation("pact code is required")
	}
	meta := MkMeta("not real", chainID, defaultGasPrice, defaultGasLimit,
		time.Now().Unix(), 5000)
	return PrepareExecCmd(code, map[string]any{}, meta, networkID, b.nonce(), nil)
}

// BuildDescribeModule builds an unsigned command for /api/v1/local that
// returns a deployed module's interface and code.
func (b *Builder) BuildDescribeModule(namespaceDotModule, chainID, networkID string) (map[string]any, error) {
	code := MkExp("describe-module", "", namespaceDotModule)
	meta := MkMeta("not real", chainID, defaultGasPrice, defaultGasLimit,
		time.Now().Unix(), 5000)
	return PrepareExecCmd(code, map[string]any{}, meta, networkID, b.nonce(), nil)
}
