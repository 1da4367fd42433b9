package chainweb

import (
	"fmt"

	"gopact/internal/errors"
)

// APIHost maps a network and chain id to the Pact endpoint base URL for that
// chain. The networkId must match the chainweb path segment.
func APIHost(networkID, chainID string) (string, error) {
	switch networkID {
	case "mainnet01":
		return fmt.Sprintf("https://api.chainweb.com/chainweb/0.0/mainnet01/chain/%s/pact", chainID), nil
	case "testnet04":
		return fmt.Sprintf("https://api.testnet.chainweb.com/chainweb/0.0/testnet04/chain/%s/pact", chainID), nil
	default:
		return "", errors.Validation("unsupported network id: " + networkID)
	}
}

// ExplorerTxURL returns the block explorer page for a request key, or an
// empty string when the network has no public explorer.
func ExplorerTxURL(networkID, requestKey string) string {
	switch networkID {
	case "mainnet01":
		return "https://explorer.chainweb.com/mainnet/tx/" + requestKey
	case "testnet04":
		return "https://explorer.chainweb.com/testnet/tx/" + requestKey
	default:
		return ""
	}
}
