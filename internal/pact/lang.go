package pact

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Raw marks a value that is inserted into Pact code verbatim, without JSON
// quoting. Used for nested expressions like (read-keyset "ks") and decimal
// literals.
type Raw string

// Capability is one entry of a signer's capability list.
type Capability struct {
	Name string `json:"name"`
	Args []any  `json:"args"`
}

// MkMeta builds the public metadata object attached to every command.
func MkMeta(sender, chainID string, gasPrice float64, gasLimit, creationTime, ttl int64) map[string]any {
	return map[string]any{
		"creationTime": creationTime,
		"ttl":          ttl,
		"gasLimit":     gasLimit,
		"chainId":      chainID,
		"gasPrice":     gasPrice,
		"sender":       sender,
	}
}

// MkCap builds a described capability object for signing wallets.
func MkCap(role, description, name string, args []any) map[string]any {
	return map[string]any{
		"role":        role,
		"description": description,
		"cap": Capability{
			Name: name,
			Args: args,
		},
	}
}

// MkExp renders a Pact function application. A non-empty namespace prefixes
// the module-qualified function name. Raw arguments are inserted verbatim;
// everything else is JSON-encoded.
func MkExp(moduleAndFunction, namespace string, args ...any) string {
	var b strings.Builder
	b.WriteByte('(')
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte('.')
	}
	b.WriteString(moduleAndFunction)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(renderArg(arg))
	}
	b.WriteByte(')')
	return b.String()
}

func renderArg(arg any) string {
	switch v := arg.(type) {
	case Raw:
		return string(v)
	case string:
		if strings.HasPrefix(v, "(") || strings.HasPrefix(v, "[") {
			return v
		}
	}
	enc, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(enc)
}

// Decimal renders a float as a Pact decimal literal. Pact distinguishes
// integers from decimals, so whole amounts must keep a fractional part.
func Decimal(amount float64) Raw {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Raw(s)
}
