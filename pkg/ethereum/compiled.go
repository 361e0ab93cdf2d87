package ethereum

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// CompiledContract is one entry of the compiler output returned by the
// node, keyed by contract name.
type CompiledContract struct {
	Code string       `json:"code"`
	Info ContractInfo `json:"info"`
}

// ContractInfo carries the compiler metadata for a compiled contract.
type ContractInfo struct {
	Source          string          `json:"source,omitempty"`
	Language        string          `json:"language,omitempty"`
	LanguageVersion string          `json:"languageVersion,omitempty"`
	AbiDefinition   json.RawMessage `json:"abiDefinition"`
}

// Bytecode returns the compiled code with the hex prefix stripped, the
// form expected in a creation payload.
func (c *CompiledContract) Bytecode() string {
	return strings.TrimPrefix(c.Code, "0x")
}

// ABI parses the contract's interface definition.
func (c *CompiledContract) ABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(string(c.Info.AbiDefinition)))
}
