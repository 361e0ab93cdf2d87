package txbuilder

/**
 * Tx Builder Kit
 *
 * What is my purpose?
 * - You build well formed transaction requests
 * - You encode method calls and decode their results
 */

import (
	"encoding/hex"
	"strings"

	"github.com/yope/ethereum-contract/pkg/ethereum"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

var (
	// ErrMethodNotFound occurs when a method name is absent from the
	// compiled contract's ABI.
	ErrMethodNotFound = errors.New("Method not found in contract ABI")

	// ErrNoResult occurs when a call produced no output data to decode.
	ErrNoResult = errors.New("No result data to decode")
)

// BuildCreate assembles a contract creation request. The payload is the
// compiled bytecode with its hex prefix stripped and there is no
// recipient. Gas limit and price are attached by the caller once the
// estimate is known.
func BuildCreate(contract *ethereum.CompiledContract, account string) *ethereum.TxRequest {
	return &ethereum.TxRequest{
		From: account,
		Data: contract.Bytecode(),
	}
}

// BuildCall assembles a method call request against a deployed contract,
// encoding the method and its arguments per the contract's ABI. Returns
// ErrMethodNotFound when the ABI has no such method.
func BuildCall(contract *ethereum.CompiledContract, contractAddress, account, method string,
	args ...interface{}) (*ethereum.TxRequest, error) {

	parsed, err := contract.ABI()
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	m, ok := parsed.Methods[method]
	if !ok {
		return nil, errors.Wrap(ErrMethodNotFound, method)
	}

	coerced, err := coerceArgs(m, args)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", method)
	}

	packed, err := parsed.Pack(method, coerced...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}

	return &ethereum.TxRequest{
		From: account,
		To:   contractAddress,
		Data: hex.EncodeToString(packed),
	}, nil
}

// DecodeResult decodes the raw output of a read-only call and returns the
// first output value as a tagged scalar.
func DecodeResult(contract *ethereum.CompiledContract, method string, data string) (*ethereum.Value, error) {
	parsed, err := contract.ABI()
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	m, ok := parsed.Methods[method]
	if !ok {
		return nil, errors.Wrap(ErrMethodNotFound, method)
	}

	raw, err := decodeHex(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode output")
	}

	values, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	if len(values) == 0 || len(m.Outputs) == 0 {
		return nil, errors.Wrap(ErrNoResult, method)
	}

	return newValue(m.Outputs[0].Type, values[0]), nil
}

func decodeHex(data string) ([]byte, error) {
	if strings.HasPrefix(data, "0x") {
		return hexutil.Decode(data)
	}
	return hex.DecodeString(data)
}
