package ethereum

/**
 * Ethereum Kit
 *
 * What is my purpose?
 * - You hold the value objects exchanged with an Ethereum node
 * - You keep the wire encoding in one place
 */

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// MaximumGasLimit is the gas ceiling attached to read-only calls. The
	// node never charges for eth_call, so callers get the largest budget
	// the node accepts.
	MaximumGasLimit = uint64(50000000)
)

// TxRequest is a transaction request submitted to the node. Field names
// follow the eth_* wire protocol. A request is built fresh per submission
// and not reused once submitted.
type TxRequest struct {
	From     string         `json:"from"`
	To       string         `json:"to,omitempty"`
	Data     string         `json:"data,omitempty"`
	Gas      hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big   `json:"gasPrice,omitempty"`
	Value    *hexutil.Big   `json:"value,omitempty"`
}
