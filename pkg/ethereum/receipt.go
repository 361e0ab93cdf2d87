package ethereum

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ReceiptType tags a receipt with the operation that produced it.
type ReceiptType string

const (
	ReceiptTypeCreate ReceiptType = "CREATE"
	ReceiptTypeModify ReceiptType = "MODIFY"
)

// Receipt is the node-confirmed record that a transaction was mined. The
// node fills the mining metadata; the service stamps Type and, for method
// calls, the contract address.
type Receipt struct {
	Type              ReceiptType    `json:"type,omitempty"`
	TxHash            string         `json:"transactionHash"`
	ContractAddress   string         `json:"contractAddress,omitempty"`
	BlockHash         string         `json:"blockHash,omitempty"`
	BlockNumber       hexutil.Uint64 `json:"blockNumber,omitempty"`
	TransactionIndex  hexutil.Uint64 `json:"transactionIndex,omitempty"`
	GasUsed           hexutil.Uint64 `json:"gasUsed,omitempty"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed,omitempty"`
	Status            hexutil.Uint64 `json:"status,omitempty"`
}
