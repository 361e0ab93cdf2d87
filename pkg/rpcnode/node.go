package rpcnode

/**
 * RPC Node Kit
 *
 * What is my purpose?
 * - You connect to an Ethereum node
 * - You make RPC calls for me
 */

import (
	"context"
	"time"

	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/pkg/ethereum"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

const (
	// SubSystem is used to name the logger.
	SubSystem = "RPCNode"
)

type RPCNode struct {
	client *rpc.Client
}

// NewNode returns a new instance of an RPC node.
func NewNode(config *Config) (*RPCNode, error) {
	client, err := rpc.Dial(config.Host)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", config.Host)
	}

	n := &RPCNode{
		client: client,
	}

	return n, nil
}

// CompileSolidity compiles contract source on the node and returns the
// compiled contracts keyed by name. Malformed source fails the call.
func (r *RPCNode) CompileSolidity(ctx context.Context, source string) (map[string]*ethereum.CompiledContract, error) {
	ctx = logger.ContextWithNamedLogger(ctx, SubSystem)
	defer logger.Elapsed(ctx, time.Now(), "CompileSolidity")

	var compiled map[string]*ethereum.CompiledContract
	if err := r.client.CallContext(ctx, &compiled, "eth_compileSolidity", source); err != nil {
		return nil, errors.Wrap(err, "eth_compileSolidity")
	}

	return compiled, nil
}

// EstimateGas asks the node for the gas cost of the given transaction
// request, decoded from the node's quantity encoding to a plain integer.
func (r *RPCNode) EstimateGas(ctx context.Context, tx *ethereum.TxRequest) (uint64, error) {
	ctx = logger.ContextWithNamedLogger(ctx, SubSystem)
	defer logger.Elapsed(ctx, time.Now(), "EstimateGas")

	var gas hexutil.Uint64
	if err := r.client.CallContext(ctx, &gas, "eth_estimateGas", tx); err != nil {
		return 0, errors.Wrap(err, "eth_estimateGas")
	}

	return uint64(gas), nil
}

// SendTransaction submits a transaction request and returns its hash.
// Signing is the node's concern.
func (r *RPCNode) SendTransaction(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	ctx = logger.ContextWithNamedLogger(ctx, SubSystem)
	defer logger.Elapsed(ctx, time.Now(), "SendTransaction")

	var txHash string
	if err := r.client.CallContext(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return "", errors.Wrap(err, "eth_sendTransaction")
	}

	return txHash, nil
}

// TransactionReceipt fetches the receipt for a transaction hash. Returns
// nil without an error while the transaction is not mined yet.
func (r *RPCNode) TransactionReceipt(ctx context.Context, txHash string) (*ethereum.Receipt, error) {
	var receipt *ethereum.Receipt
	if err := r.client.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, errors.Wrap(err, "eth_getTransactionReceipt")
	}

	return receipt, nil
}

// Call performs a read-only call against the latest block and returns the
// raw output data.
func (r *RPCNode) Call(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	ctx = logger.ContextWithNamedLogger(ctx, SubSystem)
	defer logger.Elapsed(ctx, time.Now(), "Call")

	var data string
	if err := r.client.CallContext(ctx, &data, "eth_call", tx, "latest"); err != nil {
		return "", errors.Wrap(err, "eth_call")
	}

	return data, nil
}

// Close shuts down the underlying RPC connection.
func (r *RPCNode) Close() {
	r.client.Close()
}
