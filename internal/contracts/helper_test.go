package contracts

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/yope/ethereum-contract/pkg/ethereum"
)

const testABI = `[
	{"constant":false,"inputs":[{"name":"value","type":"uint256"}],"name":"set","outputs":[],"payable":false,"type":"function"},
	{"constant":true,"inputs":[],"name":"get","outputs":[{"name":"","type":"uint256"}],"payable":false,"type":"function"}
]`

// nodeStub is a scripted NodeClient. Zero values mean "not called yet";
// the counters verify ordering properties.
type nodeStub struct {
	lock sync.Mutex

	compiled     map[string]*ethereum.CompiledContract
	compileErr   error
	compileCalls int

	estimate      uint64
	estimateErr   error
	estimateCalls int

	sendHash  string
	sendCalls int
	lastSent  *ethereum.TxRequest

	receipt      *ethereum.Receipt
	receiptAfter int // polls reporting absent before the receipt appears
	receiptCalls int

	callResult string
	callCalls  int
}

func newNodeStub() *nodeStub {
	return &nodeStub{
		compiled: map[string]*ethereum.CompiledContract{
			"Storage": {
				Code: "0x606060405260008055",
				Info: ethereum.ContractInfo{
					AbiDefinition: json.RawMessage(testABI),
				},
			},
		},
		estimate: 50,
		sendHash: "0xabc",
	}
}

func (n *nodeStub) CompileSolidity(ctx context.Context, source string) (map[string]*ethereum.CompiledContract, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.compileCalls++
	if n.compileErr != nil {
		return nil, n.compileErr
	}
	return n.compiled, nil
}

func (n *nodeStub) EstimateGas(ctx context.Context, tx *ethereum.TxRequest) (uint64, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.estimateCalls++
	if n.estimateErr != nil {
		return 0, n.estimateErr
	}
	return n.estimate, nil
}

func (n *nodeStub) SendTransaction(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.sendCalls++
	n.lastSent = tx
	return n.sendHash, nil
}

func (n *nodeStub) TransactionReceipt(ctx context.Context, txHash string) (*ethereum.Receipt, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.receiptCalls++
	if n.receiptCalls <= n.receiptAfter {
		return nil, nil
	}
	return n.receipt, nil
}

func (n *nodeStub) Call(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.callCalls++
	return n.callResult, nil
}

func (n *nodeStub) counts() (compile, estimate, send, call int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.compileCalls, n.estimateCalls, n.sendCalls, n.callCalls
}
