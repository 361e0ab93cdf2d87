package contracts

import (
	"context"
	"math/big"
	"time"

	"github.com/yope/ethereum-contract/pkg/ethereum"
	"github.com/yope/ethereum-contract/pkg/txbuilder"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

const (
	// DefaultPollInterval is the pause between receipt polls.
	DefaultPollInterval = 1000 * time.Millisecond

	// DefaultReceiptTimeout bounds how long a receipt poll loop lives.
	DefaultReceiptTimeout = 1000 * time.Millisecond
)

var (
	// ErrGasExceeded occurs when the estimated gas for an operation
	// exceeds the gas the account authorized.
	ErrGasExceeded = errors.New("Gas exceeded")

	// ErrNoSuchMethod occurs when a requested method is absent from the
	// descriptor or from the compiled contract.
	ErrNoSuchMethod = errors.New("No such contract method")

	// ErrNotCompiled occurs when the descriptor's key is absent from the
	// compiler output.
	ErrNotCompiled = errors.New("Contract not found in compiler output")
)

// NodeClient is the node surface the service depends on. All calls are
// synchronous; the client must be safe for concurrent use.
type NodeClient interface {
	CompileSolidity(ctx context.Context, source string) (map[string]*ethereum.CompiledContract, error)
	EstimateGas(ctx context.Context, tx *ethereum.TxRequest) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethereum.TxRequest) (string, error)
	TransactionReceipt(ctx context.Context, txHash string) (*ethereum.Receipt, error)
	Call(ctx context.Context, tx *ethereum.TxRequest) (string, error)
}

// Config holds the process-wide settings of the service. GasPrice is
// immutable once the service is constructed.
type Config struct {
	GasPrice       *big.Int
	PollInterval   time.Duration
	ReceiptTimeout time.Duration
}

// Service deploys contracts, invokes state-changing methods, and runs
// read-only methods against the node.
type Service struct {
	node   NodeClient
	config Config
	waiter *Waiter
	cache  *compileCache
}

// NewService returns a Service wired to the given node.
func NewService(node NodeClient, config Config) *Service {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.ReceiptTimeout <= 0 {
		config.ReceiptTimeout = DefaultReceiptTimeout
	}
	if config.GasPrice == nil {
		config.GasPrice = big.NewInt(0)
	}

	return &Service{
		node:   node,
		config: config,
		waiter: NewWaiter(node, config.PollInterval, config.ReceiptTimeout),
		cache:  newCompileCache(),
	}
}

// ReceiptTimeout returns the configured receipt polling deadline.
func (s *Service) ReceiptTimeout() time.Duration {
	return s.config.ReceiptTimeout
}

// Create deploys the contract described by the descriptor. It returns a
// map of future receipts keyed by receipt type. The estimated gas is
// checked against accountGas before anything is submitted.
func (s *Service) Create(ctx context.Context, d *Descriptor, accountGas uint64) (map[ethereum.ReceiptType]*FutureReceipt, error) {
	ctx, span := trace.StartSpan(ctx, "internal.contracts.Create")
	defer span.End()

	d.attachMethods()

	contract, err := s.Compile(ctx, d)
	if err != nil {
		return nil, err
	}

	tx := txbuilder.BuildCreate(contract, d.Account)

	gas, err := s.node.EstimateGas(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "estimate gas")
	}

	if err := checkGas(d.Account, accountGas, gas); err != nil {
		return nil, err
	}

	tx.Gas = hexutil.Uint64(gas)
	tx.GasPrice = (*hexutil.Big)(s.config.GasPrice)

	txHash, err := s.node.SendTransaction(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}

	receipts := map[ethereum.ReceiptType]*FutureReceipt{
		ethereum.ReceiptTypeCreate: s.waiter.Start(ctx, txHash, "", ethereum.ReceiptTypeCreate),
	}
	return receipts, nil
}

// Modify invokes the descriptor's MODIFY method on the deployed contract
// and returns a future receipt. The estimated gas for the encoded call is
// checked against accountGas before submission.
func (s *Service) Modify(ctx context.Context, contractAddress string, d *Descriptor, accountGas uint64) (*FutureReceipt, error) {
	ctx, span := trace.StartSpan(ctx, "internal.contracts.Modify")
	defer span.End()

	d.attachMethods()

	contract, err := s.Compile(ctx, d)
	if err != nil {
		return nil, err
	}

	m, ok := d.method(ethereum.MethodModify)
	if !ok {
		return nil, errors.Wrap(ErrNoSuchMethod, "no modify method declared")
	}

	tx, err := buildCall(contract, contractAddress, d.Account, m)
	if err != nil {
		return nil, err
	}

	gas, err := s.node.EstimateGas(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "estimate gas")
	}

	if err := checkGas(d.Account, accountGas, gas); err != nil {
		return nil, err
	}

	tx.Gas = hexutil.Uint64(gas)
	tx.GasPrice = (*hexutil.Big)(s.config.GasPrice)

	txHash, err := s.node.SendTransaction(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}

	return s.waiter.Start(ctx, txHash, contractAddress, ethereum.ReceiptTypeModify), nil
}

// Run invokes the descriptor's RUN method read-only and returns the
// decoded scalar result. No gas check and no receipt wait: nothing is
// submitted.
func (s *Service) Run(ctx context.Context, contractAddress string, d *Descriptor) (*ethereum.Value, error) {
	ctx, span := trace.StartSpan(ctx, "internal.contracts.Run")
	defer span.End()

	d.attachMethods()

	contract, err := s.Compile(ctx, d)
	if err != nil {
		return nil, err
	}

	m, ok := d.method(ethereum.MethodRun)
	if !ok {
		return nil, errors.Wrap(ErrNoSuchMethod, "no run method declared")
	}

	call, err := buildCall(contract, contractAddress, d.Account, m)
	if err != nil {
		return nil, err
	}
	call.Gas = hexutil.Uint64(ethereum.MaximumGasLimit)

	data, err := s.node.Call(ctx, call)
	if err != nil {
		return nil, errors.Wrap(err, "call")
	}

	value, err := txbuilder.DecodeResult(contract, m.Name, data)
	if err != nil {
		return nil, errors.Wrap(err, "decode result")
	}

	return value, nil
}

// buildCall encodes a method call, translating a missing ABI method into
// ErrNoSuchMethod.
func buildCall(contract *ethereum.CompiledContract, contractAddress, account string,
	m ethereum.Method) (*ethereum.TxRequest, error) {

	tx, err := txbuilder.BuildCall(contract, contractAddress, account, m.Name, m.Args...)
	if err != nil {
		if errors.Cause(err) == txbuilder.ErrMethodNotFound {
			return nil, errors.Wrap(ErrNoSuchMethod, m.Name)
		}
		return nil, errors.Wrap(err, "build call")
	}
	return tx, nil
}

// checkGas rejects an operation whose estimated cost exceeds the gas the
// account authorized. Runs before every submission; no side effects.
func checkGas(account string, accountGas, gas uint64) error {
	if accountGas < gas {
		return errors.Wrapf(ErrGasExceeded, "account %s authorized %d, estimate %d", account, accountGas, gas)
	}
	return nil
}
