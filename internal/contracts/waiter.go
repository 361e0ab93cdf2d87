package contracts

import (
	"context"
	"sync"
	"time"

	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/pkg/ethereum"

	"go.uber.org/zap"
)

// FutureReceipt is a handle to a receipt that may become available
// asynchronously. A future left unresolved after the polling deadline is
// a valid, expected outcome: the transaction is still pending, not
// failed. Callers re-check later or abandon the handle.
type FutureReceipt struct {
	TxHash          string
	ContractAddress string
	Type            ethereum.ReceiptType

	resolve sync.Once
	done    chan struct{}
	receipt *ethereum.Receipt // set before done is closed
}

func newFutureReceipt(txHash, contractAddress string, typ ethereum.ReceiptType) *FutureReceipt {
	return &FutureReceipt{
		TxHash:          txHash,
		ContractAddress: contractAddress,
		Type:            typ,
		done:            make(chan struct{}),
	}
}

// Done is closed once the future resolves.
func (f *FutureReceipt) Done() <-chan struct{} {
	return f.done
}

// Receipt polls the future without blocking. The second return is false
// while the receipt is still pending.
func (f *FutureReceipt) Receipt() (*ethereum.Receipt, bool) {
	select {
	case <-f.done:
		return f.receipt, true
	default:
		return nil, false
	}
}

// Wait blocks until the future resolves or the context expires.
func (f *FutureReceipt) Wait(ctx context.Context) (*ethereum.Receipt, error) {
	select {
	case <-f.done:
		return f.receipt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *FutureReceipt) fulfill(receipt *ethereum.Receipt) {
	f.resolve.Do(func() {
		f.receipt = receipt
		close(f.done)
	})
}

// Waiter polls the node for mined receipts. Each Start call runs its own
// goroutine with a hard wall-clock deadline; there is no shared pool.
type Waiter struct {
	node         NodeClient
	pollInterval time.Duration
	timeout      time.Duration
}

// NewWaiter returns a Waiter with the given poll interval and deadline.
func NewWaiter(node NodeClient, pollInterval, timeout time.Duration) *Waiter {
	return &Waiter{
		node:         node,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Start returns a future immediately and resolves it from a background
// poll loop once the node reports the transaction as mined. The loop is
// bounded by the waiter's deadline; on expiry the future is left
// unresolved and a warning is logged. Cancellation of an in-flight node
// call is best effort.
func (w *Waiter) Start(ctx context.Context, txHash, contractAddress string, typ ethereum.ReceiptType) *FutureReceipt {
	future := newFutureReceipt(txHash, contractAddress, typ)

	// The poll loop outlives the request but never the deadline.
	pollCtx := logger.ContextWithTXHash(logger.ContextWithRequestID(context.Background(),
		logger.RequestIDFromContext(ctx)), txHash)
	pollCtx, cancel := context.WithTimeout(pollCtx, w.timeout)

	go w.poll(pollCtx, cancel, future)

	return future
}

func (w *Waiter) poll(ctx context.Context, cancel context.CancelFunc, future *FutureReceipt) {
	defer cancel()

	log := logger.NewLoggerFromContext(ctx)

	for {
		receipt, err := w.node.TransactionReceipt(ctx, future.TxHash)
		if err != nil {
			if ctx.Err() != nil {
				w.logPending(ctx, future)
				return
			}
			log.Warn("Receipt poll failed", zap.Error(err))
		}

		if receipt != nil {
			receipt.Type = future.Type
			if future.ContractAddress != "" {
				receipt.ContractAddress = future.ContractAddress
			}
			future.fulfill(receipt)

			log.Debug("Receipt resolved",
				zap.String("contract_address", receipt.ContractAddress),
				zap.String("type", string(receipt.Type)))
			return
		}

		select {
		case <-time.After(w.pollInterval):
		case <-ctx.Done():
			w.logPending(ctx, future)
			return
		}
	}
}

// logPending records that the deadline elapsed with the transaction still
// unmined. No further polls are scheduled; the future stays unresolved.
func (w *Waiter) logPending(ctx context.Context, future *FutureReceipt) {
	logger.NewLoggerFromContext(ctx).Warn("Receipt still pending after deadline",
		zap.String("contract_address", future.ContractAddress),
		zap.String("type", string(future.Type)))
}
