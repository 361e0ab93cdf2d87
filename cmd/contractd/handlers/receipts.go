package handlers

import (
	"context"
	"net/http"

	"go.opencensus.io/trace"

	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/web"
)

// Receipts looks up transaction receipts on the node.
type Receipts struct {
	Node contracts.NodeClient
}

// Get returns the receipt for a transaction hash, or a pending status
// when the transaction has not been mined yet.
func (rc *Receipts) Get(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Receipts.Get")
	defer span.End()

	txHash := params["hash"]

	receipt, err := rc.Node.TransactionReceipt(ctx, txHash)
	if err != nil {
		return err
	}

	if receipt == nil {
		return web.Respond(ctx, w, receiptStatus{
			Status: statusPending,
			TxHash: txHash,
		}, http.StatusOK)
	}

	return web.Respond(ctx, w, receiptStatus{
		Status:  statusConfirmed,
		TxHash:  txHash,
		Receipt: receipt,
	}, http.StatusOK)
}
