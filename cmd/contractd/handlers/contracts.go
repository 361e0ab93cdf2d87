package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opencensus.io/trace"
	"go.uber.org/zap"

	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/internal/platform/web"
	"github.com/yope/ethereum-contract/internal/registry"
	"github.com/yope/ethereum-contract/internal/sweeper"
	"github.com/yope/ethereum-contract/pkg/ethereum"
)

// Contracts exposes the contract operations over HTTP.
type Contracts struct {
	Service  *contracts.Service
	MasterDB *db.DB
	Sweeper  *sweeper.Sweeper
}

// ContractRequest is the request body shared by the contract operations.
type ContractRequest struct {
	Key        string            `json:"key"`
	Account    string            `json:"account"`
	Source     string            `json:"source"`
	Methods    []ethereum.Method `json:"methods"`
	AccountGas uint64            `json:"accountGas"`
}

func (cr *ContractRequest) descriptor() *contracts.Descriptor {
	return &contracts.Descriptor{
		Key:     cr.Key,
		Account: cr.Account,
		Source:  cr.Source,
		Methods: cr.Methods,
	}
}

// receiptStatus reports how far a submitted transaction got within the
// request window.
type receiptStatus struct {
	Status  string            `json:"status"`
	TxHash  string            `json:"txHash"`
	Receipt *ethereum.Receipt `json:"receipt,omitempty"`
}

const (
	statusConfirmed = "confirmed"
	statusPending   = "pending"
)

// Create deploys a contract. Responds with the receipt when it is mined
// within the configured window, otherwise reports the transaction as
// pending and leaves it to the sweeper.
func (c *Contracts) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Contracts.Create")
	defer span.End()

	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	d := req.descriptor()

	futures, err := c.Service.Create(ctx, d, req.AccountGas)
	if err != nil {
		return err
	}

	future := futures[ethereum.ReceiptTypeCreate]

	receipt, ok := c.await(ctx, future)
	if !ok {
		c.Sweeper.Add(sweeper.Entry{
			TxHash: future.TxHash,
			Type:   ethereum.ReceiptTypeCreate,
			Key:    d.Key,
			ABI:    c.abiFor(ctx, d),
		})

		return web.Respond(ctx, w, receiptStatus{
			Status: statusPending,
			TxHash: future.TxHash,
		}, http.StatusOK)
	}

	rec := &registry.Record{
		Key:     d.Key,
		Address: receipt.ContractAddress,
		TxHash:  future.TxHash,
		ABI:     c.abiFor(ctx, d),
	}

	// The deployment succeeded on chain; a registry failure must not
	// hide the confirmed receipt from the caller.
	if err := registry.Save(ctx, c.MasterDB, rec); err != nil {
		logger.NewLoggerFromContext(ctx).Warn("Failed to record deployment",
			zap.String("contract_address", receipt.ContractAddress),
			zap.Error(err))
	}

	return web.Respond(ctx, w, receiptStatus{
		Status:  statusConfirmed,
		TxHash:  future.TxHash,
		Receipt: receipt,
	}, http.StatusOK)
}

// Modify invokes the state-changing method on a deployed contract.
func (c *Contracts) Modify(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Contracts.Modify")
	defer span.End()

	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	future, err := c.Service.Modify(ctx, params["address"], req.descriptor(), req.AccountGas)
	if err != nil {
		return err
	}

	receipt, ok := c.await(ctx, future)
	if !ok {
		c.Sweeper.Add(sweeper.Entry{
			TxHash: future.TxHash,
			Type:   ethereum.ReceiptTypeModify,
		})

		return web.Respond(ctx, w, receiptStatus{
			Status: statusPending,
			TxHash: future.TxHash,
		}, http.StatusOK)
	}

	return web.Respond(ctx, w, receiptStatus{
		Status:  statusConfirmed,
		TxHash:  future.TxHash,
		Receipt: receipt,
	}, http.StatusOK)
}

// Run invokes the read-only method on a deployed contract and returns
// the decoded result.
func (c *Contracts) Run(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Contracts.Run")
	defer span.End()

	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	value, err := c.Service.Run(ctx, params["address"], req.descriptor())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, value, http.StatusOK)
}

// Delete removes a contract record from the registry. The deployed
// contract itself is untouched; only the service forgets it.
func (c *Contracts) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Contracts.Delete")
	defer span.End()

	address := params["address"]

	if _, err := registry.Fetch(ctx, c.MasterDB, address); err != nil {
		return err
	}

	if err := registry.Remove(ctx, c.MasterDB, address); err != nil {
		return err
	}

	return web.Respond(ctx, w, nil, http.StatusOK)
}

// List returns every contract recorded in the registry.
func (c *Contracts) List(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "handlers.Contracts.List")
	defer span.End()

	records, err := registry.List(ctx, c.MasterDB)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, records, http.StatusOK)
}

// await blocks until the future resolves or the configured receipt
// window passes. A false return means the transaction is still pending.
func (c *Contracts) await(ctx context.Context, future *contracts.FutureReceipt) (*ethereum.Receipt, bool) {
	waitCtx, cancel := context.WithTimeout(ctx, c.Service.ReceiptTimeout())
	defer cancel()

	receipt, err := future.Wait(waitCtx)
	if err != nil {
		return nil, false
	}

	return receipt, true
}

// abiFor returns the ABI of the compiled contract. Compilation is served
// from the cache here since the operation already compiled the source.
func (c *Contracts) abiFor(ctx context.Context, d *contracts.Descriptor) json.RawMessage {
	compiled, err := c.Service.Compile(ctx, d)
	if err != nil {
		return nil
	}

	return compiled.Info.AbiDefinition
}
