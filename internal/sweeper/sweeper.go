/**
 * Sweeper
 *
 * What is my purpose?
 * - I keep track of transactions whose receipts were still pending when
 *   the request finished.
 * - On a schedule I re-poll the node, record confirmed deployments in
 *   the registry and drop entries that are done.
 */
package sweeper

import (
	"context"
	"encoding/json"

	sync "github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/internal/registry"
	"github.com/yope/ethereum-contract/pkg/ethereum"
)

const (
	SubSystem = "Sweeper" // For logger
)

// NodeClient is the node surface the sweeper needs.
type NodeClient interface {
	TransactionReceipt(ctx context.Context, txHash string) (*ethereum.Receipt, error)
}

// Entry is a transaction awaiting a receipt.
type Entry struct {
	TxHash string
	Type   ethereum.ReceiptType
	Key    string
	ABI    json.RawMessage
}

// Sweeper re-polls pending transactions. It satisfies
// scheduler.PeriodicProcessInterface.
type Sweeper struct {
	node   NodeClient
	dbConn *db.DB

	lock    sync.Mutex
	entries []Entry
}

func New(node NodeClient, dbConn *db.DB) *Sweeper {
	return &Sweeper{
		node:   node,
		dbConn: dbConn,
	}
}

// Add queues a transaction for re-polling.
func (s *Sweeper) Add(entry Entry) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.entries = append(s.entries, entry)
}

// Pending returns the number of transactions still awaiting a receipt.
func (s *Sweeper) Pending() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.entries)
}

// Run checks every queued transaction once. Entries with a receipt are
// resolved and removed; the rest stay queued for the next sweep.
func (s *Sweeper) Run(ctx context.Context) {
	ctx = logger.ContextWithNamedLogger(ctx, SubSystem)
	log := logger.NewLoggerFromContext(ctx)

	s.lock.Lock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.lock.Unlock()

	remaining := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		receipt, err := s.node.TransactionReceipt(ctx, entry.TxHash)
		if err != nil {
			log.Warn("Receipt poll failed",
				zap.String("tx_hash", entry.TxHash),
				zap.Error(err))
			remaining = append(remaining, entry)
			continue
		}

		if receipt == nil {
			remaining = append(remaining, entry)
			continue
		}

		if err := s.resolve(ctx, entry, receipt); err != nil {
			log.Warn("Failed to record receipt",
				zap.String("tx_hash", entry.TxHash),
				zap.Error(err))
			remaining = append(remaining, entry)
			continue
		}

		log.Info("Receipt confirmed by sweep",
			zap.String("tx_hash", entry.TxHash),
			zap.String("type", string(entry.Type)))
	}

	// Entries appended while the sweep polled sit past the snapshot
	// length; they must survive into the next sweep.
	s.lock.Lock()
	s.entries = append(remaining, s.entries[len(entries):]...)
	s.lock.Unlock()
}

// resolve records what a confirmed receipt tells us. Only deployments
// produce a registry record; calls just needed the confirmation.
func (s *Sweeper) resolve(ctx context.Context, entry Entry, receipt *ethereum.Receipt) error {
	if entry.Type != ethereum.ReceiptTypeCreate {
		return nil
	}

	return registry.Save(ctx, s.dbConn, &registry.Record{
		Key:     entry.Key,
		Address: receipt.ContractAddress,
		TxHash:  entry.TxHash,
		ABI:     entry.ABI,
	})
}
