package bootstrap

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/yope/ethereum-contract/internal/platform/config"
	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/pkg/rpcnode"
)

// NewContextWithLogger returns the root context for the process, with a
// development logger when DEVELOPMENT=TRUE is set.
func NewContextWithLogger() context.Context {
	if logger.IsDevelopment() {
		return logger.NewDevelopmentContext()
	}

	return logger.NewContext()
}

func NewConfigFromEnv(ctx context.Context) *config.Config {
	log := logger.NewLoggerFromContext(ctx)

	cfg, err := config.Environment()
	if err != nil {
		log.Fatal("Parsing config", zap.Error(err))
	}

	cfgJSON, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		log.Fatal("Marshalling config to JSON", zap.Error(err))
	}
	log.Info("Config", zap.String("config", string(cfgJSON)))

	return cfg
}

func NewMasterDB(ctx context.Context, cfg *config.Config) *db.DB {
	log := logger.NewLoggerFromContext(ctx)

	masterDB, err := db.New(&db.StorageConfig{
		Bucket: cfg.Storage.Bucket,
		Root:   cfg.Storage.Root,
	})
	if err != nil {
		log.Fatal("Register DB", zap.Error(err))
	}

	return masterDB
}

func NewRPCNode(ctx context.Context, cfg *config.Config) *rpcnode.RPCNode {
	log := logger.NewLoggerFromContext(ctx)

	node, err := rpcnode.NewNode(rpcnode.NewConfig(cfg.RpcNode.Host))
	if err != nil {
		log.Fatal("Connect RPC node", zap.Error(err))
	}

	return node
}
