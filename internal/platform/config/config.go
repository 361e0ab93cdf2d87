package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is used to hold all runtime configuration.
type Config struct {
	Contract struct {
		GasPrice         uint64 `default:"20000000000" envconfig:"GAS_PRICE"` // wei
		ReceiptPollMS    uint64 `default:"1000" envconfig:"RECEIPT_POLL_MS"`
		ReceiptTimeoutMS uint64 `default:"1000" envconfig:"RECEIPT_TIMEOUT_MS"`
		SweepIntervalMS  uint64 `default:"30000" envconfig:"SWEEP_INTERVAL_MS"`
	}
	RpcNode struct {
		Host string `default:"http://localhost:8545" envconfig:"RPC_HOST"`
	}
	Web struct {
		Host           string `default:":8080" envconfig:"WEB_HOST"`
		ReadTimeoutMS  uint64 `default:"5000" envconfig:"WEB_READ_TIMEOUT_MS"`
		WriteTimeoutMS uint64 `default:"10000" envconfig:"WEB_WRITE_TIMEOUT_MS"`
		ShutdownWaitMS uint64 `default:"5000" envconfig:"WEB_SHUTDOWN_WAIT_MS"`
	}
	Storage struct {
		Bucket string `default:"standalone" envconfig:"STORAGE_BUCKET"`
		Root   string `default:"./tmp" envconfig:"STORAGE_ROOT"`
	}
}

// Environment returns configuration sourced from environment variables.
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CONTRACT", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
