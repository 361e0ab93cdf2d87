package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yope/ethereum-contract/cmd/contractd/bootstrap"
	"github.com/yope/ethereum-contract/cmd/contractd/handlers"
	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/logger"
	"github.com/yope/ethereum-contract/internal/sweeper"
	"github.com/yope/ethereum-contract/pkg/scheduler"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	buildUser    = "unknown"
)

// Contract Orchestration Daemon
//
func main() {
	ctx := bootstrap.NewContextWithLogger()
	log := logger.NewLoggerFromContext(ctx)

	log.Info("Started",
		zap.String("version", buildVersion),
		zap.String("built", buildDate),
		zap.String("user", buildUser))

	cfg := bootstrap.NewConfigFromEnv(ctx)

	masterDB := bootstrap.NewMasterDB(ctx, cfg)
	defer masterDB.Close()

	node := bootstrap.NewRPCNode(ctx, cfg)
	defer node.Close()

	svc := contracts.NewService(node, contracts.Config{
		GasPrice:       new(big.Int).SetUint64(cfg.Contract.GasPrice),
		PollInterval:   time.Duration(cfg.Contract.ReceiptPollMS) * time.Millisecond,
		ReceiptTimeout: time.Duration(cfg.Contract.ReceiptTimeoutMS) * time.Millisecond,
	})

	// Background sweep of transactions that outlived their request.
	swp := sweeper.New(node, masterDB)
	sch := &scheduler.Scheduler{}
	sch.ScheduleJob(ctx, scheduler.NewPeriodicProcess("sweeper", swp,
		time.Duration(cfg.Contract.SweepIntervalMS)*time.Millisecond))

	schErrors := make(chan error, 1)
	go func() {
		schErrors <- sch.Run(ctx)
	}()

	api := http.Server{
		Addr:         cfg.Web.Host,
		Handler:      handlers.API(svc, node, masterDB, swp),
		ReadTimeout:  time.Duration(cfg.Web.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Web.WriteTimeoutMS) * time.Millisecond,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("API listening", zap.String("host", cfg.Web.Host))
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server failed", zap.Error(err))

	case err := <-schErrors:
		log.Fatal("Scheduler failed", zap.Error(err))

	case sig := <-shutdown:
		log.Info("Shutdown started", zap.String("signal", sig.String()))

		wait := time.Duration(cfg.Web.ShutdownWaitMS) * time.Millisecond
		shutCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()

		if err := api.Shutdown(shutCtx); err != nil {
			log.Warn("Graceful shutdown did not complete", zap.Error(err))
			if err := api.Close(); err != nil {
				log.Fatal("Could not stop http server", zap.Error(err))
			}
		}

		if err := sch.Stop(ctx); err != nil {
			log.Warn("Scheduler stop failed", zap.Error(err))
		}

		log.Info("Shutdown complete")
	}
}
