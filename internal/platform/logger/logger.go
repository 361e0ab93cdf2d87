package logger

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fieldRequestID = "request_id"
	fieldTXHash    = "tx_hash"
)

// NewDevelopmentContext returns a Context carrying a console friendly
// Logger. Set DEVELOPMENT=true in the environment to get it from the
// daemon bootstrap.
func NewDevelopmentContext() context.Context {
	uid, _ := uuid.NewRandom()

	ctx := context.WithValue(context.Background(), KeyRequestID, uid.String())

	logger, _ := zap.NewDevelopment()
	logger = logger.With(zap.String(fieldRequestID, uid.String()))

	return ContextWithLogger(ctx, logger)
}

// IsDevelopment reports whether the process runs with a development
// logging setup.
func IsDevelopment() bool {
	return strings.ToUpper(os.Getenv("DEVELOPMENT")) == "TRUE"
}

// NewLoggerFromContext returns the Logger from the Context. If a Logger
// doesn't exist one is added.
func NewLoggerFromContext(ctx context.Context) *zap.Logger {
	logger := ctx.Value(KeyLogger)

	if logger == nil {
		logger = newLogger(ctx)
	}

	return logger.(*zap.Logger)
}

// newLogger returns a Logger with the RequestID from the Context as a
// field.
func newLogger(ctx context.Context) *zap.Logger {
	var logger *zap.Logger
	if IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	// Add the request ID to the logger
	requestID := RequestIDFromContext(ctx)
	logger = logger.With(zap.String(fieldRequestID, requestID))

	txHash := TXHashFromContext(ctx)
	if len(txHash) > 0 {
		logger = logger.With(zap.String(fieldTXHash, txHash))
	}

	return logger
}
