package web

import (
	"context"
	"net/http"
	"time"

	"github.com/yope/ethereum-contract/internal/platform/logger"

	"go.uber.org/zap"
)

// Middleware is a function designed to run some code before and/or after
// another Handler.
type Middleware func(Handler) Handler

// wrapMiddleware creates a new handler by wrapping middleware around a
// final handler. The middlewares' Handlers will be executed by requests
// in the order they are provided.
func wrapMiddleware(handler Handler, mw []Middleware) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

// RequestLogger writes one line per request with the method, path,
// resulting status code and elapsed time.
func RequestLogger(before Handler) Handler {
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
		err := before(ctx, w, r, params)

		log := logger.NewLoggerFromContext(ctx)
		if v, ok := ctx.Value(KeyValues).(*Values); ok {
			log.Info("Request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", v.StatusCode),
				zap.Duration("elapsed", time.Since(v.Now)),
			)
		}

		return err
	}

	return h
}
