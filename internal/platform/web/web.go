package web

import (
	"context"
	"net/http"
	"time"

	"github.com/yope/ethereum-contract/internal/platform/logger"

	"github.com/gorilla/mux"
	"go.opencensus.io/trace"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// KeyValues is how request values are stored/retrieved.
const KeyValues ctxKey = 1

// Values represent state for each request.
type Values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
	Error      bool
}

// A Handler is a type that handles an HTTP request within our own little
// mini framework.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error

// App is the entrypoint into our application and what configures our
// context object for each of our http handlers.
type App struct {
	router *mux.Router
	mw     []Middleware
}

// New creates an App value that handles a set of routes for the
// application.
func New(mw ...Middleware) *App {
	return &App{
		router: mux.NewRouter(),
		mw:     mw,
	}
}

// Handle mounts a Handler for the given method and path.
func (a *App) Handle(method, path string, handler Handler, mw ...Middleware) {

	// Wrap up the application-wide middleware first, then the handler
	// specific middleware.
	handler = wrapMiddleware(wrapMiddleware(handler, mw), a.mw)

	// The function to execute for each request.
	h := func(w http.ResponseWriter, r *http.Request) {

		// Start trace span.
		ctx, span := trace.StartSpan(r.Context(), "internal.platform.web")
		defer span.End()

		// Set the context with the required values to process the
		// request.
		v := Values{
			TraceID: span.SpanContext().TraceID.String(),
			Now:     time.Now(),
		}
		ctx = context.WithValue(ctx, KeyValues, &v)

		// Every request gets its own id and logger.
		ctx = logger.ContextWithRequestID(ctx, "")

		if err := handler(ctx, w, r, mux.Vars(r)); err != nil {
			Error(ctx, w, err)
		}
	}

	a.router.HandleFunc(path, h).Methods(method)
}

// ServeHTTP implements the http.Handler interface.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
