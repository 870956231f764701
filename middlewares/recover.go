package middlewares

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/arikaim/controllers/internal"
	"github.com/arikaim/controllers/pkg/envelope"
	"github.com/arikaim/controllers/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	StackSize         int
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverLogger sets the logger for recovered panics.
func WithRecoverLogger(log *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if log != nil {
			cfg.Logger = log
		}
	}
}

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover recovers from handler panics, logs them and answers with a
// 500 error envelope when nothing was written yet.
func Recover(opts ...RecoverOption) func(http.Handler) http.Handler {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, tracked := w.(*internal.ResponseWriter)
			if !tracked {
				ww = internal.NewResponseWriter(w)
			}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if cfg.DisablePrintStack {
					cfg.Logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec))
				} else {
					stack := make([]byte, cfg.StackSize)
					n := runtime.Stack(stack, false)
					cfg.Logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(stack[:n])))
				}
				if ww.Written() {
					return
				}
				env := envelope.New()
				env.AddError("Internal server error")
				env.OverrideCode(http.StatusInternalServerError)
				_ = internal.WriteJSON(ww, env, false)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
