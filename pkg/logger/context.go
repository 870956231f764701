package logger

import (
	"context"
	"log/slog"

	"github.com/arikaim/controllers/pkg/access"
)

// ContextExtractor extracts a slog attribute from a request context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// PrincipalExtractor attaches the current principal id to every log
// record produced during a request.
func PrincipalExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := access.PrincipalID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("principal_id", id), true
	}
}

// contextHandler wraps a slog.Handler and injects context-extracted
// attributes per log call, so request-scoped values stay fresh.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// newContextHandler filters out nil extractors so a misconfigured option
// cannot panic at log time.
func newContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &contextHandler{next: next, extractors: clean}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
