package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arikaim/controllers/pkg/access"
	"github.com/arikaim/controllers/pkg/logger"
)

// Action handles one API operation on a per-request controller. Actions
// that produce their own output (downloads, progress streams, redirects)
// write to w directly; otherwise the boundary writes the envelope after
// the action returns.
type Action func(ctx context.Context, api *API, w http.ResponseWriter, r *http.Request) error

// Resource is the HTTP boundary for a group of API actions. Each request
// gets a fresh API controller built from the shared base options; actions
// are dispatched by name through an explicit registry.
//
// All errors except access denials are expected to be recorded into the
// envelope by the action itself. A denial maps to a 403 envelope; an
// unknown action to a 404 envelope.
type Resource struct {
	actions         map[string]Action
	logger          *slog.Logger
	baseOpts        []APIOption
	languages       []string
	defaultLanguage string
}

// ResourceOption configures a Resource.
type ResourceOption func(*Resource)

// WithResourceLogger sets the boundary logger.
func WithResourceLogger(log *slog.Logger) ResourceOption {
	return func(rs *Resource) {
		if log != nil {
			rs.logger = log
		}
	}
}

// WithAPIOptions sets the base options applied to every per-request API
// controller (resolver, gate, base controller).
func WithAPIOptions(opts ...APIOption) ResourceOption {
	return func(rs *Resource) {
		rs.baseOpts = append(rs.baseOpts, opts...)
	}
}

// WithResourceLanguages sets the default and available response
// languages.
func WithResourceLanguages(defaultLanguage string, available ...string) ResourceOption {
	return func(rs *Resource) {
		rs.defaultLanguage = defaultLanguage
		rs.languages = available
	}
}

// NewResource creates an empty action registry.
func NewResource(opts ...ResourceOption) *Resource {
	rs := &Resource{
		actions:         make(map[string]Action),
		logger:          logger.NewNope(),
		defaultLanguage: "en",
		languages:       []string{"en"},
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Register binds an action name to its handler. Registering the same
// name again replaces the handler.
func (rs *Resource) Register(name string, action Action) *Resource {
	rs.actions[name] = action
	return rs
}

// Mount attaches the resource to a router: the trailing route segment
// selects the action.
func (rs *Resource) Mount(r chi.Router, pattern string) {
	r.Handle(pattern+"/{action}", rs)
}

// Handler returns an http.Handler bound to one registered action,
// for REST-style routes where the method and path imply the action.
func (rs *Resource) Handler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs.serve(w, r, name)
	}
}

// ServeHTTP dispatches by the "action" route parameter.
func (rs *Resource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rs.serve(w, r, chi.URLParam(r, "action"))
}

func (rs *Resource) serve(w http.ResponseWriter, r *http.Request, name string) {
	ww := NewResponseWriter(w)
	ctx := r.Context()

	opts := append([]APIOption{}, rs.baseOpts...)
	opts = append(opts, WithLanguage(resolveLanguage(r, nil, rs.languages, rs.defaultLanguage)))
	api := NewAPI(opts...)

	action, ok := rs.actions[name]
	if !ok {
		api.Envelope().AddError(api.resolve(ctx, "errors.action", "Action not found"))
		api.Envelope().OverrideCode(http.StatusNotFound)
		rs.write(ctx, ww, api)
		return
	}

	if err := action(ctx, api, ww, r); err != nil {
		rs.fail(ctx, api, err)
	}
	if ww.Written() {
		return
	}
	rs.write(ctx, ww, api)
}

// fail converts a propagated action error into envelope state.
func (rs *Resource) fail(ctx context.Context, api *API, err error) {
	env := api.Envelope()
	switch {
	case access.IsDenied(err):
		denied, _ := access.AsDenied(err)
		rs.logger.WarnContext(ctx, "access denied",
			slog.String("permission", denied.Permission),
			slog.String("principal_id", denied.PrincipalID))
		env.Clear()
		env.AddError(api.resolve(ctx, "errors.access", "Access denied"))
		env.OverrideCode(http.StatusForbidden)
	default:
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			message := httpErr.Message
			if httpErr.ErrorCode != "" {
				message = api.resolve(ctx, httpErr.ErrorCode, httpErr.Message)
			}
			env.AddError(message)
			env.OverrideCode(httpErr.Code)
			return
		}
		rs.logger.ErrorContext(ctx, "action failed", slog.String("error", err.Error()))
		env.AddError(api.resolve(ctx, "errors.request", "Request error"))
	}
}

func (rs *Resource) write(ctx context.Context, w http.ResponseWriter, api *API) {
	if err := api.Write(w); err != nil {
		rs.logger.ErrorContext(ctx, "response write failed", slog.String("error", err.Error()))
	}
}
