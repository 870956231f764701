package internal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/arikaim/controllers/pkg/access"
	"github.com/arikaim/controllers/pkg/crud"
	"github.com/arikaim/controllers/pkg/envelope"
	"github.com/arikaim/controllers/pkg/messages"
	"github.com/arikaim/controllers/pkg/validation"
)

// API is the JSON API controller: one instance per request, composing the
// response envelope, the message resolver, the validation bridge and the
// access gate. Mutating methods return the controller for chaining.
type API struct {
	*Controller
	env      *envelope.Envelope
	resolver *messages.Resolver
	bridge   *validation.Bridge
	gate     *access.Gate
	language string
	raw      bool
}

// APIOption configures an API controller.
type APIOption func(*API)

// WithEnvelope sets the response envelope. Defaults to a fresh envelope.
func WithEnvelope(env *envelope.Envelope) APIOption {
	return func(a *API) {
		if env != nil {
			a.env = env
		}
	}
}

// WithResolver sets the message resolver.
func WithResolver(r *messages.Resolver) APIOption {
	return func(a *API) {
		a.resolver = r
	}
}

// WithGate sets the access gate. Without one every access check denies.
func WithGate(g *access.Gate) APIOption {
	return func(a *API) {
		a.gate = g
	}
}

// WithController sets the embedded base controller.
func WithController(c *Controller) APIOption {
	return func(a *API) {
		if c != nil {
			a.Controller = c
		}
	}
}

// WithLanguage sets the response language used for message resolution.
func WithLanguage(language string) APIOption {
	return func(a *API) {
		if language != "" {
			a.language = language
		}
	}
}

// NewAPI creates an API controller for a single request.
func NewAPI(opts ...APIOption) *API {
	a := &API{
		Controller: NewController(),
		env:        envelope.New(),
		bridge:     validation.NewBridge(),
		gate:       access.NewGate(nil),
		language:   "en",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Envelope returns the response envelope.
func (a *API) Envelope() *envelope.Envelope {
	return a.env
}

// Language returns the response language.
func (a *API) Language() string {
	return a.language
}

// SetLanguage switches the response language for message resolution.
func (a *API) SetLanguage(language string) *API {
	if language != "" {
		a.language = language
	}
	return a
}

// UseRawResponse switches the response to raw mode: the payload is
// written without the outer envelope.
func (a *API) UseRawResponse() *API {
	a.raw = true
	return a
}

// UsePrettyFormat enables pretty-printed JSON for this request.
func (a *API) UsePrettyFormat() *API {
	a.env.UsePrettyFormat()
	return a
}

// Message resolves key and stores the text under the payload "message"
// field. Unresolvable keys are stored literally.
func (a *API) Message(ctx context.Context, key string) *API {
	a.env.SetField("message", a.resolve(ctx, key, ""))
	return a
}

// Field sets a payload field.
func (a *API) Field(name string, value any) *API {
	a.env.SetField(name, value)
	return a
}

// Fields merges values into the payload.
func (a *API) Fields(values map[string]any) *API {
	a.env.MergeFields(values)
	return a
}

// SetResult replaces the whole payload.
func (a *API) SetResult(v any) *API {
	a.env.ReplacePayload(v)
	return a
}

// Error appends a translated error to the envelope.
func (a *API) Error(ctx context.Context, key string) *API {
	a.env.AddError(a.resolve(ctx, key, ""))
	return a
}

// SetError replaces the error list with a single translated error.
func (a *API) SetError(ctx context.Context, key string) *API {
	a.env.SetErrors([]string{a.resolve(ctx, key, "")})
	return a
}

// SetResponse records a success message or a translated error depending
// on condition. The success callback runs only when condition holds.
func (a *API) SetResponse(ctx context.Context, condition bool, onSuccess func(), errorKey string) *API {
	if condition {
		if onSuccess != nil {
			onSuccess()
		}
		return a
	}
	return a.Error(ctx, errorKey)
}

// HasAccess reports whether the context principal holds the permission.
func (a *API) HasAccess(ctx context.Context, name, accessType string) bool {
	return a.gate.HasAccess(ctx, name, accessType)
}

// RequireAccess returns a typed denial error when the permission check
// fails. The error is meant to propagate to the boundary.
func (a *API) RequireAccess(ctx context.Context, name, accessType string) error {
	return a.gate.RequireAccess(ctx, name, accessType)
}

// RequireControlPanel requires the control panel permission.
func (a *API) RequireControlPanel(ctx context.Context) error {
	return a.gate.RequireControlPanel(ctx)
}

// OnDataValid arms the validation success handler. Arming the success
// handler installs the default failure handler, which translates each
// field error into the envelope; OnValidationError overrides it.
func (a *API) OnDataValid(ctx context.Context, fn validation.DataHandler) *API {
	a.bridge.OnDataValid(fn)
	a.bridge.OnValidationError(func(errs validation.Errors) error {
		a.AddValidationErrors(ctx, errs)
		return nil
	})
	return a
}

// OnValidationError arms a custom validation failure handler.
func (a *API) OnValidationError(fn validation.ErrorHandler) *API {
	a.bridge.OnValidationError(fn)
	return a
}

// Dispatch routes a validation outcome to the armed handlers.
func (a *API) Dispatch(outcome validation.Outcome) error {
	return a.bridge.Dispatch(outcome)
}

// AddValidationErrors translates each field error and appends it to the
// envelope. Codes without a message template are reported as
// "field: code".
func (a *API) AddValidationErrors(ctx context.Context, errs validation.Errors) *API {
	for _, fe := range errs {
		var template string
		var ok bool
		if a.resolver != nil {
			template, ok = a.resolver.ValidationMessage(ctx, a.language, fe.Code)
		}
		if !ok {
			a.env.AddError(fe.Error())
			continue
		}
		params := map[string]any{"field": fe.Field}
		for k, v := range fe.Params {
			params[k] = v
		}
		a.env.AddError(messages.Render(template, params))
	}
	return a
}

// ApplyCrudResult records a successful CRUD operation: the resolved
// message and the operation's envelope fields.
func (a *API) ApplyCrudResult(ctx context.Context, res crud.Result) *API {
	a.Message(ctx, res.MessageKey)
	for _, f := range res.Fields {
		a.env.SetField(f.Name, f.Value)
	}
	return a
}

// CrudError converts a failed CRUD operation into envelope error state
// using the operation's error key. Access denials are returned untouched
// so the boundary can render them.
func (a *API) CrudError(ctx context.Context, op crud.Op, err error) error {
	if access.IsDenied(err) {
		return err
	}
	a.Logger().WarnContext(ctx, "operation failed",
		slog.String("operation", string(op)),
		slog.String("error", err.Error()))
	a.Error(ctx, crud.ErrorKey(op))
	return nil
}

// Write serializes the envelope to the response.
func (a *API) Write(w http.ResponseWriter) error {
	return WriteJSON(w, a.env, a.raw)
}

// resolve translates a message key: local component table, then the
// global registry, then the fallback, then the key itself.
func (a *API) resolve(ctx context.Context, key, fallback string) string {
	if a.resolver == nil {
		if fallback != "" {
			return fallback
		}
		return key
	}
	return a.resolver.ResolveOrFallback(ctx, a.language, key, fallback)
}
