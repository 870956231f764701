package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/arikaim/controllers/internal"
	"github.com/arikaim/controllers/pkg/access"
	"github.com/arikaim/controllers/pkg/crud"
	"github.com/arikaim/controllers/pkg/envelope"
	"github.com/arikaim/controllers/pkg/logger"
	"github.com/arikaim/controllers/pkg/messages"
	"github.com/arikaim/controllers/pkg/validation"
)

// Type aliases - public API
type (
	// Controller provides page rendering and request parameter helpers.
	Controller = internal.Controller

	// API is the per-request JSON controller. It accumulates envelope
	// state through fluent calls and writes it once at the end.
	API = internal.API

	// Resource is the HTTP boundary that dispatches named actions onto
	// fresh API controllers.
	Resource = internal.Resource

	// Action handles one API operation.
	Action = internal.Action

	// PageRenderer renders HTML pages for the Controller.
	PageRenderer = internal.PageRenderer

	// HTTPError is an error with an HTTP status code and an optional
	// translatable error code.
	HTTPError = internal.HTTPError

	// ProgressStream writes incremental envelope frames over one response.
	ProgressStream = internal.ProgressStream

	// ResponseWriter wraps http.ResponseWriter and records status,
	// size and whether anything was written.
	ResponseWriter = internal.ResponseWriter

	// Envelope is the canonical response envelope.
	Envelope = envelope.Envelope

	// Resolver translates message keys into display text.
	Resolver = messages.Resolver

	// Registry provides global message tables shared across resolvers.
	Registry = messages.Registry

	// Outcome is the result of validating request data.
	Outcome = validation.Outcome

	// FieldError describes a single failed validation rule.
	FieldError = validation.FieldError

	// ValidationErrors is the list of failed rules for one request.
	ValidationErrors = validation.Errors

	// Policy answers permission checks for the access gate.
	Policy = access.Policy

	// Gate enforces permissions and fails closed without a policy.
	Gate = access.Gate

	// DeniedError reports a failed permission check.
	DeniedError = access.DeniedError

	// Repository persists entities for the CRUD service.
	Repository = crud.Repository

	// Entity is a stored record with its identifiers.
	Entity = crud.Entity

	// CrudService runs the shared create/read/update/delete pipeline.
	CrudService = crud.Service

	// CrudResult is the outcome of a successful CRUD operation.
	CrudResult = crud.Result

	// ContextExtractor pulls structured log attributes from context.
	ContextExtractor = logger.ContextExtractor

	// Option configures a Controller.
	Option = internal.ControllerOption

	// APIOption configures an API controller.
	APIOption = internal.APIOption

	// ResourceOption configures a Resource.
	ResourceOption = internal.ResourceOption

	// ProgressOption configures a ProgressStream.
	ProgressOption = internal.ProgressOption

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption
)

// Constructors

// New creates a page controller.
//
// Example:
//
//	c := controllers.New(
//	    controllers.WithRenderer(views),
//	    controllers.WithLanguages("en", "en", "de"),
//	)
func New(opts ...Option) *Controller {
	return internal.NewController(opts...)
}

// NewAPI creates a JSON API controller with a fresh envelope. Resources
// build one per request; construct directly only for standalone use.
func NewAPI(opts ...APIOption) *API {
	return internal.NewAPI(opts...)
}

// NewResource creates an empty action registry.
//
// Example:
//
//	rs := controllers.NewResource(
//	    controllers.WithAPIOptions(controllers.WithResolver(resolver)),
//	)
//	rs.Register("create", createAction)
//	rs.Mount(router, "/api/users")
func NewResource(opts ...ResourceOption) *Resource {
	return internal.NewResource(opts...)
}

// NewProgressStream starts an incremental response over w using the
// given envelope for frame payloads.
func NewProgressStream(w http.ResponseWriter, env *Envelope, opts ...ProgressOption) *ProgressStream {
	return internal.NewProgressStream(w, env, opts...)
}

// NewResponseWriter wraps w with status and size tracking.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return internal.NewResponseWriter(w)
}

// Controller options

// WithLogger sets the controller logger.
func WithLogger(log *slog.Logger) Option {
	return internal.WithLogger(log)
}

// WithRenderer sets the page renderer.
func WithRenderer(r PageRenderer) Option {
	return internal.WithRenderer(r)
}

// WithPage sets the default page rendered when no name is given.
func WithPage(name string) Option {
	return internal.WithPage(name)
}

// WithLanguages sets the default and available page languages.
func WithLanguages(defaultLanguage string, available ...string) Option {
	return internal.WithLanguages(defaultLanguage, available...)
}

// API options

// WithEnvelope replaces the controller's envelope.
func WithEnvelope(env *Envelope) APIOption {
	return internal.WithEnvelope(env)
}

// WithResolver sets the message resolver used for keys and validation
// error codes.
func WithResolver(r *Resolver) APIOption {
	return internal.WithResolver(r)
}

// WithGate sets the access gate. Without one every check is denied.
func WithGate(g *Gate) APIOption {
	return internal.WithGate(g)
}

// WithController attaches a page controller for mixed HTML/JSON handlers.
func WithController(c *Controller) APIOption {
	return internal.WithController(c)
}

// WithLanguage sets the response language.
func WithLanguage(language string) APIOption {
	return internal.WithLanguage(language)
}

// Resource options

// WithResourceLogger sets the boundary logger.
func WithResourceLogger(log *slog.Logger) ResourceOption {
	return internal.WithResourceLogger(log)
}

// WithAPIOptions sets the base options applied to every per-request
// API controller.
func WithAPIOptions(opts ...APIOption) ResourceOption {
	return internal.WithAPIOptions(opts...)
}

// WithResourceLanguages sets the default and available response
// languages for the resource.
func WithResourceLanguages(defaultLanguage string, available ...string) ResourceOption {
	return internal.WithResourceLanguages(defaultLanguage, available...)
}

// Progress options

// WithTotalSteps declares the expected number of steps up front.
func WithTotalSteps(n int) ProgressOption {
	return internal.WithTotalSteps(n)
}

// Errors

// NewHTTPError creates an error carrying an HTTP status code.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrForbidden creates a 403 error.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithErrorCode attaches a translatable error code resolved against the
// request language before the message is written.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithError attaches an underlying cause.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// Direct response helpers

// WriteJSON writes the envelope to w as JSON.
func WriteJSON(w http.ResponseWriter, env *Envelope, raw bool) error {
	return internal.WriteJSON(w, env, raw)
}

// Redirect sends a temporary redirect with cache-busting headers.
func Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	return internal.Redirect(w, r, url)
}

// WriteXML writes body as XML. Strings and byte slices pass through
// verbatim; anything else is marshalled.
func WriteXML(w http.ResponseWriter, status int, body any) error {
	return internal.WriteXML(w, status, body)
}

// Download streams content as a file attachment.
func Download(w http.ResponseWriter, name string, content io.Reader) error {
	return internal.Download(w, name, content)
}

// ImageView streams content inline with the content type implied by the
// file extension.
func ImageView(w http.ResponseWriter, name string, content io.Reader) error {
	return internal.ImageView(w, name, content)
}

// Request helpers

// Param returns a typed route parameter.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string) T {
	return internal.Param[T](r, name)
}

// Query returns a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string) T {
	return internal.Query[T](r, name)
}

// QueryDefault returns a typed query parameter or the default when the
// parameter is missing or malformed.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string, defaultValue T) T {
	return internal.QueryDefault(r, name, defaultValue)
}

// Principal context

// WithPrincipal stores the authenticated principal id in the context.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return access.WithPrincipal(ctx, principalID)
}

// PrincipalID returns the principal id from the context, if any.
func PrincipalID(ctx context.Context) string {
	return access.PrincipalID(ctx)
}
