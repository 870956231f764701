package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arikaim/controllers/pkg/logger"
)

// PageRenderer is the template-rendering collaborator for page
// controllers. Rendering semantics are owned by the application; the
// controller only picks the page, the language and the parameters.
type PageRenderer interface {
	RenderPage(ctx context.Context, w io.Writer, name, language string, params map[string]any) error
	RenderNotFound(ctx context.Context, w io.Writer, language string, params map[string]any) error
	RenderSystemError(ctx context.Context, w io.Writer, language string, params map[string]any) error
}

// Controller is the base HTML page controller: request parameter
// resolution, page language selection and page rendering through the
// renderer collaborator.
type Controller struct {
	logger          *slog.Logger
	renderer        PageRenderer
	page            string
	defaultLanguage string
	languages       []string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithRenderer sets the page-rendering collaborator.
func WithRenderer(r PageRenderer) ControllerOption {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithPage sets the default page name rendered by PageLoad.
func WithPage(name string) ControllerOption {
	return func(c *Controller) {
		c.page = name
	}
}

// WithLanguages sets the default language and the available set.
func WithLanguages(defaultLanguage string, available ...string) ControllerOption {
	return func(c *Controller) {
		c.defaultLanguage = defaultLanguage
		c.languages = available
	}
}

// NewController creates a page controller.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		logger:          logger.NewNope(),
		defaultLanguage: "en",
		languages:       []string{"en"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the controller logger.
func (c *Controller) Logger() *slog.Logger {
	return c.logger
}

// RouteParam returns a URL route parameter.
func (c *Controller) RouteParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// RequestParam resolves a named parameter: route parameter first, then
// query string, then form value.
func (c *Controller) RequestParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return r.PostFormValue(name)
}

// PageLanguage resolves the language for the current request: explicit
// request data, then the language cookie, then the Accept-Language
// header, then the default.
func (c *Controller) PageLanguage(r *http.Request, data map[string]any) string {
	return resolveLanguage(r, data, c.languages, c.defaultLanguage)
}

// PageLoad renders the named page (or the controller's default page when
// name is empty). A render failure falls through to the system error
// page.
func (c *Controller) PageLoad(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if name == "" {
		name = c.page
	}
	language := c.PageLanguage(r, data)

	if c.renderer == nil {
		return ErrInternal("page renderer not configured")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.renderer.RenderPage(r.Context(), w, name, language, data); err != nil {
		c.logger.ErrorContext(r.Context(), "page render failed",
			slog.String("page", name),
			slog.String("error", err.Error()))
		return c.SystemError(w, r, data)
	}
	return nil
}

// NotFound renders the not-found page with a 404 status.
func (c *Controller) NotFound(w http.ResponseWriter, r *http.Request, data map[string]any) error {
	if c.renderer == nil {
		return ErrNotFound("page not found")
	}
	language := c.PageLanguage(r, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	return c.renderer.RenderNotFound(r.Context(), w, language, data)
}

// SystemError renders the system error page with a 400 status.
func (c *Controller) SystemError(w http.ResponseWriter, r *http.Request, data map[string]any) error {
	if c.renderer == nil {
		return ErrBadRequest("system error")
	}
	language := c.PageLanguage(r, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	return c.renderer.RenderSystemError(r.Context(), w, language, data)
}

// Redirect sends a temporary redirect with no-cache headers.
func (c *Controller) Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	return Redirect(w, r, url)
}

// WriteXML writes a text/xml response.
func (c *Controller) WriteXML(w http.ResponseWriter, status int, body any) error {
	return WriteXML(w, status, body)
}

// Download streams content as a file attachment.
func (c *Controller) Download(w http.ResponseWriter, name string, content io.Reader) error {
	return Download(w, name, content)
}

// ImageView streams image content for inline display.
func (c *Controller) ImageView(w http.ResponseWriter, name string, content io.Reader) error {
	return ImageView(w, name, content)
}
