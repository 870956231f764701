package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer renders deterministic markers for assertions.
type recordingRenderer struct {
	failPage bool
}

func (r *recordingRenderer) RenderPage(_ context.Context, w io.Writer, name, language string, _ map[string]any) error {
	if r.failPage {
		return errors.New("template error")
	}
	_, err := fmt.Fprintf(w, "page:%s:%s", name, language)
	return err
}

func (r *recordingRenderer) RenderNotFound(_ context.Context, w io.Writer, language string, _ map[string]any) error {
	_, err := fmt.Fprintf(w, "not-found:%s", language)
	return err
}

func (r *recordingRenderer) RenderSystemError(_ context.Context, w io.Writer, language string, _ map[string]any) error {
	_, err := fmt.Fprintf(w, "system-error:%s", language)
	return err
}

func TestController_PageLoad(t *testing.T) {
	t.Parallel()

	t.Run("renders the named page", func(t *testing.T) {
		t.Parallel()

		c := NewController(
			WithRenderer(&recordingRenderer{}),
			WithLanguages("en", "en", "de"),
		)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/about", nil)

		require.NoError(t, c.PageLoad(w, r, "about", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "page:about:en", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})

	t.Run("empty name falls back to the default page", func(t *testing.T) {
		t.Parallel()

		c := NewController(WithRenderer(&recordingRenderer{}), WithPage("home"))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, c.PageLoad(w, r, "", nil))
		assert.Equal(t, "page:home:en", w.Body.String())
	})

	t.Run("explicit language in data", func(t *testing.T) {
		t.Parallel()

		c := NewController(
			WithRenderer(&recordingRenderer{}),
			WithLanguages("en", "en", "de"),
		)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/about", nil)

		require.NoError(t, c.PageLoad(w, r, "about", map[string]any{"language": "de"}))
		assert.Equal(t, "page:about:de", w.Body.String())
	})

	t.Run("render failure falls back to the system error page", func(t *testing.T) {
		t.Parallel()

		c := NewController(WithRenderer(&recordingRenderer{failPage: true}))
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/about", nil)

		require.NoError(t, c.PageLoad(w, r, "about", nil))
		assert.Equal(t, "system-error:en", w.Body.String())
	})
}

func TestController_NotFound(t *testing.T) {
	t.Parallel()

	c := NewController(WithRenderer(&recordingRenderer{}))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/missing", nil)

	require.NoError(t, c.NotFound(w, r, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not-found:en", w.Body.String())
}

func TestController_SystemError(t *testing.T) {
	t.Parallel()

	c := NewController(WithRenderer(&recordingRenderer{}))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/broken", nil)

	require.NoError(t, c.SystemError(w, r, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "system-error:en", w.Body.String())
}

func TestController_RequestParam(t *testing.T) {
	t.Parallel()

	c := NewController()

	t.Run("route parameter wins", func(t *testing.T) {
		t.Parallel()

		router := chi.NewRouter()
		var got string
		router.Get("/items/{uuid}", func(w http.ResponseWriter, r *http.Request) {
			got = c.RequestParam(r, "uuid")
		})
		router.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/items/u-route?uuid=u-query", nil))

		assert.Equal(t, "u-route", got)
	})

	t.Run("query fallback", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/items?uuid=u-query", nil)
		assert.Equal(t, "u-query", c.RequestParam(r, "uuid"))
	})

	t.Run("form fallback", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/items",
			strings.NewReader("uuid=u-form"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, "u-form", c.RequestParam(r, "uuid"))
	})
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?page=3&active=true&ratio=1.5&bad=x", nil)

	assert.Equal(t, 3, Query[int](r, "page"))
	assert.Equal(t, true, Query[bool](r, "active"))
	assert.Equal(t, 1.5, Query[float64](r, "ratio"))
	assert.Equal(t, 0, Query[int](r, "bad"))
	assert.Equal(t, 25, QueryDefault(r, "per_page", 25))
	assert.Equal(t, 10, QueryDefault(r, "bad", 10))
}
