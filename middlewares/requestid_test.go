package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates an id when none is present", func(t *testing.T) {
		t.Parallel()

		var got string
		h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, _ = GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, got)
		assert.Equal(t, got, w.Header().Get("X-Request-ID"))
	})

	t.Run("preserves an upstream id", func(t *testing.T) {
		t.Parallel()

		var got string
		h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, _ = GetRequestID(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Correlation-ID", "trace-7")
		h.ServeHTTP(httptest.NewRecorder(), r)

		assert.Equal(t, "trace-7", got)
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		h := RequestID(
			WithRequestIDGenerator(func() string { return "fixed" }),
			WithRequestIDResponseHeader("X-Trace"),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "fixed", w.Header().Get("X-Trace"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var attrOK bool
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		attr, ok := RequestIDExtractor()(r.Context())
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		attrOK = ok
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, attrOK)
}
