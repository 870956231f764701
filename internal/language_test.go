package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAcceptLanguage(t *testing.T) {
	t.Parallel()

	available := []string{"pl", "en", "de"}

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "empty header", header: "", want: ""},
		{name: "exact match", header: "de", want: "de"},
		{name: "quality order", header: "en-US,en;q=0.9,pl;q=0.8", want: "en"},
		{name: "regional tag matches base", header: "de-AT", want: "de"},
		{name: "wildcard ignored", header: "*", want: ""},
		{name: "no match", header: "fr,it;q=0.5", want: ""},
		{name: "prefers higher quality", header: "pl;q=0.3,de;q=0.8", want: "de"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, matchAcceptLanguage(tc.header, available))
		})
	}
}

func TestResolveLanguage(t *testing.T) {
	t.Parallel()

	available := []string{"en", "de"}

	newRequest := func(cookie, acceptLanguage string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: languageCookie, Value: cookie})
		}
		if acceptLanguage != "" {
			r.Header.Set("Accept-Language", acceptLanguage)
		}
		return r
	}

	t.Run("explicit data wins", func(t *testing.T) {
		t.Parallel()
		r := newRequest("de", "de")
		got := resolveLanguage(r, map[string]any{"language": "en"}, available, "en")
		assert.Equal(t, "en", got)
	})

	t.Run("unknown data language ignored", func(t *testing.T) {
		t.Parallel()
		r := newRequest("de", "")
		got := resolveLanguage(r, map[string]any{"language": "fr"}, available, "en")
		assert.Equal(t, "de", got)
	})

	t.Run("cookie before header", func(t *testing.T) {
		t.Parallel()
		r := newRequest("de", "en")
		assert.Equal(t, "de", resolveLanguage(r, nil, available, "en"))
	})

	t.Run("header before default", func(t *testing.T) {
		t.Parallel()
		r := newRequest("", "de-AT,fr;q=0.5")
		assert.Equal(t, "de", resolveLanguage(r, nil, available, "en"))
	})

	t.Run("default as last resort", func(t *testing.T) {
		t.Parallel()
		r := newRequest("", "fr")
		assert.Equal(t, "en", resolveLanguage(r, nil, available, "en"))
	})
}
