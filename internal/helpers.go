package internal

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Param retrieves a typed URL route parameter. Unparseable values yield
// the zero value.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string) T {
	v, _ := convertParam[T](chi.URLParam(r, name))
	return v
}

// Query retrieves a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string) T {
	v, _ := convertParam[T](r.URL.Query().Get(name))
	return v
}

// QueryDefault retrieves a typed query parameter, falling back to
// defaultValue when the parameter is empty or unparseable.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *http.Request, name string, defaultValue T) T {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// convertParam converts a raw string to the target type T.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
