package messages

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// validationPrefix locates validation message templates inside a component
// message table.
const validationPrefix = "errors.validation."

// Source loads the raw message table of a component for one language.
// It is implemented by the component-rendering collaborator; FSSource is a
// file-backed implementation for applications that ship message tables as
// JSON or YAML files.
type Source interface {
	Load(ctx context.Context, component, language string) (map[string]any, error)
}

// Registry is the global error registry consulted when a key has no entry in
// the controller-local message table.
type Registry interface {
	// Error resolves a system error code to a message template.
	Error(code string, params map[string]any) (string, bool)

	// ValidationMessages returns the global validation message table keyed
	// by error code.
	ValidationMessages() map[string]string
}

// Resolver resolves symbolic message keys against a per-controller message
// table, falling back to the global error registry. Tables are loaded lazily
// per language and cached: once a language is loaded it is never reloaded
// for the lifetime of the resolver.
type Resolver struct {
	source    Source
	registry  Registry
	tables    map[string]map[string]string
	component string
	group     singleflight.Group
	mu        sync.Mutex
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource sets the message table source.
func WithSource(s Source) Option {
	return func(r *Resolver) {
		r.source = s
	}
}

// WithRegistry sets the global error registry fallback.
func WithRegistry(reg Registry) Option {
	return func(r *Resolver) {
		r.registry = reg
	}
}

// WithTable preloads a message table for a language. Preloaded tables are
// flattened the same way loaded ones are and suppress lazy loading for that
// language.
func WithTable(language string, table map[string]any) Option {
	return func(r *Resolver) {
		r.tables[language] = Flatten(table)
	}
}

// NewResolver creates a resolver for the named component.
func NewResolver(component string, opts ...Option) *Resolver {
	r := &Resolver{
		component: component,
		tables:    make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Component returns the component name messages are loaded for.
func (r *Resolver) Component() string {
	return r.component
}

// Load loads the message table for a language explicitly. Loading is a no-op
// when the language is already loaded.
func (r *Resolver) Load(ctx context.Context, language string) error {
	_, err := r.table(ctx, language)
	return err
}

// Resolve looks up a key in the local message table. Keys are dot-path
// addressable (e.g. "errors.validation.required"). The first lookup for a
// language triggers exactly one table load.
func (r *Resolver) Resolve(ctx context.Context, language, key string) (string, bool) {
	table, err := r.table(ctx, language)
	if err != nil {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}

// ResolveOrFallback resolves key against the local table, then the global
// error registry, then the fallback. An empty fallback yields the key itself.
func (r *Resolver) ResolveOrFallback(ctx context.Context, language, key, fallback string) string {
	if msg, ok := r.Resolve(ctx, language, key); ok {
		return msg
	}
	if r.registry != nil {
		if msg, ok := r.registry.Error(key, nil); ok {
			return msg
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// ValidationMessage resolves a validation error code to a message template:
// local "errors.validation.<code>" entry first, then the registry's global
// validation table.
func (r *Resolver) ValidationMessage(ctx context.Context, language, code string) (string, bool) {
	if msg, ok := r.Resolve(ctx, language, validationPrefix+code); ok {
		return msg, true
	}
	if r.registry != nil {
		if msg, ok := r.registry.ValidationMessages()[code]; ok {
			return msg, true
		}
	}
	return "", false
}

// table returns the flattened message table for a language, loading it on
// first access. Concurrent first lookups collapse into a single load via
// singleflight. A failed load caches an empty table: lookup falls back to
// the registry and the invariant of one load per language holds.
func (r *Resolver) table(ctx context.Context, language string) (map[string]string, error) {
	r.mu.Lock()
	if t, ok := r.tables[language]; ok {
		r.mu.Unlock()
		return t, nil
	}
	r.mu.Unlock()

	if r.source == nil {
		return map[string]string{}, nil
	}

	v, err, _ := r.group.Do(r.component+":"+language, func() (any, error) {
		raw, err := r.source.Load(ctx, r.component, language)
		flat := Flatten(raw)

		r.mu.Lock()
		r.tables[language] = flat
		r.mu.Unlock()

		return flat, err
	})
	if v == nil {
		return map[string]string{}, err
	}
	return v.(map[string]string), err
}

// Flatten converts a nested message table into a flat dot-path map. Non-map
// leaf values are formatted with their default string representation.
func Flatten(table map[string]any) map[string]string {
	result := make(map[string]string)
	flattenInto(result, table, "")
	return result
}

func flattenInto(dst map[string]string, src map[string]any, prefix string) {
	for key, value := range src {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			dst[full] = v
		case map[string]any:
			flattenInto(dst, v, full)
		case map[string]string:
			flattenInto(dst, anyMap(v), full)
		default:
			dst[full] = fmt.Sprintf("%v", v)
		}
	}
}

func anyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
