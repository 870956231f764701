package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arikaim/controllers/pkg/cache"
)

// ErrNoTable is returned by FSSource when a component has no message table
// for the requested language.
var ErrNoTable = errors.New("messages: no table for component/language")

// FSSource loads component message tables from a file tree. The expected
// layout is one directory per component with one file per language:
//
//	users/en.json
//	users/de.yaml
//	orders/en.yml
//
// JSON and YAML are both supported; JSON wins when both exist.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a file-backed message table source.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Load reads and decodes the message table for (component, language).
// Returns ErrNoTable when no file exists.
func (s *FSSource) Load(_ context.Context, component, language string) (map[string]any, error) {
	type decoder struct {
		unmarshal func([]byte, any) error
		ext       string
	}
	decoders := []decoder{
		{ext: ".json", unmarshal: json.Unmarshal},
		{ext: ".yaml", unmarshal: yaml.Unmarshal},
		{ext: ".yml", unmarshal: yaml.Unmarshal},
	}

	for _, d := range decoders {
		path := component + "/" + language + d.ext
		data, err := fs.ReadFile(s.fsys, path)
		if err != nil {
			continue
		}
		var table map[string]any
		if err := d.unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("messages: parsing %q: %w", path, err)
		}
		return table, nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNoTable, component, language)
}

// CachedSource wraps a Source with a cache so message tables survive across
// controller instances. The cache key is "<component>:<language>".
type CachedSource struct {
	next  Source
	cache cache.Cache[map[string]any]
	ttl   time.Duration
}

// NewCachedSource creates a caching source. A zero ttl uses the cache's
// default TTL.
func NewCachedSource(next Source, c cache.Cache[map[string]any], ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

// Load returns the cached table or loads it through the wrapped source.
func (s *CachedSource) Load(ctx context.Context, component, language string) (map[string]any, error) {
	key := component + ":" + language
	return cache.GetOrSet(ctx, s.cache, key, func(ctx context.Context) (map[string]any, time.Duration, error) {
		table, err := s.next.Load(ctx, component, language)
		if err != nil {
			return nil, 0, err
		}
		return table, s.ttl, nil
	})
}
