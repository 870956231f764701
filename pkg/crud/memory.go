package crud

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Repository used in tests and as an embedding
// backend for small option sets. Soft-deleted entities stay loadable with
// a true "deleted" field until restored or removed.
type Memory struct {
	entities map[string]*Entity
	options  map[int64]map[string]any
	defaults map[int64]string
	order    []string
	nextID   int64
	mu       sync.Mutex
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		entities: make(map[string]*Entity),
		options:  make(map[int64]map[string]any),
		defaults: make(map[int64]string),
	}
}

// Create persists a new entity with generated identifiers.
func (m *Memory) Create(_ context.Context, fields map[string]any) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	entity := &Entity{
		ID:     m.nextID,
		UUID:   uuid.NewString(),
		Fields: clone(fields),
	}
	m.entities[entity.UUID] = entity
	m.order = append(m.order, entity.UUID)
	return copyEntity(entity), nil
}

// FindByID loads an entity by uuid. Soft-deleted entities are returned.
func (m *Memory) FindByID(_ context.Context, id string) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entity, ok := m.entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEntity(entity), nil
}

// FindByColumn returns the first entity whose column equals value, in
// creation order.
func (m *Memory) FindByColumn(_ context.Context, column string, value any) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		entity, ok := m.entities[id]
		if !ok {
			continue
		}
		if v, ok := entity.Fields[column]; ok && v == value {
			return copyEntity(entity), nil
		}
	}
	return nil, ErrNotFound
}

// Update overwrites the given columns of an existing entity.
func (m *Memory) Update(_ context.Context, id string, fields map[string]any) (*Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entity, ok := m.entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		entity.Fields[k] = v
	}
	return copyEntity(entity), nil
}

// Delete removes an entity permanently.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entities[id]; !ok {
		return ErrNotFound
	}
	delete(m.entities, id)
	return nil
}

// SoftDelete marks an entity as deleted.
func (m *Memory) SoftDelete(_ context.Context, id string) error {
	return m.setField(id, "deleted", true)
}

// Restore clears the soft-delete mark.
func (m *Memory) Restore(_ context.Context, id string) error {
	return m.setField(id, "deleted", false)
}

// SetStatus updates all listed entities. StatusToggle flips a zero status
// to 1 and any non-zero status to 0, per entity.
func (m *Memory) SetStatus(_ context.Context, ids []string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate the whole batch before writing anything.
	for _, id := range ids {
		if _, ok := m.entities[id]; !ok {
			return ErrNotFound
		}
	}
	for _, id := range ids {
		entity := m.entities[id]
		next := int(status)
		if status == StatusToggle {
			if current, _ := entity.Fields["status"].(int); current != 0 {
				next = 0
			} else {
				next = 1
			}
		}
		entity.Fields["status"] = next
	}
	return nil
}

// SetDefault marks the entity as the default within the scope, clearing
// the previous default.
func (m *Memory) SetDefault(_ context.Context, id string, scopeUserID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entities[id]; !ok {
		return ErrNotFound
	}
	if previous, ok := m.defaults[scopeUserID]; ok {
		if e, ok := m.entities[previous]; ok {
			e.Fields["default"] = false
		}
	}
	m.defaults[scopeUserID] = id
	m.entities[id].Fields["default"] = true
	return nil
}

// DefaultFor returns the default entity uuid for a scope.
func (m *Memory) DefaultFor(scopeUserID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.defaults[scopeUserID]
	return id, ok
}

// SaveOptions replaces the option bag of a reference id.
func (m *Memory) SaveOptions(_ context.Context, referenceID int64, options map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[referenceID] = clone(options)
	return nil
}

// SaveOption persists a single option value.
func (m *Memory) SaveOption(_ context.Context, referenceID int64, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bag, ok := m.options[referenceID]
	if !ok {
		bag = make(map[string]any)
		m.options[referenceID] = bag
	}
	bag[key] = value
	return nil
}

// Options returns a copy of the option bag for a reference id.
func (m *Memory) Options(referenceID int64) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.options[referenceID])
}

func (m *Memory) setField(id, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entity, ok := m.entities[id]
	if !ok {
		return ErrNotFound
	}
	entity.Fields[name] = value
	return nil
}

func copyEntity(e *Entity) *Entity {
	return &Entity{
		ID:     e.ID,
		UUID:   e.UUID,
		Fields: clone(e.Fields),
	}
}
