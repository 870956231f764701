package crud

import "context"

// Repository is the persistence collaborator behind the CRUD service.
// Implementations return ErrNotFound for missing entities; every other
// error is treated as a persistence failure.
type Repository interface {
	// Create persists a new entity and returns it with identifiers
	// assigned.
	Create(ctx context.Context, fields map[string]any) (*Entity, error)

	// FindByID loads an entity by its public identifier.
	FindByID(ctx context.Context, uuid string) (*Entity, error)

	// FindByColumn loads the first entity whose column equals value.
	// Used by the uniqueness pre-check.
	FindByColumn(ctx context.Context, column string, value any) (*Entity, error)

	// Update overwrites the given columns of an existing entity.
	Update(ctx context.Context, uuid string, fields map[string]any) (*Entity, error)

	// Delete removes an entity permanently.
	Delete(ctx context.Context, uuid string) error

	// SoftDelete marks an entity as deleted without removing it.
	SoftDelete(ctx context.Context, uuid string) error

	// Restore clears the soft-delete mark.
	Restore(ctx context.Context, uuid string) error

	// SetStatus updates the status of all listed entities in one call.
	SetStatus(ctx context.Context, uuids []string, status Status) error

	// SetDefault marks the entity as the default within its scope.
	// A zero scopeUserID means the global scope.
	SetDefault(ctx context.Context, uuid string, scopeUserID int64) error

	// SaveOptions replaces the option bag associated with a reference id.
	SaveOptions(ctx context.Context, referenceID int64, options map[string]any) error

	// SaveOption persists a single option value.
	SaveOption(ctx context.Context, referenceID int64, key string, value any) error
}
