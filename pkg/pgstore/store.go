package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arikaim/controllers/pkg/crud"
)

// Store is a PostgreSQL-backed crud.Repository. Entities live in a table
// with (id bigserial, uuid text unique, data jsonb) columns; option bags
// live in a companion table with (reference_id bigint, key text, value
// jsonb) and a primary key over (reference_id, key).
type Store struct {
	pool         *pgxpool.Pool
	table        string
	optionsTable string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithOptionsTable overrides the option bag table name. Defaults to
// "<table>_options".
func WithOptionsTable(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.optionsTable = name
		}
	}
}

// NewStore creates a repository over the given entity table.
func NewStore(pool *pgxpool.Pool, table string, opts ...StoreOption) *Store {
	s := &Store{
		pool:         pool,
		table:        table,
		optionsTable: table + "_options",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new entity with a generated uuid.
func (s *Store) Create(ctx context.Context, fields map[string]any) (*crud.Entity, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("pgstore: encode fields: %w", err)
	}

	entity := &crud.Entity{UUID: uuid.NewString(), Fields: fields}
	query := fmt.Sprintf(`INSERT INTO %s (uuid, data) VALUES ($1, $2) RETURNING id`, s.table)
	if err := s.pool.QueryRow(ctx, query, entity.UUID, data).Scan(&entity.ID); err != nil {
		return nil, fmt.Errorf("pgstore: create: %w", err)
	}
	return entity, nil
}

// FindByID loads an entity by uuid.
func (s *Store) FindByID(ctx context.Context, id string) (*crud.Entity, error) {
	query := fmt.Sprintf(`SELECT id, uuid, data FROM %s WHERE uuid = $1`, s.table)
	return s.scanEntity(s.pool.QueryRow(ctx, query, id))
}

// FindByColumn loads the first entity whose data column equals value,
// compared by text representation. Rows are ordered by id so the match is
// deterministic.
func (s *Store) FindByColumn(ctx context.Context, column string, value any) (*crud.Entity, error) {
	query := fmt.Sprintf(
		`SELECT id, uuid, data FROM %s WHERE data->>$1 = $2 ORDER BY id LIMIT 1`, s.table)
	return s.scanEntity(s.pool.QueryRow(ctx, query, column, fmt.Sprintf("%v", value)))
}

// Update merges the given columns into the entity's data.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*crud.Entity, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("pgstore: encode fields: %w", err)
	}
	query := fmt.Sprintf(
		`UPDATE %s SET data = data || $2 WHERE uuid = $1 RETURNING id, uuid, data`, s.table)
	return s.scanEntity(s.pool.QueryRow(ctx, query, id, data))
}

// Delete removes an entity permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE uuid = $1`, s.table)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pgstore: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}

// SoftDelete marks an entity as deleted.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	return s.setDeleted(ctx, id, true)
}

// Restore clears the soft-delete mark.
func (s *Store) Restore(ctx context.Context, id string) error {
	return s.setDeleted(ctx, id, false)
}

func (s *Store) setDeleted(ctx context.Context, id string, deleted bool) error {
	query := fmt.Sprintf(
		`UPDATE %s SET data = jsonb_set(data, '{deleted}', to_jsonb($2::bool)) WHERE uuid = $1`,
		s.table)
	tag, err := s.pool.Exec(ctx, query, id, deleted)
	if err != nil {
		return fmt.Errorf("pgstore: set deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNotFound
	}
	return nil
}

// SetStatus updates all listed entities in one statement. StatusToggle
// flips a zero status to 1 and any non-zero status to 0, per row.
func (s *Store) SetStatus(ctx context.Context, ids []string, status crud.Status) error {
	var query string
	var args []any
	if status == crud.StatusToggle {
		query = fmt.Sprintf(`UPDATE %s SET data = jsonb_set(data, '{status}',
			CASE WHEN COALESCE((data->>'status')::int, 0) <> 0 THEN '0'::jsonb ELSE '1'::jsonb END)
			WHERE uuid = ANY($1)`, s.table)
		args = []any{ids}
	} else {
		query = fmt.Sprintf(
			`UPDATE %s SET data = jsonb_set(data, '{status}', to_jsonb($2::int)) WHERE uuid = ANY($1)`,
			s.table)
		args = []any{ids, int(status)}
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgstore: set status: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return crud.ErrNotFound
	}
	return nil
}

// SetDefault marks the entity as the default within its scope. The
// previous default of the same scope is cleared in the same transaction.
func (s *Store) SetDefault(ctx context.Context, id string, scopeUserID int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		clearQuery := fmt.Sprintf(
			`UPDATE %s SET data = jsonb_set(data, '{default}', 'false'::jsonb)
			WHERE (data->>'default')::bool = true
			AND COALESCE((data->>'user_id')::bigint, 0) = $1`, s.table)
		if _, err := tx.Exec(ctx, clearQuery, scopeUserID); err != nil {
			return fmt.Errorf("pgstore: clear default: %w", err)
		}

		set := fmt.Sprintf(
			`UPDATE %s SET data = jsonb_set(data, '{default}', 'true'::jsonb) WHERE uuid = $1`,
			s.table)
		tag, err := tx.Exec(ctx, set, id)
		if err != nil {
			return fmt.Errorf("pgstore: set default: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return crud.ErrNotFound
		}
		return nil
	})
}

// SaveOptions replaces the option bag of a reference id.
func (s *Store) SaveOptions(ctx context.Context, referenceID int64, options map[string]any) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		del := fmt.Sprintf(`DELETE FROM %s WHERE reference_id = $1`, s.optionsTable)
		if _, err := tx.Exec(ctx, del, referenceID); err != nil {
			return fmt.Errorf("pgstore: clear options: %w", err)
		}
		for key, value := range options {
			if err := upsertOption(ctx, tx, s.optionsTable, referenceID, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveOption persists a single option value.
func (s *Store) SaveOption(ctx context.Context, referenceID int64, key string, value any) error {
	return upsertOption(ctx, s.pool, s.optionsTable, referenceID, key, value)
}

// queryExecer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Options loads the option bag for a reference id.
func (s *Store) Options(ctx context.Context, referenceID int64) (map[string]any, error) {
	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE reference_id = $1`, s.optionsTable)
	rows, err := s.pool.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load options: %w", err)
	}
	defer rows.Close()

	options := make(map[string]any)
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("pgstore: scan option: %w", err)
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("pgstore: decode option %q: %w", key, err)
		}
		options[key] = value
	}
	return options, rows.Err()
}

// withTx runs fn in a transaction, rolling back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) scanEntity(row pgx.Row) (*crud.Entity, error) {
	var entity crud.Entity
	var raw []byte
	if err := row.Scan(&entity.ID, &entity.UUID, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, crud.ErrNotFound
		}
		return nil, fmt.Errorf("pgstore: scan entity: %w", err)
	}
	if err := json.Unmarshal(raw, &entity.Fields); err != nil {
		return nil, fmt.Errorf("pgstore: decode entity %s: %w", entity.UUID, err)
	}
	return &entity, nil
}

func upsertOption(ctx context.Context, q queryExecer, table string, referenceID int64, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("pgstore: encode option %q: %w", key, err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (reference_id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (reference_id, key) DO UPDATE SET value = EXCLUDED.value`, table)
	if _, err := q.Exec(ctx, query, referenceID, key, data); err != nil {
		return fmt.Errorf("pgstore: save option %q: %w", key, err)
	}
	return nil
}
