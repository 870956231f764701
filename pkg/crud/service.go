package crud

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Op names a CRUD operation. The op string doubles as the default success
// message key; the error key for an op is ErrorKey(op).
type Op string

// Operations performed by the Service.
const (
	OpCreate     Op = "create"
	OpRead       Op = "read"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpSoftDelete Op = "soft-delete"
	OpRestore    Op = "restore"
	OpStatus     Op = "status"
	OpDefault    Op = "default"
	OpOptions    Op = "options.save"
	OpField      Op = "field.update"
)

// ErrorKey returns the message key reported when the operation fails.
func ErrorKey(op Op) string {
	return "errors." + string(op)
}

// minIDLength is the shortest accepted public identifier.
const minIDLength = 2

// ResultField is one envelope field produced by an operation.
type ResultField struct {
	Value any
	Name  string
}

// Result describes a successful operation: the message key to resolve and
// the envelope fields to set, in order.
type Result struct {
	MessageKey string
	Fields     []ResultField
}

// Hooks fired around persistence calls. Fields-transforming hooks receive
// a private copy of the payload and return the payload to persist.
type (
	CreateHook        func(ctx context.Context, fields map[string]any) (map[string]any, error)
	UpdateHook        func(ctx context.Context, fields map[string]any, current *Entity) (map[string]any, error)
	EntityHook        func(ctx context.Context, entity *Entity) error
	StatusChangedHook func(ctx context.Context, status Status, entity *Entity)
	OptionTransform   func(ctx context.Context, key string, value any) (any, error)
)

// Service runs the CRUD lifecycle over a Repository: identifier and
// uniqueness checks, default-value fill-in, before-hooks, one persistence
// call, then a Result with the success message key and envelope fields.
// Any failed step aborts the operation before persistence.
type Service struct {
	repo            Repository
	defaults        map[string]any
	messageKeys     map[Op]string
	beforeCreate    CreateHook
	beforeUpdate    UpdateHook
	beforeRead      EntityHook
	beforeDelete    EntityHook
	beforeSoftDel   EntityHook
	beforeRestore   EntityHook
	onStatusChanged StatusChangedHook
	optionTransform OptionTransform
	uniqueColumns   []string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithUniqueColumns declares the columns enforced as unique by pre-check.
// Columns are checked in the given order; the first conflict aborts.
func WithUniqueColumns(columns ...string) ServiceOption {
	return func(s *Service) {
		s.uniqueColumns = columns
	}
}

// WithDefaults declares fill-in values applied to empty payload fields
// before create and update.
func WithDefaults(defaults map[string]any) ServiceOption {
	return func(s *Service) {
		s.defaults = defaults
	}
}

// WithMessageKey overrides the success message key for one operation.
func WithMessageKey(op Op, key string) ServiceOption {
	return func(s *Service) {
		s.messageKeys[op] = key
	}
}

// WithBeforeCreate sets the hook invoked before the create persistence
// call.
func WithBeforeCreate(fn CreateHook) ServiceOption {
	return func(s *Service) {
		s.beforeCreate = fn
	}
}

// WithBeforeUpdate sets the hook invoked before the update persistence
// call.
func WithBeforeUpdate(fn UpdateHook) ServiceOption {
	return func(s *Service) {
		s.beforeUpdate = fn
	}
}

// WithBeforeRead sets the hook invoked after a successful load on read.
func WithBeforeRead(fn EntityHook) ServiceOption {
	return func(s *Service) {
		s.beforeRead = fn
	}
}

// WithBeforeDelete sets the hook invoked before delete.
func WithBeforeDelete(fn EntityHook) ServiceOption {
	return func(s *Service) {
		s.beforeDelete = fn
	}
}

// WithBeforeSoftDelete sets the hook invoked before soft delete.
func WithBeforeSoftDelete(fn EntityHook) ServiceOption {
	return func(s *Service) {
		s.beforeSoftDel = fn
	}
}

// WithBeforeRestore sets the hook invoked before restore.
func WithBeforeRestore(fn EntityHook) ServiceOption {
	return func(s *Service) {
		s.beforeRestore = fn
	}
}

// WithOnStatusChanged sets the hook fired once per entity after a
// successful status update.
func WithOnStatusChanged(fn StatusChangedHook) ServiceOption {
	return func(s *Service) {
		s.onStatusChanged = fn
	}
}

// WithOptionTransform sets the value transform applied before option
// values are persisted.
func WithOptionTransform(fn OptionTransform) ServiceOption {
	return func(s *Service) {
		s.optionTransform = fn
	}
}

// NewService creates a CRUD service over the repository.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:        repo,
		messageKeys: make(map[Op]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MessageKey returns the success message key for an operation: the
// configured override, else the op name.
func (s *Service) MessageKey(op Op) string {
	if key, ok := s.messageKeys[op]; ok {
		return key
	}
	return string(op)
}

// Create persists a new entity. The payload must not carry an identifier;
// defaults are filled in, uniqueness is checked with no exclusion, then
// the before-create hook runs and the entity is persisted.
func (s *Service) Create(ctx context.Context, payload map[string]any) (Result, error) {
	fields := clone(payload)
	delete(fields, "id")
	delete(fields, "uuid")
	s.fillDefaults(fields)

	if err := s.checkUnique(ctx, fields, 0); err != nil {
		return Result{}, err
	}
	if s.beforeCreate != nil {
		transformed, err := s.beforeCreate(ctx, fields)
		if err != nil {
			return Result{}, fmt.Errorf("before create: %w", err)
		}
		fields = transformed
	}

	entity, err := s.repo.Create(ctx, fields)
	if err != nil {
		return Result{}, fmt.Errorf("create: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpCreate),
		Fields:     []ResultField{{Name: "uuid", Value: entity.UUID}},
	}, nil
}

// Read loads an entity and returns its full field set.
func (s *Service) Read(ctx context.Context, uuid string) (Result, error) {
	entity, err := s.load(ctx, uuid)
	if err != nil {
		return Result{}, err
	}
	if s.beforeRead != nil {
		if err := s.beforeRead(ctx, entity); err != nil {
			return Result{}, fmt.Errorf("before read: %w", err)
		}
	}

	fields := []ResultField{{Name: "uuid", Value: entity.UUID}}
	for _, name := range sortedKeys(entity.Fields) {
		if name == "uuid" {
			continue
		}
		fields = append(fields, ResultField{Name: name, Value: entity.Fields[name]})
	}
	return Result{MessageKey: s.MessageKey(OpRead), Fields: fields}, nil
}

// Update overwrites an existing entity. Uniqueness checks exclude the
// entity's own internal id so an unchanged unique value passes.
func (s *Service) Update(ctx context.Context, uuid string, payload map[string]any) (Result, error) {
	entity, err := s.load(ctx, uuid)
	if err != nil {
		return Result{}, err
	}

	fields := clone(payload)
	delete(fields, "id")
	delete(fields, "uuid")
	s.fillDefaults(fields)

	if err := s.checkUnique(ctx, fields, entity.ID); err != nil {
		return Result{}, err
	}
	if s.beforeUpdate != nil {
		transformed, err := s.beforeUpdate(ctx, fields, entity)
		if err != nil {
			return Result{}, fmt.Errorf("before update: %w", err)
		}
		fields = transformed
	}

	if _, err := s.repo.Update(ctx, uuid, fields); err != nil {
		return Result{}, fmt.Errorf("update: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpUpdate),
		Fields:     []ResultField{{Name: "uuid", Value: uuid}},
	}, nil
}

// Delete removes an entity permanently.
func (s *Service) Delete(ctx context.Context, uuid string) (Result, error) {
	return s.removeOp(ctx, uuid, OpDelete, s.beforeDelete, s.repo.Delete)
}

// SoftDelete marks an entity as deleted.
func (s *Service) SoftDelete(ctx context.Context, uuid string) (Result, error) {
	return s.removeOp(ctx, uuid, OpSoftDelete, s.beforeSoftDel, s.repo.SoftDelete)
}

// Restore clears the soft-delete mark.
func (s *Service) Restore(ctx context.Context, uuid string) (Result, error) {
	return s.removeOp(ctx, uuid, OpRestore, s.beforeRestore, s.repo.Restore)
}

func (s *Service) removeOp(ctx context.Context, uuid string, op Op, hook EntityHook, verb func(context.Context, string) error) (Result, error) {
	entity, err := s.load(ctx, uuid)
	if err != nil {
		return Result{}, err
	}
	if hook != nil {
		if err := hook(ctx, entity); err != nil {
			return Result{}, fmt.Errorf("before %s: %w", op, err)
		}
	}
	if err := verb(ctx, uuid); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return Result{
		MessageKey: s.MessageKey(op),
		Fields:     []ResultField{{Name: "uuid", Value: uuid}},
	}, nil
}

// SetStatus updates the status of one or more entities in a single
// persistence call. The status-changed hook fires once per entity after
// the update succeeds.
func (s *Service) SetStatus(ctx context.Context, uuids []string, status Status) (Result, error) {
	if !status.Valid() {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidStatus, status)
	}
	if len(uuids) == 0 {
		return Result{}, ErrInvalidID
	}

	entities := make([]*Entity, 0, len(uuids))
	for _, uuid := range uuids {
		entity, err := s.load(ctx, uuid)
		if err != nil {
			return Result{}, err
		}
		entities = append(entities, entity)
	}

	if err := s.repo.SetStatus(ctx, uuids, status); err != nil {
		return Result{}, fmt.Errorf("set status: %w", err)
	}
	if s.onStatusChanged != nil {
		for _, entity := range entities {
			s.onStatusChanged(ctx, status, entity)
		}
	}

	var uuidField any = uuids
	if len(uuids) == 1 {
		uuidField = uuids[0]
	}
	return Result{
		MessageKey: s.MessageKey(OpStatus),
		Fields: []ResultField{
			{Name: "uuid", Value: uuidField},
			{Name: "status", Value: status.Value()},
		},
	}, nil
}

// SetDefault marks an entity as the default within its scope. A zero
// scopeUserID means the global scope.
func (s *Service) SetDefault(ctx context.Context, uuid string, scopeUserID int64) (Result, error) {
	if err := checkID(uuid); err != nil {
		return Result{}, err
	}
	if err := s.repo.SetDefault(ctx, uuid, scopeUserID); err != nil {
		return Result{}, fmt.Errorf("set default: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpDefault),
		Fields:     []ResultField{{Name: "uuid", Value: uuid}},
	}, nil
}

// SaveOptions replaces the option bag of a reference id. Values run
// through the option transform before persistence.
func (s *Service) SaveOptions(ctx context.Context, referenceID int64, options map[string]any) (Result, error) {
	transformed, err := s.transformOptions(ctx, options)
	if err != nil {
		return Result{}, err
	}
	if err := s.repo.SaveOptions(ctx, referenceID, transformed); err != nil {
		return Result{}, fmt.Errorf("save options: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpOptions),
		Fields:     []ResultField{{Name: "id", Value: referenceID}},
	}, nil
}

// SaveOption persists a single option value.
func (s *Service) SaveOption(ctx context.Context, referenceID int64, key string, value any) (Result, error) {
	if s.optionTransform != nil {
		transformed, err := s.optionTransform(ctx, key, value)
		if err != nil {
			return Result{}, fmt.Errorf("transform option %q: %w", key, err)
		}
		value = transformed
	}
	if err := s.repo.SaveOption(ctx, referenceID, key, value); err != nil {
		return Result{}, fmt.Errorf("save option: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpOptions),
		Fields: []ResultField{
			{Name: "id", Value: referenceID},
			{Name: "key", Value: key},
		},
	}, nil
}

// UpdateField overwrites a single column of an existing entity.
func (s *Service) UpdateField(ctx context.Context, uuid, field string, value any) (Result, error) {
	if _, err := s.load(ctx, uuid); err != nil {
		return Result{}, err
	}
	if _, err := s.repo.Update(ctx, uuid, map[string]any{field: value}); err != nil {
		return Result{}, fmt.Errorf("update field: %w", err)
	}
	return Result{
		MessageKey: s.MessageKey(OpField),
		Fields: []ResultField{
			{Name: "uuid", Value: uuid},
			{Name: "field", Value: field},
		},
	}, nil
}

func (s *Service) load(ctx context.Context, uuid string) (*Entity, error) {
	if err := checkID(uuid); err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, uuid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find %q: %w", uuid, err)
	}
	return entity, nil
}

// checkUnique runs the uniqueness pre-check over every configured column
// before any write. Empty values are not checked. A match fails unless it
// is the excluded entity itself.
func (s *Service) checkUnique(ctx context.Context, fields map[string]any, excludeID int64) error {
	for _, column := range s.uniqueColumns {
		value, ok := fields[column]
		if !ok || value == nil || value == "" {
			continue
		}
		existing, err := s.repo.FindByColumn(ctx, column, value)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("unique check %q: %w", column, err)
		}
		if excludeID == 0 || existing.ID != excludeID {
			return &UniqueError{Column: column, Value: value}
		}
	}
	return nil
}

func (s *Service) fillDefaults(fields map[string]any) {
	for name, def := range s.defaults {
		if v, ok := fields[name]; !ok || v == nil || v == "" {
			fields[name] = def
		}
	}
}

func (s *Service) transformOptions(ctx context.Context, options map[string]any) (map[string]any, error) {
	if s.optionTransform == nil {
		return options, nil
	}
	out := make(map[string]any, len(options))
	for _, key := range sortedKeys(options) {
		value, err := s.optionTransform(ctx, key, options[key])
		if err != nil {
			return nil, fmt.Errorf("transform option %q: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}

func checkID(uuid string) error {
	if len(uuid) < minIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidID, uuid)
	}
	return nil
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
