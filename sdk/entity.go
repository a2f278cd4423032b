package sdk

import (
	"context"
	"fmt"
	"net/http"
)

// EntityConfig describes one entity type. The generic Entity engine does all
// of the work; a config only names the endpoint, the identifier and the
// templates used for writes.
type EntityConfig struct {
	// Name is the registry tag, e.g. "Plan"
	Name string
	// Module is the envelope key holding the entity's fields, e.g. "plan"
	Module string
	// Command is the collection path, e.g. "plans"
	Command string
	// IDField names the identifier field. Default: Module + "_id"
	IDField string
	// CreateTemplate shapes create payloads. Nil sends the record as is.
	CreateTemplate Template
	// UpdateTemplate shapes update payloads. Nil sends the record as is.
	UpdateTemplate Template
	// UpdateMethod is the HTTP method of updates. Default: PUT
	UpdateMethod string
	// BeforeSave may remove invalid parts of the outgoing copy of the record
	// and returns a warning for each removal.
	BeforeSave func(data *Record) []string
}

// IdentifierField returns the configured identifier field name.
func (c *EntityConfig) IdentifierField() string {
	if c.IDField != "" {
		return c.IDField
	}
	return c.Module + "_id"
}

func (c *EntityConfig) updateMethod() string {
	if c.UpdateMethod != "" {
		return c.UpdateMethod
	}
	return http.MethodPut
}

// Result is the outcome of a successful write.
type Result struct {
	// Record is the entity record returned by the API
	Record *Record
	// Warnings lists parts of the payload dropped before sending
	Warnings []string
}

// Entity is one billing object. It holds the last response envelope received
// for it (or the values set by the caller before the first save) and runs
// the load/save lifecycle described by its EntityConfig.
//
// An Entity is not safe for concurrent use.
type Entity struct {
	client   *Client
	config   *EntityConfig
	envelope *Record
	err      error
	warnings []string
}

func newEntity(client *Client, config *EntityConfig) *Entity {
	return &Entity{
		client:   client,
		config:   config,
		envelope: NewRecord(),
	}
}

// Name returns the registry tag of the entity type.
func (e *Entity) Name() string { return e.config.Name }

// Config returns the entity type configuration.
func (e *Entity) Config() *EntityConfig { return e.config }

// Record returns the entity's own fields, or nil before anything was set or
// loaded.
func (e *Entity) Record() *Record {
	return e.envelope.Record(e.config.Module)
}

// Envelope returns the last full response, including fields outside the
// entity's module such as "code" and "message".
func (e *Entity) Envelope() *Record {
	return e.envelope
}

// SetRecord replaces the entity's own fields.
func (e *Entity) SetRecord(rec *Record) {
	if rec == nil {
		rec = NewRecord()
	}
	e.envelope.Set(e.config.Module, rec)
}

func (e *Entity) ensureRecord() *Record {
	rec := e.Record()
	if rec == nil {
		rec = NewRecord()
		e.envelope.Set(e.config.Module, rec)
	}
	return rec
}

// Get returns a field of the entity, falling back to the envelope. Missing
// fields yield nil.
func (e *Entity) Get(key string) any {
	if v, ok := e.Record().Get(key); ok && v != nil {
		return v
	}
	return e.envelope.Value(key)
}

// Set assigns a field of the entity.
func (e *Entity) Set(key string, value any) {
	e.ensureRecord().Set(key, value)
}

// Unset removes a field of the entity.
func (e *Entity) Unset(key string) {
	e.Record().Delete(key)
}

// ID returns the identifier, or "" for a new entity.
func (e *Entity) ID() string {
	return toString(e.Get(e.config.IdentifierField()))
}

// SetID assigns the identifier.
func (e *Entity) SetID(id string) {
	e.Set(e.config.IdentifierField(), id)
}

// IsNew reports whether the identifier is unset.
func (e *Entity) IsNew() bool {
	return e.ID() == ""
}

// HasError reports whether a failure is recorded.
func (e *Entity) HasError() bool { return e.err != nil }

// Err returns the recorded failure.
func (e *Entity) Err() error { return e.err }

// ClearError forgets the recorded failure.
func (e *Entity) ClearError() { e.err = nil }

// Warnings returns every warning produced over the entity's lifetime.
func (e *Entity) Warnings() []string {
	return append([]string(nil), e.warnings...)
}

func (e *Entity) fail(err error) error {
	e.err = err
	return err
}

// Load fetches the entity. A non-empty id is assigned first.
//
// Load does not clear a recorded failure: while one is pending it returns
// ErrPendingError (wrapping the failure) without sending a request.
func (e *Entity) Load(ctx context.Context, id string) (*Record, error) {
	if id != "" {
		e.SetID(id)
	}
	if e.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPendingError, e.err)
	}
	if e.IsNew() {
		return nil, e.fail(fmt.Errorf("load %s: %w", e.config.Name, ErrMissingID))
	}

	env, err := e.client.transport.get(ctx, e.memberPath(), nil)
	if err != nil {
		return nil, e.fail(err)
	}
	e.envelope = env
	return e.Record(), nil
}

// Save creates the entity when it has no identifier and updates it otherwise.
func (e *Entity) Save(ctx context.Context) (*Result, error) {
	return e.persist(ctx, e.IsNew())
}

// Create sends the entity to the create endpoint regardless of its
// identifier. Entities with caller-assigned identifiers (plan and addon
// codes) are created this way.
func (e *Entity) Create(ctx context.Context) (*Result, error) {
	return e.persist(ctx, true)
}

// Update sends the entity to the update endpoint.
func (e *Entity) Update(ctx context.Context) (*Result, error) {
	return e.persist(ctx, false)
}

func (e *Entity) persist(ctx context.Context, create bool) (*Result, error) {
	e.err = nil

	data := e.Record().Clone()
	if data == nil {
		data = NewRecord()
	}

	var warnings []string
	if e.config.BeforeSave != nil {
		warnings = e.config.BeforeSave(data)
		e.warnings = append(e.warnings, warnings...)
	}

	var (
		env *Record
		err error
	)
	if create {
		payload := ShapeRecord(data, e.config.CreateTemplate)
		env, err = e.client.transport.post(ctx, e.config.Command, payload)
	} else {
		if e.IsNew() {
			return nil, e.fail(fmt.Errorf("update %s: %w", e.config.Name, ErrMissingID))
		}
		payload := ShapeRecord(data, e.config.UpdateTemplate)
		env, err = e.client.transport.do(ctx, e.config.updateMethod(), e.memberPath(), payload)
	}
	if err != nil {
		return nil, e.fail(err)
	}

	e.envelope = env
	return &Result{Record: e.Record(), Warnings: warnings}, nil
}

// Do calls an action endpoint of the entity (path relative to the API root)
// and, on success, replaces the entity with the response. Like Load, it
// returns ErrPendingError without sending anything while a failure is
// recorded.
func (e *Entity) Do(ctx context.Context, method, path string, body any) (*Record, error) {
	if e.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPendingError, e.err)
	}
	env, err := e.client.transport.do(ctx, method, path, body)
	if err != nil {
		return nil, e.fail(err)
	}
	e.envelope = env
	return e.Record(), nil
}

// action calls "{command}/{id}/{suffix}" with POST.
func (e *Entity) action(ctx context.Context, suffix string, body any, args ...string) (*Record, error) {
	if e.IsNew() {
		return nil, e.fail(fmt.Errorf("%s %s: %w", e.config.Name, suffix, ErrMissingID))
	}
	path := buildPath(e.config.Command+"/{0}/"+suffix, append([]string{e.ID()}, args...)...)
	return e.Do(ctx, http.MethodPost, path, body)
}

func (e *Entity) memberPath() string {
	return buildPath(e.config.Command+"/{0}", e.ID())
}
