package envelope

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status values reported in the serialized envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// HTTP codes derived from the envelope state.
const (
	CodeOK    = 200
	CodeError = 400
)

// Result is the full wire shape of an API response envelope.
// Field order matters: encoding/json preserves struct order, which keeps
// the output stable for clients that diff raw responses.
type Result struct {
	Result        any      `json:"result"`
	Status        string   `json:"status"`
	Code          int      `json:"code"`
	Errors        []string `json:"errors"`
	ExecutionTime float64  `json:"execution_time"`
}

// Envelope accumulates the response state of a single controller invocation:
// a payload of named result fields (or a wholesale-replaced value), an ordered
// error list, and a sticky pretty-print flag. It is not safe for concurrent
// use; one envelope belongs to one request.
type Envelope struct {
	result       any
	errors       []string
	now          func() time.Time
	start        time.Time
	codeOverride int
	pretty       bool
}

// Option configures an Envelope during construction.
type Option func(*Envelope)

// WithClock sets the time source used to compute execution time.
// Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Envelope) {
		if now != nil {
			e.now = now
		}
	}
}

// WithStartTime sets the request start time used as the execution time origin.
// Defaults to the construction time.
func WithStartTime(t time.Time) Option {
	return func(e *Envelope) {
		if !t.IsZero() {
			e.start = t
		}
	}
}

// New creates an empty envelope: nil payload, ok status, no errors.
func New(opts ...Option) *Envelope {
	e := &Envelope{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.start.IsZero() {
		e.start = e.now()
	}
	e.Clear()
	return e
}

// Clear resets the envelope to its canonical empty state. The pretty flag and
// the clock survive a clear; they are sticky for the controller lifetime.
// Calling Clear on an already-empty envelope is a no-op.
func (e *Envelope) Clear() {
	e.result = nil
	e.errors = []string{}
	e.codeOverride = 0
}

// SetField merges value under the named payload field. If the payload was
// previously replaced with a non-field value, it is discarded and rebuilt as
// a field map.
func (e *Envelope) SetField(name string, value any) {
	e.fields().Set(name, value)
}

// Field returns the current value of a payload field.
func (e *Envelope) Field(name string) (any, bool) {
	f, ok := e.result.(*Fields)
	if !ok {
		return nil, false
	}
	return f.Get(name)
}

// MergeFields merges every entry of values into the payload as a top-level
// field, preserving fields already set.
func (e *Envelope) MergeFields(values map[string]any) {
	f := e.fields()
	for _, k := range sortedKeys(values) {
		f.Set(k, values[k])
	}
}

// SetFieldsUnder merges every entry of values under payload[under].
func (e *Envelope) SetFieldsUnder(under string, values map[string]any) {
	f := e.fields()
	nested, _ := f.Get(under)
	sub, ok := nested.(*Fields)
	if !ok {
		sub = NewFields()
		f.Set(under, sub)
	}
	for _, k := range sortedKeys(values) {
		sub.Set(k, values[k])
	}
}

// ReplacePayload replaces the whole payload with v. This is the explicit
// form of bulk assignment; use SetField for keyed merges.
func (e *Envelope) ReplacePayload(v any) {
	e.result = v
}

// Payload returns the current payload value, nil if nothing was set.
func (e *Envelope) Payload() any {
	return e.result
}

// AddError appends a human-readable error message. Duplicates are kept and
// insertion order is preserved.
func (e *Envelope) AddError(message string) {
	e.errors = append(e.errors, message)
}

// AddErrors appends all messages in order.
func (e *Envelope) AddErrors(messages []string) {
	e.errors = append(e.errors, messages...)
}

// SetErrors replaces the error list.
func (e *Envelope) SetErrors(messages []string) {
	e.errors = append([]string{}, messages...)
}

// Errors returns a copy of the accumulated error list.
func (e *Envelope) Errors() []string {
	return append([]string{}, e.errors...)
}

// HasError reports whether any error has been recorded.
func (e *Envelope) HasError() bool {
	return len(e.errors) > 0
}

// ErrorCount returns the number of recorded errors.
func (e *Envelope) ErrorCount() int {
	return len(e.errors)
}

// Status derives the envelope status from the error list.
func (e *Envelope) Status() string {
	if e.HasError() {
		return StatusError
	}
	return StatusOK
}

// Code derives the HTTP status code: 400 when any error is recorded, 200
// otherwise, unless an explicit override is set.
func (e *Envelope) Code() int {
	if e.codeOverride != 0 {
		return e.codeOverride
	}
	if e.HasError() {
		return CodeError
	}
	return CodeOK
}

// OverrideCode forces the HTTP status code regardless of error state.
// Clear removes the override.
func (e *Envelope) OverrideCode(code int) {
	e.codeOverride = code
}

// UsePrettyFormat enables pretty-printed serialization for the lifetime of
// the envelope.
func (e *Envelope) UsePrettyFormat() {
	e.pretty = true
}

// Pretty reports whether pretty serialization is enabled.
func (e *Envelope) Pretty() bool {
	return e.pretty
}

// Finalize materializes the envelope. With raw set it returns the payload
// alone; otherwise the full Result including derived status, code and the
// execution time in seconds since the request start.
func (e *Envelope) Finalize(raw bool) any {
	if raw {
		return e.result
	}
	return Result{
		Result:        e.result,
		Status:        e.Status(),
		Code:          e.Code(),
		Errors:        e.Errors(),
		ExecutionTime: e.now().Sub(e.start).Seconds(),
	}
}

// Serialize produces the wire bytes for Finalize's output. Pretty mode
// indents and leaves unicode and slashes unescaped; compact mode uses the
// standard encoding.
func (e *Envelope) Serialize(raw bool) ([]byte, error) {
	v := e.Finalize(raw)
	if !e.pretty {
		return json.Marshal(v)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (e *Envelope) fields() *Fields {
	f, ok := e.result.(*Fields)
	if !ok {
		f = NewFields()
		e.result = f
	}
	return f
}
