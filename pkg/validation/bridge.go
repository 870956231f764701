package validation

// DataHandler consumes validated request data.
type DataHandler func(data map[string]any) error

// ErrorHandler consumes the field errors of a failed validation.
type ErrorHandler func(errs Errors) error

// Bridge connects the external validation collaborator to controller
// callbacks. A handler is armed for each slot before dispatch; Dispatch
// fires exactly one of them depending on the outcome, then disarms both.
//
// The bridge is not safe for concurrent use. Controllers are built per
// request, so each request gets its own bridge.
type Bridge struct {
	onValid   DataHandler
	onInvalid ErrorHandler
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// OnDataValid arms the success handler. A later call replaces the earlier
// one; the handler fires at most once.
func (b *Bridge) OnDataValid(fn DataHandler) {
	b.onValid = fn
}

// OnValidationError arms the failure handler. A later call replaces the
// earlier one; the handler fires at most once.
func (b *Bridge) OnValidationError(fn ErrorHandler) {
	b.onInvalid = fn
}

// Dispatch routes the outcome to the matching armed handler and disarms
// both slots. A missing handler makes Dispatch a no-op for that outcome.
// Handler errors and panics propagate to the caller untouched.
func (b *Bridge) Dispatch(outcome Outcome) error {
	onValid, onInvalid := b.onValid, b.onInvalid
	b.Reset()

	if outcome.IsValid() {
		if onValid == nil {
			return nil
		}
		return onValid(outcome.Data())
	}
	if onInvalid == nil {
		return nil
	}
	return onInvalid(outcome.Errors())
}

// Reset disarms both handler slots, re-arming the bridge for reuse.
func (b *Bridge) Reset() {
	b.onValid = nil
	b.onInvalid = nil
}
