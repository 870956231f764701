// Package validation defines the contract between controllers and the
// external validation collaborator: field errors with symbolic codes, a
// typed Outcome carrying either validated data or errors, and a Bridge
// that routes an outcome to per-request success/failure callbacks.
//
// The package never runs validation rules itself. Rule evaluation and
// sanitization belong to the collaborator; controllers only consume the
// outcome.
package validation
