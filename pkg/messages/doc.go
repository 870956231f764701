// Package messages resolves symbolic message and error keys to localized,
// human-readable strings.
//
// Every controller owns a Resolver bound to one component. Lookup order is
// fixed: the controller-local message table first, then the global error
// registry, then the caller-supplied fallback, then the key itself. Message
// tables are nested documents flattened into dot-path keys, so
// "errors.validation.required" addresses a value three levels deep.
//
// Tables load lazily: the first lookup for a language loads the component
// table for that language exactly once, guarded by singleflight. Explicit
// loading via Load is available for controllers that prefer eager I/O.
//
// Render substitutes {{name}} placeholders in resolved templates, which is
// how validation error parameters reach the final message text.
package messages
