// Package middlewares provides standard net/http middleware for the
// controller layer: request ID propagation, panic recovery with an
// error envelope response and principal injection for access checks.
package middlewares
