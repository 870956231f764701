// Package internal wires the controller stack together: the base page
// controller, the JSON API controller, the HTTP boundary resource with
// its action registry, and the response helpers (envelope writing,
// redirects, XML, downloads, progress streaming).
//
// The root controllers package re-exports the public surface; see its
// documentation for usage examples.
package internal
