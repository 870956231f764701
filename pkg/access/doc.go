// Package access guards controller actions with permission checks.
//
// The Gate delegates to an application-supplied Policy and is fail-closed:
// without a policy every check denies. A failed requirement is reported as
// a typed *DeniedError so the HTTP boundary can map it to a 403 response
// or an error page.
package access
