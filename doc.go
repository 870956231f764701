// Package controllers provides the response and validation layer for
// HTTP APIs: a canonical JSON envelope, message translation, validation
// dispatch, permission checks and a shared CRUD pipeline.
//
// The package is organized around three controller types. Controller
// renders HTML pages and resolves request parameters. API accumulates a
// response envelope through fluent calls. Resource is the HTTP boundary
// that builds a fresh API per request and dispatches registered actions
// by name.
//
// # Quick start
//
// Register actions on a resource and mount it on a chi router:
//
//	resolver := messages.NewResolver("users",
//	    messages.WithTable("en", map[string]any{"save": "Saved"}),
//	)
//
//	rs := controllers.NewResource(
//	    controllers.WithAPIOptions(
//	        controllers.WithResolver(resolver),
//	        controllers.WithGate(access.NewGate(policy)),
//	    ),
//	)
//	rs.Register("save", func(ctx context.Context, api *controllers.API, w http.ResponseWriter, r *http.Request) error {
//	    if err := api.RequireAccess(ctx, "users", "write"); err != nil {
//	        return err
//	    }
//	    api.Message(ctx, "save").Field("uuid", id)
//	    return nil
//	})
//	rs.Mount(router, "/api/users")
//
// Every JSON response carries the same envelope shape:
//
//	{"result": ..., "status": "ok", "code": 200, "errors": [], "execution_time": 0.002}
//
// The status, code and errors fields stay consistent: recording an error
// flips status to "error" and code to 400 unless a code override is set.
//
// # Subpackages
//
// The leaf packages under pkg/ are usable on their own: envelope (the
// response envelope), messages (translation tables and placeholder
// rendering), validation (outcomes and handler dispatch), access
// (permission gate), crud (the persistence pipeline with in-memory and
// Postgres repositories), pagination, cache and logger.
package controllers
