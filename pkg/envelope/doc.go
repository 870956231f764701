// Package envelope implements the mutable result accumulator behind JSON API
// controller responses.
//
// An Envelope collects named payload fields and human-readable error messages
// over the course of one request, then materializes them into a stable wire
// shape:
//
//	{
//	    "result": {...},
//	    "status": "ok" | "error",
//	    "code": 200 | 400,
//	    "errors": [...],
//	    "execution_time": 0.0123
//	}
//
// Status and code are never stored: they are derived from the error list at
// serialization time, so the envelope cannot drift into an inconsistent
// state. An explicit code override exists for the few paths (not-found pages,
// progress streaming) that need one.
//
// The payload keeps field insertion order, which matters to API clients that
// diff raw responses. Clear rebuilds the canonical empty state and may be
// called any number of times; progress streaming relies on this to emit
// several envelopes over one response body.
package envelope
