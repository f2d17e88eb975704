// Package client talks to the remote journal store.
//
// # Overview
//
// Client is the transport-agnostic contract the persistence gateway depends
// on: fetch the full collection, create an entry and get it back with its
// remote id, delete by id, and a cheap liveness Ping that the connectivity
// prober is built on. HTTPClient implements it over the store's JSON API:
//
//	GET    /entries        -> 200 [entry, ...]
//	POST   /entries        -> 201 entry
//	DELETE /entries/{id}   -> 204 (404 counts as already deleted)
//	GET    /health         -> 200
//
// # Error Handling
//
// Failures are mapped onto sentinel errors that callers match with errors.Is:
// ErrUnavailable (transport error, timeout, 5xx), ErrBadStatus (any other
// non-success status) and ErrDecode (a success response with an unreadable
// body).
//
// Every call honours ctx. Without a deadline on ctx a call is bounded only
// by the HTTP client timeout given to NewHTTPClient.
package client
