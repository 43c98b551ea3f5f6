package client

import "errors"

// Synchronous errors raised while navigating the call graph or assembling a
// request, before anything reaches the pipeline. Transport failures are
// reported only through the completion callback.
var (
	// ErrInsufficientArguments indicates a template accessor was invoked
	// with fewer arguments than its route declares tags.
	ErrInsufficientArguments = errors.New("insufficient template arguments")

	// ErrInvalidHeaders indicates a non-mapping value passed to Headers.
	ErrInvalidHeaders = errors.New("invalid headers value")

	// ErrNameClaimed indicates the query or headers helper is shadowed by a
	// sibling resource of the same name.
	ErrNameClaimed = errors.New("helper name claimed by a resource")

	// ErrUnknownVerb indicates the resource declares no such HTTP method.
	ErrUnknownVerb = errors.New("method not declared on resource")

	// ErrNotDynamic indicates Call on a child with no template accessor.
	ErrNotDynamic = errors.New("resource is not a template accessor")

	// ErrNoResource indicates a static descent through a missing child.
	ErrNoResource = errors.New("no such resource")
)
