// Package container models a sectioned, ordered collection of objects and
// reports every structural change to a single observer.
//
// A container is a list of sections, each holding an ordered list of
// objects. Objects are addressed by a Position (section, row), both
// zero-based. Mutations are applied synchronously and, once storage reflects
// them, are announced to the Delegate as one batch:
//
//	WillChangeContent
//	DidChangeObject / DidChangeSection (one or more)
//	DidChangeContent
//
// Containers are not safe for concurrent use. Callers confine a container to
// one goroutine, and a Delegate must not mutate the container it is being
// notified by; Array panics when that happens.
package container
