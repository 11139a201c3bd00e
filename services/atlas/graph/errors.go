// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the in-memory graph snapshot store and the
// analytics engine that runs over it.
//
// # Ownership Model
//
// A Snapshot is immutable once built. All mutation happens by building a
// new Snapshot from a full node/edge payload and swapping it into the
// Store. Readers that captured the previous Snapshot keep a consistent
// view until they drop it.
//
// # Thread Safety
//
// Store is safe for concurrent use. Snapshot and Analytics are read-only
// after construction and therefore safe to share without locking.
//
// # Lifecycle
//
//	payload -> NewSnapshot (validate everything, all-or-nothing)
//	        -> Store.SetData (atomic swap)
//	        -> Analytics / query engines built over the new Snapshot
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions indicates an options struct that failed
	// validation.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrInvalidNode indicates a node with a missing or empty ID.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidEdge indicates an edge with a missing endpoint ID.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrDuplicateNode indicates two nodes in one payload share an ID.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrDuplicateEdge indicates two edges in one payload share an
	// explicit ID.
	ErrDuplicateEdge = errors.New("duplicate edge ID")

	// ErrDanglingEdge indicates an edge endpoint that names a node not
	// present in the same payload. The whole payload is rejected.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrNodeNotFound indicates a lookup for a node ID that is not in
	// the active snapshot.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPropertyValue indicates a property value that is not a scalar
	// (string, number, boolean, or RFC 3339 timestamp).
	ErrPropertyValue = errors.New("unsupported property value")

	// ErrBuildCancelled indicates the context was cancelled while a
	// snapshot or an analytics pass was being computed.
	ErrBuildCancelled = errors.New("build cancelled")
)

func errInvalidOption(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOptions, msg)
}
