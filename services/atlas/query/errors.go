// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query implements lookups, traversals, and a small filter
// language over one graph snapshot.
//
// An Engine is built per snapshot and is immutable afterwards; when the
// store swaps in a new snapshot a new Engine is built beside it. Index
// misses are empty results, not errors. Errors are reserved for
// unknown traversal endpoints and unparseable filter expressions.
package query

import "errors"

var (
	// ErrUnknownNode indicates a traversal endpoint that is not in
	// the snapshot.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMalformedQuery indicates a filter expression with no
	// parseable condition. The caller receives an empty result plus
	// this error as the diagnostic.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrDepthNegative indicates a negative traversal depth.
	ErrDepthNegative = errors.New("depth must not be negative")
)
