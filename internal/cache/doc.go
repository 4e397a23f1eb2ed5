// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package cache provides a thread-safe in-memory LRU cache with TTL support.

The recommendation engine uses it to memoize affinity maps per
(catalog version, viewing history) pair. Entries expire lazily on access and
the least recently used entry is evicted once capacity is reached.

# Usage Example

	c := cache.NewLRU[recommend.Affinities](4096, 5*time.Minute)

	c.Add("v1:abc", affinities)
	if a, ok := c.Get("v1:abc"); ok {
	    // use a
	}

# Thread Safety

All operations take a single mutex. Get mutates recency order, so there is no
read-only fast path.
*/
package cache
