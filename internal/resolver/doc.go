// Package resolver decides which backend base address the process talks to.
//
// Resolution runs in one of two modes. With an explicit override configured,
// the normalized override is the answer and the network is never touched.
// Without one, candidates are probed sequentially in priority order; the
// first live candidate is cached for the process lifetime and every later
// Resolve call answers from the cache until Invalidate is called. Concurrent
// Resolve calls share a single probe sequence via singleflight. When no
// candidate responds, resolution settles on a fixed fallback address rather
// than failing, so Resolve always returns a usable value.
package resolver
