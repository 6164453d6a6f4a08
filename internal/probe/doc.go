// Package probe implements the single-shot HTTP liveness probe used to
// decide whether a candidate backend is reachable and responsive. It
// performs no application work against the backend.
package probe
