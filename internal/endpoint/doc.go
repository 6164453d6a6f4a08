// Package endpoint defines the resolved backend endpoint entity and the
// address normalization rules applied to explicitly configured overrides.
package endpoint
