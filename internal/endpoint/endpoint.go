package endpoint

import (
	"strings"
	"time"
)

// Source describes how an endpoint was determined.
type Source string

const (
	SourceOverride Source = "override"
	SourceProbed   Source = "probed"
	SourceFallback Source = "fallback"
)

// Endpoint is a resolved backend base address together with how and
// when it was determined.
type Endpoint struct {
	Address    string
	Source     Source
	ResolvedAt time.Time
}

// Normalize prepares an explicitly configured backend address: trailing
// slashes are trimmed and an already-present API prefix is stripped before
// the prefix is appended, so the prefix never appears twice. Applying
// Normalize to its own output returns the same string.
func Normalize(raw, apiPrefix string) string {
	addr := strings.TrimRight(raw, "/")

	prefix := strings.Trim(apiPrefix, "/")
	if prefix == "" {
		return addr
	}
	prefix = "/" + prefix

	for strings.HasSuffix(addr, prefix) {
		addr = strings.TrimRight(strings.TrimSuffix(addr, prefix), "/")
	}

	return addr + prefix
}

// TrimAddress strips trailing slashes from a candidate or fallback URL so
// probe paths can be joined against a clean base.
func TrimAddress(raw string) string {
	return strings.TrimRight(raw, "/")
}
