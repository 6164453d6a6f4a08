// Package breaker implements a consecutive-failure circuit breaker used by
// the endpoint monitor to decide when the resolved backend should be
// considered gone and the resolver cache invalidated.
package breaker
