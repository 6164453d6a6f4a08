// Package handler implements the diagnostics HTTP handlers: endpoint
// status with an on-demand liveness probe, and process liveness.
package handler
