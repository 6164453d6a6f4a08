// Package logger constructs the shared slog.Logger: level parsing, JSON
// output in prod, text elsewhere, with the environment attached to every
// record.
package logger
