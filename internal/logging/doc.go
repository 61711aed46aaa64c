// Package logging provides structured logging for the V-ZUG tooling.
//
// Logging is built on zap and is silent by default so that CLI output
// stays clean. Verbosity is controlled through the VZUG_LOG_LEVEL
// environment variable (debug, info, warn, error); when it is unset a
// no-op logger is installed.
//
// The package exposes zap's field-based API through package-level helpers
// (Debug, Info, Warn, Error) plus a small number of domain helpers for
// recurring events such as aggregate refreshes.
package logging
