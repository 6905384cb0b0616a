// Package logging assembles structured slog loggers and formatting helpers used
// across bisub.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers plus standardized field keys so
// warnings and decisions carry the same shape everywhere. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
