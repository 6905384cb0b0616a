// Package library persists episode match runs in a SQLite database.
//
// A run records the directories that were scanned, the series name the
// matcher settled on, which resolver produced the result, and one row per
// episode. Later commands read the most recent run back to align a chosen
// episode without rescanning. Writes hold an advisory file lock next to the
// database so concurrent CLI invocations do not interleave transactions.
package library
