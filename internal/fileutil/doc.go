// Package fileutil holds small filesystem helpers shared by the CLI and
// config scaffolding.
package fileutil
