// Package textutil provides filename and display-text helpers shared by the
// matcher and the CLI.
//
// The primary use cases are:
//   - Folding full-width digits and Latin letters (common in CJK release
//     names) to their ASCII forms before pattern matching
//   - Classifying files by extension
//   - Title-casing series names for display
package textutil
