package textutil

import "golang.org/x/text/width"

// FoldWidth maps full-width and half-width compatibility characters to their
// canonical forms, so "第０３集" becomes "第03集". Ideographs are untouched.
func FoldWidth(value string) string {
	return width.Fold.String(value)
}
