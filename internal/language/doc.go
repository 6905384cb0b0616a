// Package language normalizes the language codes that label the two subtitle
// tracks and knows the language tags that appear in subtitle filenames.
//
// Filenames from Chinese release groups carry tags such as 中文 or 英语 after
// the episode number; Markers returns those tags so the episode matcher can
// strip them when deriving a series name.
package language
