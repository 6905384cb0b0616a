// Package main hosts the bisub CLI entrypoint and command graph.
//
// The Cobra command tree reads cue lists encoded as JSON, aligns two tracks
// into bilingual cues, groups directory listings into episodes, and keeps a
// record of match runs in the library database so a later invocation can
// align a single episode by key. Configuration and logging are resolved once
// per invocation in commandContext so subcommands only deal with their own
// flags.
//
// Results go to stdout (a table on a terminal, JSON otherwise); logs go to
// stderr and the configured log directory.
package main
