// Package main hosts the lumen CLI entrypoint and command graph.
//
// The Cobra-based command tree covers both halves of the pipeline: emitting
// wire-format records from shell scripts, and decoding streams of them back
// into colorized text from stdin, files, or compressed archives. It
// centralizes configuration resolution and color detection so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
