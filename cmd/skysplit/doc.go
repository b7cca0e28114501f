// Package main hosts the skysplit CLI entrypoint and command graph.
//
// The Cobra-based command tree covers URL list generation, batch runs,
// catalog rebuilds, ledger inspection, and configuration scaffolding. It
// centralizes configuration resolution, structured logging setup, and the
// run lock so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
