// Package main hosts the trackmatch CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into calls on the
// matching engine, the local catalog, the batch runner and the review store.
// It centralizes configuration resolution, .env loading and logger setup so
// subcommands can focus on presentation.
//
// Keep this package lean: add new functionality to the internal packages
// first, then surface it through dedicated commands or flags here.
package main
