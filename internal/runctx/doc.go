// Package runctx carries per-run annotations (batch run ID, per-track request
// ID and source track key) on a context so logs emitted deep inside a batch
// can be correlated without threading extra parameters.
package runctx
