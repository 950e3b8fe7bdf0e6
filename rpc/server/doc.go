// Package server implements the backup side of the segment backup
// protocol: it answers the segment RPCs a master issues against a
// pluggable segment store.
//
// The package focuses on:
//   - Routing decoded requests to the store and mapping every store
//     failure to an error response the client surfaces verbatim
//   - Enforcing the segment lifecycle (open, written, committed,
//     freed) in the store implementations
//   - Per-operation request counters exposed over Prometheus
//
// Key Components:
//
//   - BackupServer: transport-facing request handler plus the Serve
//     loop. The handler is also usable directly via the in-process
//     transport.
//
//   - ISegmentStore: the storage contract, with an in-memory
//     implementation (default, used by tests) and a badger-backed
//     implementation that survives restarts.
package server
