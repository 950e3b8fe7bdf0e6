// Package rpc provides the segment backup RPC system: the durability
// path masters use to replicate append-only log segments to backup
// servers and read them back during recovery.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures shared across the RPC system,
//     including the Message protocol, frame limits, configuration
//     structures, the error taxonomy and logging.
//
//   - codec: The fixed binary wire format; explicit encode/decode
//     with length validation on both directions.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets, in-process), all preserving
//     message boundaries.
//
//   - client: The master side, with per-host RPC stubs (BackupHost)
//     and the replication facade (MultiBackupClient).
//
//   - server: The backup side, dispatching requests over a pluggable
//     segment store (in-memory or badger-backed).
package rpc
